package events

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventReservationCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := ReservationEventPayload{
		ReservationID: 42,
		Name:          "Guest",
		Date:          "2026-09-15",
		SlotStart:     "18:00",
		PartySize:     4,
	}
	if err := bus.PublishJSON(EventReservationCreated, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if received.Type != EventReservationCreated {
		t.Errorf("expected type %s, got %s", EventReservationCreated, received.Type)
	}

	var decoded ReservationEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.ReservationID != 42 || decoded.SlotStart != "18:00" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return errors.New("handler error does not stop the fanout") })
	bus.Subscribe("other", func(_ *Event) error { t.Error("wrong type delivered"); return nil })

	bus.Publish(&Event{Type: "event"})
	bus.Publish(&Event{Type: "event"})

	if count1 != 2 || count2 != 2 {
		t.Errorf("expected both handlers called twice, got %d and %d", count1, count2)
	}
}

func TestEventBusNilReceiver(t *testing.T) {
	var bus *EventBus
	if err := bus.PublishJSON("event", map[string]string{"a": "b"}); err != nil {
		t.Errorf("nil bus should drop events silently, got %v", err)
	}
}
