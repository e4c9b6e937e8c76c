package notify

import (
	"encoding/json"
	"fmt"

	"bistro/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes reservation events to the managers' chats. It
// subscribes to the event bus so the booking path never talks to Telegram
// directly.
type TelegramNotifier struct {
	bot     TelegramSender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(bot TelegramSender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		logger:  logger,
	}
}

// SubscribeTo registers the notifier on the bus.
func (n *TelegramNotifier) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.EventReservationCreated, n.handleReservation("New reservation"))
	bus.Subscribe(events.EventReservationCancelled, n.handleReservation("Reservation cancelled"))
	bus.Subscribe(events.EventBlogPublished, n.handleBlogPublished)
	bus.Subscribe(events.EventOpeningHoursUpdated, n.handleScheduleUpdated)
}

func (n *TelegramNotifier) handleScheduleUpdated(*events.Event) error {
	n.broadcast("Opening hours and booking policy updated")
	return nil
}

func (n *TelegramNotifier) handleBlogPublished(event *events.Event) error {
	var payload events.BlogEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("failed to decode blog event")
		return err
	}
	n.broadcast(fmt.Sprintf("Post published: %s\n/blogs/%s", payload.Title, payload.Slug))
	return nil
}

func (n *TelegramNotifier) handleReservation(title string) events.EventHandler {
	return func(event *events.Event) error {
		var payload events.ReservationEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error().Err(err).Str("event", event.Type).Msg("failed to decode reservation event")
			return err
		}
		n.broadcast(formatReservation(title, payload))
		return nil
	}
}

func (n *TelegramNotifier) broadcast(text string) {
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send telegram notification")
		}
	}
}

func formatReservation(title string, p events.ReservationEventPayload) string {
	text := fmt.Sprintf("%s #%d\n%s %s-%s\n%s, %d guests\n%s",
		title, p.ReservationID, p.Date, p.SlotStart, p.SlotEnd, p.Name, p.PartySize, p.Phone)
	if p.Email != "" {
		text += "\n" + p.Email
	}
	return text
}
