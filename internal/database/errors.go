package database

import (
	"errors"
	"fmt"
)

var (
	// ErrClosedDay means booking or slot generation hit a weekday with no hours.
	ErrClosedDay = errors.New("restaurant is closed on selected date")

	// ErrInvalidSlot means the requested window falls outside opening hours.
	ErrInvalidSlot = errors.New("invalid time slot")

	// ErrNotFound is returned for lookups that match nothing.
	ErrNotFound = errors.New("not found")
)

// CapacityError reports a slot that cannot take the requested party.
// AvailableSeats is the remaining capacity at check time so the caller can
// retry with a smaller party or a different slot.
type CapacityError struct {
	AvailableSeats int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough seats available: %d left", e.AvailableSeats)
}
