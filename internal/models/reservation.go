package models

import "time"

// Reservation is a confirmed or cancelled table booking. The slot window is
// denormalized onto the row (date + slotStart/slotEnd); aggregates are always
// recomputed by query, never stored.
type Reservation struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Date      time.Time `json:"date"`
	SlotStart string    `json:"slotStart"` // "18:00"
	SlotEnd   string    `json:"slotEnd"`   // "19:00"
	PartySize int       `json:"partySize"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationRequest is the public booking payload. Date is "2006-01-02"
// and SlotStart must match a generated slot boundary.
type ReservationRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Date      string `json:"date"`
	SlotStart string `json:"slotStart"`
	PartySize int    `json:"partySize"`
}

// SlotLoad is the per-window aggregate used by the slot generator.
type SlotLoad struct {
	SlotStart string
	Seats     int
}
