package slots

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bistro/internal/models"
)

// Slot is one bookable window derived from opening hours, the configured
// slot duration and the confirmed load on that date. Never persisted.
type Slot struct {
	Start           string `json:"start"` // "18:00"
	End             string `json:"end"`   // "19:00"
	CapacityPerSlot int    `json:"capacityPerSlot"`
	ReservedSeats   int    `json:"reservedSeats"`
	AvailableSeats  int    `json:"availableSeats"`
	IsAvailable     bool   `json:"isAvailable"`
}

var hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// IsHHMM reports whether s looks like a 24h "HH:MM" time.
func IsHHMM(s string) bool {
	if !hhmmRe.MatchString(s) {
		return false
	}
	_, err := ToMinutes(s)
	return err == nil
}

// ToMinutes converts "HH:MM" to minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", hhmm, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time out of range: %s", hhmm)
	}
	return h*60 + m, nil
}

// ToHHMM formats minutes since midnight as "HH:MM".
func ToHHMM(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Window returns the day's open/close bounds in minutes since midnight.
// ok is false when the day is closed or carries no usable times.
func Window(day models.OpeningHour) (openMins, closeMins int, ok bool) {
	if day.IsClosed || day.OpenTime == nil || day.CloseTime == nil {
		return 0, 0, false
	}
	open, err := ToMinutes(*day.OpenTime)
	if err != nil {
		return 0, 0, false
	}
	closeM, err := ToMinutes(*day.CloseTime)
	if err != nil {
		return 0, 0, false
	}
	if open >= closeM {
		return 0, 0, false
	}
	return open, closeM, true
}

// Generate enumerates the fixed-width windows for one day. reserved maps a
// slot start ("18:00") to the summed party size of confirmed reservations.
// A window is included only while start+duration fits before closing
// (inclusive boundary). Pure function of its inputs: calling it twice with
// the same state yields identical output.
func Generate(day models.OpeningHour, cfg models.RestaurantConfig, reserved map[string]int) []Slot {
	openMins, closeMins, ok := Window(day)
	if !ok {
		return nil
	}

	duration := cfg.SlotDurationMinutes
	if duration <= 0 {
		duration = models.DefaultSlotDurationMinutes
	}
	capacity := cfg.CapacityPerSlot
	if capacity <= 0 {
		capacity = models.DefaultCapacityPerSlot
	}

	var out []Slot
	for t := openMins; t+duration <= closeMins; t += duration {
		start := ToHHMM(t)
		taken := reserved[start]
		available := capacity - taken
		if available < 0 {
			available = 0
		}
		out = append(out, Slot{
			Start:           start,
			End:             ToHHMM(t + duration),
			CapacityPerSlot: capacity,
			ReservedSeats:   taken,
			AvailableSeats:  available,
			IsAvailable:     available > 0,
		})
	}
	return out
}
