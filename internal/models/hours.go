package models

// OpeningHour holds the open/close window for one weekday.
// DayOfWeek is Sunday-first (0-6). Times are nil while the day is closed.
type OpeningHour struct {
	ID        int64   `json:"id"`
	DayOfWeek int     `json:"dayOfWeek"`
	IsClosed  bool    `json:"isClosed"`
	OpenTime  *string `json:"openTime"`  // "10:00"
	CloseTime *string `json:"closeTime"` // "22:00"
}

// RestaurantConfig is the singleton booking policy row (id=1).
type RestaurantConfig struct {
	CapacityPerSlot     int `json:"capacityPerSlot"`
	SlotDurationMinutes int `json:"slotDurationMinutes"`
	MaxPartySize        int `json:"maxPartySize"`
}

// DefaultRestaurantConfig returns the policy applied before an admin
// has ever saved one.
func DefaultRestaurantConfig() RestaurantConfig {
	return RestaurantConfig{
		CapacityPerSlot:     DefaultCapacityPerSlot,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		MaxPartySize:        DefaultMaxPartySize,
	}
}
