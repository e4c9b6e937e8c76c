package models

// Reservation statuses. Only confirmed reservations consume slot capacity.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// Blog post statuses.
const (
	BlogDraft     = "DRAFT"
	BlogPublished = "PUBLISHED"
)

const (
	// DefaultCapacityPerSlot seats a single slot may accept
	DefaultCapacityPerSlot = 30

	// DefaultSlotDurationMinutes width of a booking window
	DefaultSlotDurationMinutes = 60

	// DefaultMaxPartySize largest party a single reservation may bring
	DefaultMaxPartySize = 10

	// SlotCacheTTLSeconds lifetime of a cached slot listing
	SlotCacheTTLSeconds = 60

	// AdminTokenTTLDays validity of an issued admin token
	AdminTokenTTLDays = 7

	// WorkerQueueSize size of the sheets sync queue
	WorkerQueueSize = 256
)
