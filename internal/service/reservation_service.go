package service

import (
	"context"
	"time"

	"bistro/internal/database"
	"bistro/internal/domain"
	"bistro/internal/events"
	"bistro/internal/metrics"
	"bistro/internal/models"
	"bistro/internal/slots"

	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type ReservationService struct {
	repo         domain.Repository
	cache        domain.SlotCache
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewReservationService(repo domain.Repository, cache domain.SlotCache, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		repo:         repo,
		cache:        cache,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

// GetSlots returns the availability grid for one date, serving from the
// cache when it can. Closed days come back with an empty slot list.
func (s *ReservationService) GetSlots(ctx context.Context, dateStr string) (*slots.Day, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, invalid("date", "invalid date format, expected YYYY-MM-DD")
	}

	if s.cache != nil {
		if day, err := s.cache.GetDay(ctx, dateStr); err == nil && day != nil {
			metrics.IncSlotCacheHit()
			return day, nil
		}
		metrics.IncSlotCacheMiss()
	}

	day, err := s.generateDay(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDay(ctx, day); err != nil {
			s.logger.Warn().Err(err).Str("date", dateStr).Msg("failed to cache slots")
		}
	}
	return day, nil
}

func (s *ReservationService) generateDay(ctx context.Context, date time.Time) (*slots.Day, error) {
	hour, err := s.repo.GetOpeningHour(ctx, int(date.Weekday()))
	if err != nil && err != database.ErrNotFound {
		return nil, err
	}

	day := &slots.Day{Date: date.Format(dateLayout)}
	if err == database.ErrNotFound || hour.IsClosed {
		day.Closed = true
		return day, nil
	}

	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	load, err := s.repo.GetConfirmedLoad(ctx, date)
	if err != nil {
		return nil, err
	}

	day.Slots = slots.Generate(*hour, cfg, load)
	if day.Slots == nil {
		day.Closed = true
	}
	return day, nil
}

// CreateReservation validates the request, admits it against slot capacity
// inside a transaction and fans out the side effects. Validation failures
// surface as *ValidationError, capacity exhaustion as *database.CapacityError.
func (s *ReservationService) CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.Reservation, error) {
	if req.Name == "" {
		return nil, invalid("name", "name is required")
	}
	if req.Phone == "" {
		return nil, invalid("phone", "phone is required")
	}
	if req.Date == "" {
		return nil, invalid("date", "date is required")
	}
	if req.SlotStart == "" {
		return nil, invalid("slotStart", "slotStart is required")
	}
	if req.PartySize <= 0 {
		return nil, invalid("partySize", "partySize must be positive")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, invalid("date", "invalid date format, expected YYYY-MM-DD")
	}

	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if req.PartySize > cfg.MaxPartySize {
		return nil, invalid("partySize", "party size exceeds the maximum allowed")
	}

	hour, err := s.repo.GetOpeningHour(ctx, int(date.Weekday()))
	if err == database.ErrNotFound {
		return nil, database.ErrClosedDay
	}
	if err != nil {
		return nil, err
	}

	openMins, closeMins, ok := slots.Window(*hour)
	if !ok {
		return nil, database.ErrClosedDay
	}

	startMins, err := slots.ToMinutes(req.SlotStart)
	if err != nil {
		return nil, database.ErrInvalidSlot
	}

	duration := cfg.SlotDurationMinutes
	// The full window must fit inside opening hours. Off-grid starts
	// (e.g. 10:30 with 60-minute slots from 10:00) are accepted.
	if startMins < openMins || startMins+duration > closeMins {
		return nil, database.ErrInvalidSlot
	}

	reservation := &models.Reservation{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Date:      date,
		SlotStart: req.SlotStart,
		SlotEnd:   slots.ToHHMM(startMins + duration),
		PartySize: req.PartySize,
	}

	if err := s.repo.CreateReservationWithLock(ctx, reservation, cfg.CapacityPerSlot); err != nil {
		if _, ok := err.(*database.CapacityError); ok {
			metrics.IncReservationConflict()
		}
		return nil, err
	}

	metrics.IncReservationCreated()
	s.invalidateDate(ctx, req.Date)
	s.publishReservation(events.EventReservationCreated, reservation)

	if s.sheetsWorker != nil {
		if err := s.sheetsWorker.EnqueueReservation(ctx, reservation); err != nil {
			s.logger.Warn().Err(err).Int64("reservation_id", reservation.ID).Msg("failed to enqueue sheets sync")
		}
	}

	s.logger.Info().
		Int64("reservation_id", reservation.ID).
		Str("date", req.Date).
		Str("slot", req.SlotStart).
		Int("party_size", req.PartySize).
		Msg("reservation created")

	return reservation, nil
}

// CancelReservation flips a reservation to CANCELLED, freeing its seats
// for subsequent bookings on that slot.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64) error {
	if err := s.repo.UpdateReservationStatus(ctx, id, models.ReservationCancelled); err != nil {
		return err
	}

	reservation, err := s.repo.GetReservation(ctx, id)
	if err == nil {
		s.invalidateDate(ctx, reservation.Date.Format(dateLayout))
		s.publishReservation(events.EventReservationCancelled, reservation)
	}
	return nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	return s.repo.ListReservations(ctx)
}

func (s *ReservationService) ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	return s.repo.ListReservationsByDateRange(ctx, start, end)
}

func (s *ReservationService) invalidateDate(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		s.logger.Warn().Err(err).Str("date", date).Msg("failed to invalidate slot cache")
	}
}

func (s *ReservationService) publishReservation(eventType string, r *models.Reservation) {
	if s.eventBus == nil {
		return
	}
	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		Date:          r.Date.Format(dateLayout),
		SlotStart:     r.SlotStart,
		SlotEnd:       r.SlotEnd,
		PartySize:     r.PartySize,
		Status:        r.Status,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
