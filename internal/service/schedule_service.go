package service

import (
	"context"
	"fmt"

	"bistro/internal/domain"
	"bistro/internal/events"
	"bistro/internal/models"
	"bistro/internal/slots"

	"github.com/rs/zerolog"
)

// ScheduleService owns the weekly opening hours and the booking policy.
// Both are saved together in one transaction so the slot grid never mixes
// an old policy with new hours.
type ScheduleService struct {
	repo     domain.Repository
	cache    domain.SlotCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewScheduleService(repo domain.Repository, cache domain.SlotCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Schedule is the combined admin view: all seven weekday rows plus the
// booking policy.
type Schedule struct {
	Hours  []models.OpeningHour    `json:"openingHours"`
	Config models.RestaurantConfig `json:"config"`
}

func (s *ScheduleService) GetSchedule(ctx context.Context) (*Schedule, error) {
	hours, err := s.repo.GetOpeningHours(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &Schedule{Hours: hours, Config: cfg}, nil
}

func (s *ScheduleService) GetOpeningHours(ctx context.Context) ([]models.OpeningHour, error) {
	return s.repo.GetOpeningHours(ctx)
}

// UpdateSchedule validates and applies the full week plus policy. Nothing
// is written unless every entry passes.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, hours []models.OpeningHour, cfg models.RestaurantConfig) error {
	if err := validateHours(hours); err != nil {
		return err
	}
	if err := validatePolicy(cfg); err != nil {
		return err
	}

	if err := s.repo.UpsertOpeningHoursAndConfig(ctx, hours, cfg); err != nil {
		return err
	}

	// The whole grid may have shifted; drop every cached date.
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate slot cache")
		}
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventOpeningHoursUpdated, Schedule{Hours: hours, Config: cfg})
	}

	s.logger.Info().Msg("opening hours and booking policy updated")
	return nil
}

func validateHours(hours []models.OpeningHour) error {
	if len(hours) != 7 {
		return invalid("openingHours", "exactly 7 opening hour entries are required")
	}

	seen := make(map[int]bool, 7)
	for _, h := range hours {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return invalid("dayOfWeek", fmt.Sprintf("day of week %d is out of range", h.DayOfWeek))
		}
		if seen[h.DayOfWeek] {
			return invalid("dayOfWeek", fmt.Sprintf("duplicate entry for day %d", h.DayOfWeek))
		}
		seen[h.DayOfWeek] = true

		if h.IsClosed {
			continue
		}
		if h.OpenTime == nil || h.CloseTime == nil {
			return invalid("openTime", fmt.Sprintf("open and close times are required for day %d", h.DayOfWeek))
		}
		if !slots.IsHHMM(*h.OpenTime) || !slots.IsHHMM(*h.CloseTime) {
			return invalid("openTime", fmt.Sprintf("times for day %d must be HH:MM", h.DayOfWeek))
		}
		open, _ := slots.ToMinutes(*h.OpenTime)
		closeM, _ := slots.ToMinutes(*h.CloseTime)
		if open >= closeM {
			return invalid("openTime", fmt.Sprintf("open time must be before close time for day %d", h.DayOfWeek))
		}
	}
	return nil
}

func validatePolicy(cfg models.RestaurantConfig) error {
	if cfg.CapacityPerSlot <= 0 {
		return invalid("capacityPerSlot", "capacityPerSlot must be positive")
	}
	if cfg.SlotDurationMinutes <= 0 {
		return invalid("slotDurationMinutes", "slotDurationMinutes must be positive")
	}
	if cfg.MaxPartySize <= 0 {
		return invalid("maxPartySize", "maxPartySize must be positive")
	}
	return nil
}
