package repository

import (
	"context"
	"sync/atomic"
	"time"

	"bistro/internal/domain"
	"bistro/internal/slots"

	"github.com/rs/zerolog"
)

// FailoverSlotCache serves from the primary (Redis) cache and drops to the
// in-memory fallback when it fails, retrying the primary after a minute.
type FailoverSlotCache struct {
	primary   domain.SlotCache
	fallback  domain.SlotCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSlotCache(primary, fallback domain.SlotCache, logger *zerolog.Logger) *FailoverSlotCache {
	return &FailoverSlotCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverSlotCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("Primary slot cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck = time.Now()
}

func (c *FailoverSlotCache) GetDay(ctx context.Context, date string) (*slots.Day, error) {
	if !c.isDown.Load() {
		day, err := c.primary.GetDay(ctx, date)
		if err == nil {
			return day, nil
		}
		c.markDown(err)
	}

	// Try to recover after 1 minute
	if c.isDown.Load() && time.Since(c.lastCheck) > time.Minute {
		day, err := c.primary.GetDay(ctx, date)
		if err == nil {
			c.isDown.Store(false)
			return day, nil
		}
		c.lastCheck = time.Now()
	}

	return c.fallback.GetDay(ctx, date)
}

func (c *FailoverSlotCache) SetDay(ctx context.Context, day *slots.Day) error {
	if !c.isDown.Load() {
		err := c.primary.SetDay(ctx, day)
		if err == nil {
			return nil
		}
		c.markDown(err)
	}
	return c.fallback.SetDay(ctx, day)
}

func (c *FailoverSlotCache) InvalidateDate(ctx context.Context, date string) error {
	// Invalidation goes to both so a recovered primary cannot serve a
	// date that was dropped while it was down.
	var primaryErr error
	if !c.isDown.Load() {
		if primaryErr = c.primary.InvalidateDate(ctx, date); primaryErr != nil {
			c.markDown(primaryErr)
		}
	}
	return c.fallback.InvalidateDate(ctx, date)
}

func (c *FailoverSlotCache) InvalidateAll(ctx context.Context) error {
	var primaryErr error
	if !c.isDown.Load() {
		if primaryErr = c.primary.InvalidateAll(ctx); primaryErr != nil {
			c.markDown(primaryErr)
		}
	}
	return c.fallback.InvalidateAll(ctx)
}
