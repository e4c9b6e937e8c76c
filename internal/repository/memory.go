package repository

import (
	"context"
	"sync"
	"time"

	"bistro/internal/slots"
)

// MemorySlotCache is the in-process fallback used when Redis is not
// configured or unreachable.
type MemorySlotCache struct {
	days sync.Map
	ttl  time.Duration
}

type memoryEntry struct {
	day       *slots.Day
	expiresAt time.Time
}

func NewMemorySlotCache(ttl time.Duration) *MemorySlotCache {
	return &MemorySlotCache{ttl: ttl}
}

func (c *MemorySlotCache) GetDay(ctx context.Context, date string) (*slots.Day, error) {
	val, ok := c.days.Load(date)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.days.Delete(date)
		return nil, nil
	}
	return entry.day, nil
}

func (c *MemorySlotCache) SetDay(ctx context.Context, day *slots.Day) error {
	c.days.Store(day.Date, &memoryEntry{
		day:       day,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

func (c *MemorySlotCache) InvalidateDate(ctx context.Context, date string) error {
	c.days.Delete(date)
	return nil
}

func (c *MemorySlotCache) InvalidateAll(ctx context.Context) error {
	c.days.Range(func(key, _ any) bool {
		c.days.Delete(key)
		return true
	})
	return nil
}
