package repository

import (
	"context"
	"errors"
	"io"
	"testing"

	"bistro/internal/slots"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetDay(ctx context.Context, date string) (*slots.Day, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slots.Day), args.Error(1)
}

func (m *mockCache) SetDay(ctx context.Context, day *slots.Day) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}

func (m *mockCache) InvalidateDate(ctx context.Context, date string) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestFailoverSlotCache(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverSlotCache(primary, fallback, &logger)

		day := sampleDay("2026-09-15")
		primary.On("GetDay", ctx, "2026-09-15").Return(day, nil).Once()

		got, err := cache.GetDay(ctx, "2026-09-15")
		assert.NoError(t, err)
		assert.Equal(t, day, got)
		primary.AssertExpectations(t)
		fallback.AssertNotCalled(t, "GetDay", mock.Anything, mock.Anything)
	})

	t.Run("FallbackOnPrimaryError", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverSlotCache(primary, fallback, &logger)

		day := sampleDay("2026-09-15")
		primary.On("GetDay", ctx, "2026-09-15").Return(nil, errors.New("connection refused")).Once()
		fallback.On("GetDay", ctx, "2026-09-15").Return(day, nil).Once()

		got, err := cache.GetDay(ctx, "2026-09-15")
		assert.NoError(t, err)
		assert.Equal(t, day, got)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallbackWhileDown", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverSlotCache(primary, fallback, &logger)

		primary.On("SetDay", ctx, mock.Anything).Return(errors.New("down")).Once()
		fallback.On("SetDay", ctx, mock.Anything).Return(nil).Twice()

		assert.NoError(t, cache.SetDay(ctx, sampleDay("2026-09-15")))
		// Second write goes straight to the fallback without retouching
		// the primary.
		assert.NoError(t, cache.SetDay(ctx, sampleDay("2026-09-16")))

		primary.AssertNumberOfCalls(t, "SetDay", 1)
		fallback.AssertExpectations(t)
	})

	t.Run("InvalidateReachesBoth", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverSlotCache(primary, fallback, &logger)

		primary.On("InvalidateAll", ctx).Return(nil).Once()
		fallback.On("InvalidateAll", ctx).Return(nil).Once()

		assert.NoError(t, cache.InvalidateAll(ctx))
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}
