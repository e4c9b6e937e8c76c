package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bistro/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentReservations(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	const capacity = 30

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)

	// Each goroutine asks for 4 seats in the same slot; only 7 can land
	// inside a 30-seat capacity.
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			r := &models.Reservation{
				Name:      "Guest",
				Phone:     "+1234567890",
				Date:      date,
				SlotStart: "18:00",
				SlotEnd:   "19:00",
				PartySize: 4,
			}
			results <- db.CreateReservationWithLock(ctx, r, capacity)
		}()
	}

	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		rejected++
	}

	assert.Equal(t, 7, succeeded)
	assert.Equal(t, 3, rejected)

	seats, err := db.GetReservedSeats(ctx, date, "18:00")
	require.NoError(t, err)
	assert.LessOrEqual(t, seats, capacity)
	assert.Equal(t, 28, seats)
}

// Concurrent bookings that all fit must all land. With deferred
// transactions two writers deadlock upgrading their read locks and one
// fails with "database is locked"; the immediate txlock in the DSN
// serializes them instead.
func TestConcurrentReservationsAllFit(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency_fit.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	date := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	const capacity = 30

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			r := &models.Reservation{
				Name:      "Guest",
				Phone:     "+1234567890",
				Date:      date,
				SlotStart: "19:00",
				SlotEnd:   "20:00",
				PartySize: 2,
			}
			results <- db.CreateReservationWithLock(ctx, r, capacity)
		}()
	}

	wg.Wait()
	close(results)

	for err := range results {
		require.NoError(t, err)
	}

	seats, err := db.GetReservedSeats(ctx, date, "19:00")
	require.NoError(t, err)
	assert.Equal(t, 20, seats)
}
