package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro/internal/models"
)

// GetOpeningHours returns all opening-hour rows ordered by weekday.
func (db *DB) GetOpeningHours(ctx context.Context) ([]models.OpeningHour, error) {
	query := `SELECT id, day_of_week, is_closed, open_time, close_time
              FROM opening_hours ORDER BY day_of_week ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get opening hours: %w", err)
	}
	defer rows.Close()

	var hours []models.OpeningHour
	for rows.Next() {
		var h models.OpeningHour
		if err := rows.Scan(&h.ID, &h.DayOfWeek, &h.IsClosed, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, fmt.Errorf("failed to scan opening hour: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// GetOpeningHour returns the row for one weekday (0=Sunday).
func (db *DB) GetOpeningHour(ctx context.Context, dayOfWeek int) (*models.OpeningHour, error) {
	query := `SELECT id, day_of_week, is_closed, open_time, close_time
              FROM opening_hours WHERE day_of_week = ?`
	var h models.OpeningHour
	err := db.QueryRowContext(ctx, query, dayOfWeek).Scan(&h.ID, &h.DayOfWeek, &h.IsClosed, &h.OpenTime, &h.CloseTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get opening hour: %w", err)
	}
	return &h, nil
}

// GetConfig returns the singleton policy row, falling back to defaults when
// the row has never been written.
func (db *DB) GetConfig(ctx context.Context) (models.RestaurantConfig, error) {
	query := `SELECT capacity_per_slot, slot_duration_minutes, max_party_size
              FROM restaurant_config WHERE id = 1`
	var cfg models.RestaurantConfig
	err := db.QueryRowContext(ctx, query).Scan(&cfg.CapacityPerSlot, &cfg.SlotDurationMinutes, &cfg.MaxPartySize)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultRestaurantConfig(), nil
	}
	if err != nil {
		return models.RestaurantConfig{}, fmt.Errorf("failed to get config: %w", err)
	}
	return cfg, nil
}

// UpsertOpeningHoursAndConfig applies all seven weekday rows plus the
// singleton config as one transaction: either everything lands or nothing
// does. Callers validate the entries before getting here.
func (db *DB) UpsertOpeningHoursAndConfig(ctx context.Context, hours []models.OpeningHour, cfg models.RestaurantConfig) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	upsertHour := `INSERT INTO opening_hours (day_of_week, is_closed, open_time, close_time)
                   VALUES (?, ?, ?, ?)
                   ON CONFLICT(day_of_week) DO UPDATE SET
                       is_closed = excluded.is_closed,
                       open_time = excluded.open_time,
                       close_time = excluded.close_time`
	for _, h := range hours {
		openTime, closeTime := h.OpenTime, h.CloseTime
		if h.IsClosed {
			openTime, closeTime = nil, nil
		}
		if _, err := tx.ExecContext(ctx, upsertHour, h.DayOfWeek, h.IsClosed, openTime, closeTime); err != nil {
			return fmt.Errorf("failed to upsert opening hour for day %d: %w", h.DayOfWeek, err)
		}
	}

	upsertConfig := `INSERT INTO restaurant_config (id, capacity_per_slot, slot_duration_minutes, max_party_size)
                     VALUES (1, ?, ?, ?)
                     ON CONFLICT(id) DO UPDATE SET
                         capacity_per_slot = excluded.capacity_per_slot,
                         slot_duration_minutes = excluded.slot_duration_minutes,
                         max_party_size = excluded.max_party_size`
	if _, err := tx.ExecContext(ctx, upsertConfig, cfg.CapacityPerSlot, cfg.SlotDurationMinutes, cfg.MaxPartySize); err != nil {
		return fmt.Errorf("failed to upsert config: %w", err)
	}

	return tx.Commit()
}
