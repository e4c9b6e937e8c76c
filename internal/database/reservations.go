package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bistro/internal/models"
)

const dateLayout = "2006-01-02"

// GetReservedSeats sums the party sizes of confirmed reservations for one
// date+slot. Aggregates are always recomputed; nothing is stored per slot.
func (db *DB) GetReservedSeats(ctx context.Context, date time.Time, slotStart string) (int, error) {
	query := `SELECT COALESCE(SUM(party_size), 0) FROM reservations
              WHERE date = ? AND slot_start = ? AND status = ?`
	var seats int
	err := db.QueryRowContext(ctx, query, date.Format(dateLayout), slotStart, models.ReservationConfirmed).Scan(&seats)
	if err != nil {
		return 0, fmt.Errorf("failed to get reserved seats: %w", err)
	}
	return seats, nil
}

// GetConfirmedLoad returns the summed confirmed party size per slot start
// for one date, feeding the slot generator.
func (db *DB) GetConfirmedLoad(ctx context.Context, date time.Time) (map[string]int, error) {
	query := `SELECT slot_start, SUM(party_size) FROM reservations
              WHERE date = ? AND status = ? GROUP BY slot_start`
	rows, err := db.QueryContext(ctx, query, date.Format(dateLayout), models.ReservationConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmed load: %w", err)
	}
	defer rows.Close()

	load := make(map[string]int)
	for rows.Next() {
		var slotStart string
		var seats int
		if err := rows.Scan(&slotStart, &seats); err != nil {
			return nil, fmt.Errorf("failed to scan load row: %w", err)
		}
		load[slotStart] = seats
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return load, nil
}

// CreateReservation inserts without a capacity check. Used by tests and
// admin tooling; the public flow goes through CreateReservationWithLock.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (name, phone, email, date, slot_start, slot_end, party_size, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		r.Name, r.Phone, r.Email,
		r.Date.Format(dateLayout), r.SlotStart, r.SlotEnd,
		r.PartySize, r.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// CreateReservationWithLock re-checks remaining capacity and inserts inside
// one transaction, so two concurrent requests for the same slot cannot both
// pass the check and overbook past capacityPerSlot.
func (db *DB) CreateReservationWithLock(ctx context.Context, r *models.Reservation, capacityPerSlot int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var reserved int
	queryCount := `SELECT COALESCE(SUM(party_size), 0) FROM reservations
                   WHERE date = ? AND slot_start = ? AND status = ?`
	err = tx.QueryRowContext(ctx, queryCount,
		r.Date.Format(dateLayout), r.SlotStart, models.ReservationConfirmed).Scan(&reserved)
	if err != nil {
		return fmt.Errorf("failed to check capacity in tx: %w", err)
	}

	available := capacityPerSlot - reserved
	if available < 0 {
		available = 0
	}
	if available < r.PartySize {
		return &CapacityError{AvailableSeats: available}
	}

	queryInsert := `INSERT INTO reservations (name, phone, email, date, slot_start, slot_end, party_size, status, created_at, updated_at)
                    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, queryInsert,
		r.Name, r.Phone, r.Email,
		r.Date.Format(dateLayout), r.SlotStart, r.SlotEnd,
		r.PartySize, models.ReservationConfirmed, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	r.ID = id
	r.Status = models.ReservationConfirmed
	r.CreatedAt = now
	r.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	query := `SELECT id, name, phone, COALESCE(email, ''), date, slot_start, slot_end, party_size, status, created_at, updated_at
              FROM reservations WHERE id = ?`
	var r models.Reservation
	var dateStr string
	err := db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Name, &r.Phone, &r.Email, &dateStr, &r.SlotStart, &r.SlotEnd,
		&r.PartySize, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	r.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reservation date %s: %w", dateStr, err)
	}
	return &r, nil
}

// ListReservations returns every reservation, newest first. Admin view.
func (db *DB) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	query := `SELECT id, name, phone, COALESCE(email, ''), date, slot_start, slot_end, party_size, status, created_at, updated_at
              FROM reservations ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListReservationsByDateRange returns reservations inside [start, end],
// ordered by date and slot. Feeds the xlsx export.
func (db *DB) ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	query := `SELECT id, name, phone, COALESCE(email, ''), date, slot_start, slot_end, party_size, status, created_at, updated_at
              FROM reservations WHERE date >= ? AND date <= ? ORDER BY date ASC, slot_start ASC`
	rows, err := db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations by range: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func scanReservations(rows *sql.Rows) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for rows.Next() {
		r := &models.Reservation{}
		var dateStr string
		err := rows.Scan(
			&r.ID, &r.Name, &r.Phone, &r.Email, &dateStr, &r.SlotStart, &r.SlotEnd,
			&r.PartySize, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		r.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reservation date %s: %w", dateStr, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateReservationStatus flips a reservation's status. Admin tooling only;
// the public flow never mutates a reservation after creation.
func (db *DB) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
