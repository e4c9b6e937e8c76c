package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"bistro/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// _txlock=immediate makes every transaction take the write lock at
	// BEGIN. Deferred transactions that read then write can deadlock
	// against each other (both hold shared locks, neither can upgrade,
	// and SQLite fails the upgrade with SQLITE_BUSY before _busy_timeout
	// applies), which would break the capacity-checked insert under
	// concurrent bookings.
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if logger != nil {
		logger.Info().Str("path", path).Msg("database initialized")
	}
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS admin_users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS restaurant_config (
            id INTEGER PRIMARY KEY CHECK (id = 1),
            capacity_per_slot INTEGER NOT NULL,
            slot_duration_minutes INTEGER NOT NULL,
            max_party_size INTEGER NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS opening_hours (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            day_of_week INTEGER UNIQUE NOT NULL,
            is_closed BOOLEAN NOT NULL DEFAULT 0,
            open_time TEXT,
            close_time TEXT
        )`,

		`CREATE TABLE IF NOT EXISTS menu_categories (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            sort_order INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS menu_items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            category_id INTEGER NOT NULL REFERENCES menu_categories(id),
            name TEXT NOT NULL,
            description TEXT,
            price REAL NOT NULL,
            image_url TEXT,
            available BOOLEAN NOT NULL DEFAULT 1,
            sort_order INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS blog_posts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            slug TEXT UNIQUE NOT NULL,
            excerpt TEXT,
            content TEXT NOT NULL,
            cover_image TEXT,
            status TEXT NOT NULL DEFAULT 'DRAFT',
            published_at DATETIME,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS reservations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT,
            date TEXT NOT NULL,
            slot_start TEXT NOT NULL,
            slot_end TEXT NOT NULL,
            party_size INTEGER NOT NULL,
            status TEXT NOT NULL DEFAULT 'CONFIRMED',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS sync_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            reservation_id INTEGER NOT NULL,
            payload TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_date_slot ON reservations(date, slot_start, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_created ON reservations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category_id, sort_order)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_status ON blog_posts(status, published_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// Seed inserts the singleton config row, a full week of opening hours and
// the first admin account when the corresponding tables are empty.
// adminHash must already be bcrypt-hashed.
func (db *DB) Seed(ctx context.Context, defaults models.RestaurantConfig, adminEmail, adminHash string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO restaurant_config (id, capacity_per_slot, slot_duration_minutes, max_party_size)
         VALUES (1, ?, ?, ?)`,
		defaults.CapacityPerSlot, defaults.SlotDurationMinutes, defaults.MaxPartySize,
	)
	if err != nil {
		return fmt.Errorf("failed to seed config: %w", err)
	}

	for day := 0; day < 7; day++ {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO opening_hours (day_of_week, is_closed, open_time, close_time)
             VALUES (?, 0, '10:00', '22:00')`, day)
		if err != nil {
			return fmt.Errorf("failed to seed opening hours: %w", err)
		}
	}

	if adminEmail != "" && adminHash != "" {
		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if count == 0 {
			_, err := db.ExecContext(ctx,
				`INSERT INTO admin_users (email, password_hash) VALUES (?, ?)`,
				adminEmail, adminHash)
			if err != nil {
				return fmt.Errorf("failed to seed admin user: %w", err)
			}
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
