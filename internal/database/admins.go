package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro/internal/models"
)

func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = ?`
	var a models.AdminUser
	err := db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &a, nil
}

func (db *DB) GetAdmin(ctx context.Context, id int64) (*models.AdminUser, error) {
	query := `SELECT id, email, password_hash, created_at FROM admin_users WHERE id = ?`
	var a models.AdminUser
	err := db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

func (db *DB) CreateAdmin(ctx context.Context, email, passwordHash string) (*models.AdminUser, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO admin_users (email, password_hash) VALUES (?, ?)`, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return db.GetAdmin(ctx, id)
}
