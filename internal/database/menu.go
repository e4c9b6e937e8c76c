package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bistro/internal/models"
)

// GetMenu returns all categories with their available items, both in sort
// order. The public menu view.
func (db *DB) GetMenu(ctx context.Context) ([]models.MenuCategory, error) {
	categories, err := db.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, category_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), available, sort_order, created_at, updated_at
              FROM menu_items WHERE available = 1 ORDER BY category_id ASC, sort_order ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	defer rows.Close()

	byCategory := make(map[int64][]models.MenuItem)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		categories[i].Items = byCategory[categories[i].ID]
	}
	return categories, nil
}

func (db *DB) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	query := `SELECT id, name, sort_order, created_at, updated_at
              FROM menu_categories ORDER BY sort_order ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.MenuCategory
	for rows.Next() {
		var c models.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (db *DB) CreateCategory(ctx context.Context, c *models.MenuCategory) error {
	query := `INSERT INTO menu_categories (name, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, c.Name, c.SortOrder, now, now)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (db *DB) GetCategory(ctx context.Context, id int64) (*models.MenuCategory, error) {
	query := `SELECT id, name, sort_order, created_at, updated_at FROM menu_categories WHERE id = ?`
	var c models.MenuCategory
	err := db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (db *DB) UpdateCategory(ctx context.Context, c *models.MenuCategory) error {
	query := `UPDATE menu_categories SET name = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, c.Name, c.SortOrder, time.Now(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category and its items in one transaction.
func (db *DB) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category items: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM menu_categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (db *DB) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	query := `SELECT id, category_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), available, sort_order, created_at, updated_at
              FROM menu_items ORDER BY category_id ASC, sort_order ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (db *DB) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	query := `INSERT INTO menu_items (category_id, name, description, price, image_url, available, sort_order, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		item.CategoryID, item.Name, item.Description, item.Price, item.ImageURL,
		item.Available, item.SortOrder, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	query := `SELECT id, category_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), available, sort_order, created_at, updated_at
              FROM menu_items WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)
	var item models.MenuItem
	err := row.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
		&item.ImageURL, &item.Available, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

func (db *DB) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	query := `UPDATE menu_items SET category_id = ?, name = ?, description = ?, price = ?, image_url = ?, available = ?, sort_order = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		item.CategoryID, item.Name, item.Description, item.Price, item.ImageURL,
		item.Available, item.SortOrder, time.Now(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteMenuItem(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMenuItem(rows *sql.Rows) (models.MenuItem, error) {
	var item models.MenuItem
	err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
		&item.ImageURL, &item.Available, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("failed to scan menu item: %w", err)
	}
	return item, nil
}
