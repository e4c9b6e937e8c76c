package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bistro/internal/models"
)

const blogColumns = `id, title, slug, COALESCE(excerpt, ''), content, COALESCE(cover_image, ''), status, published_at, created_at, updated_at`

// ListPublishedPosts returns published posts, newest publication first.
func (db *DB) ListPublishedPosts(ctx context.Context) ([]*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts
              WHERE status = ? ORDER BY published_at DESC`
	rows, err := db.QueryContext(ctx, query, models.BlogPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	defer rows.Close()
	return scanBlogPosts(rows)
}

// ListPosts returns every post regardless of status, most recently edited
// first. Admin view.
func (db *DB) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts ORDER BY updated_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()
	return scanBlogPosts(rows)
}

func (db *DB) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE slug = ?`
	return db.getPost(ctx, query, slug)
}

func (db *DB) GetPost(ctx context.Context, id int64) (*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE id = ?`
	return db.getPost(ctx, query, id)
}

func (db *DB) getPost(ctx context.Context, query string, arg any) (*models.BlogPost, error) {
	var p models.BlogPost
	err := db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage,
		&p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (db *DB) CreatePost(ctx context.Context, p *models.BlogPost) error {
	query := `INSERT INTO blog_posts (title, slug, excerpt, content, cover_image, status, published_at, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Status, p.PublishedAt, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (db *DB) UpdatePost(ctx context.Context, p *models.BlogPost) error {
	query := `UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?, cover_image = ?, status = ?, published_at = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Status, p.PublishedAt, time.Now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeletePost(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBlogPosts(rows *sql.Rows) ([]*models.BlogPost, error) {
	var out []*models.BlogPost
	for rows.Next() {
		p := &models.BlogPost{}
		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage,
			&p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
