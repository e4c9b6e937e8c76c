package database

import (
	"context"
	"testing"
	"time"

	"bistro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogPostCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	p := &models.BlogPost{
		Title:   "Autumn Menu",
		Slug:    "autumn-menu",
		Excerpt: "New dishes",
		Content: "Full story",
		Status:  models.BlogDraft,
	}
	require.NoError(t, db.CreatePost(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := db.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Menu", got.Title)
	assert.Equal(t, models.BlogDraft, got.Status)
	assert.Nil(t, got.PublishedAt)

	bySlug, err := db.GetPostBySlug(ctx, "autumn-menu")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	now := time.Now().UTC()
	p.Status = models.BlogPublished
	p.PublishedAt = &now
	require.NoError(t, db.UpdatePost(ctx, p))

	got, err = db.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BlogPublished, got.Status)
	require.NotNil(t, got.PublishedAt)

	require.NoError(t, db.DeletePost(ctx, p.ID))
	_, err = db.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublishedPosts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	older := time.Now().Add(-48 * time.Hour).UTC()
	newer := time.Now().Add(-1 * time.Hour).UTC()

	require.NoError(t, db.CreatePost(ctx, &models.BlogPost{
		Title: "First", Slug: "first", Content: "a",
		Status: models.BlogPublished, PublishedAt: &older,
	}))
	require.NoError(t, db.CreatePost(ctx, &models.BlogPost{
		Title: "Second", Slug: "second", Content: "b",
		Status: models.BlogPublished, PublishedAt: &newer,
	}))
	require.NoError(t, db.CreatePost(ctx, &models.BlogPost{
		Title: "Hidden", Slug: "hidden", Content: "c",
		Status: models.BlogDraft,
	}))

	published, err := db.ListPublishedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "Second", published[0].Title)
	assert.Equal(t, "First", published[1].Title)

	all, err := db.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreatePost_DuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.CreatePost(ctx, &models.BlogPost{Title: "A", Slug: "same", Content: "x", Status: models.BlogDraft}))
	err := db.CreatePost(ctx, &models.BlogPost{Title: "B", Slug: "same", Content: "y", Status: models.BlogDraft})
	assert.Error(t, err)
}

func TestGetPostBySlug_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetPostBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
