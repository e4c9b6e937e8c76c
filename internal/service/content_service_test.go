package service

import (
	"context"
	"testing"
	"time"

	"bistro/internal/database"
	"bistro/internal/events"
	"bistro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestToSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Autumn Menu", "autumn-menu"},
		{"Hello, World!", "hello-world"},
		{"  trimmed  ", "trimmed"},
		{"Crème brûlée & co", "cr-me-br-l-e-co"},
		{"already-a-slug", "already-a-slug"},
		{"MiXeD CaSe 123", "mixed-case-123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSlug(tt.in), "ToSlug(%q)", tt.in)
	}
}

func TestCreatePost_DerivesSlugAndStampsPublishedAt(t *testing.T) {
	repo := new(mockRepo)
	bus := new(mockPublisher)
	svc := NewContentService(repo, bus, testLogger())

	repo.On("CreatePost", mock.Anything, mock.Anything).Return(nil).Once()
	bus.On("PublishJSON", events.EventBlogPublished, mock.Anything).Return(nil).Once()

	p := &models.BlogPost{
		Title:   "Autumn Menu Launch",
		Content: "body",
		Status:  models.BlogPublished,
	}
	require.NoError(t, svc.CreatePost(context.Background(), p))

	assert.Equal(t, "autumn-menu-launch", p.Slug)
	require.NotNil(t, p.PublishedAt)
	bus.AssertExpectations(t)
}

func TestCreatePost_DraftHasNoPublishedAt(t *testing.T) {
	repo := new(mockRepo)
	bus := new(mockPublisher)
	svc := NewContentService(repo, bus, testLogger())

	repo.On("CreatePost", mock.Anything, mock.Anything).Return(nil).Once()

	p := &models.BlogPost{Title: "Draft", Content: "body"}
	require.NoError(t, svc.CreatePost(context.Background(), p))

	assert.Equal(t, models.BlogDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	bus.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
}

func TestCreatePost_Validation(t *testing.T) {
	svc := NewContentService(new(mockRepo), nil, testLogger())
	ctx := context.Background()

	var vErr *ValidationError

	err := svc.CreatePost(ctx, &models.BlogPost{Content: "body"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)

	err = svc.CreatePost(ctx, &models.BlogPost{Title: "No body"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "content", vErr.Field)

	err = svc.CreatePost(ctx, &models.BlogPost{Title: "Bad status", Content: "x", Status: "ARCHIVED"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
}

func TestUpdatePost_PublishTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("draft to published stamps time and fires event", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockPublisher)
		svc := NewContentService(repo, bus, testLogger())

		existing := &models.BlogPost{ID: 1, Title: "Post", Content: "x", Status: models.BlogDraft}
		repo.On("GetPost", mock.Anything, int64(1)).Return(existing, nil).Once()
		repo.On("UpdatePost", mock.Anything, mock.Anything).Return(nil).Once()
		bus.On("PublishJSON", events.EventBlogPublished, mock.Anything).Return(nil).Once()

		p := &models.BlogPost{ID: 1, Title: "Post", Content: "x", Status: models.BlogPublished}
		require.NoError(t, svc.UpdatePost(ctx, p))
		require.NotNil(t, p.PublishedAt)
		bus.AssertExpectations(t)
	})

	t.Run("published to draft clears time without event", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockPublisher)
		svc := NewContentService(repo, bus, testLogger())

		published := time.Now().UTC()
		existing := &models.BlogPost{ID: 2, Title: "Post", Content: "x", Status: models.BlogPublished, PublishedAt: &published}
		repo.On("GetPost", mock.Anything, int64(2)).Return(existing, nil).Once()
		repo.On("UpdatePost", mock.Anything, mock.Anything).Return(nil).Once()

		p := &models.BlogPost{ID: 2, Title: "Post", Content: "x", Status: models.BlogDraft}
		require.NoError(t, svc.UpdatePost(ctx, p))
		assert.Nil(t, p.PublishedAt)
		bus.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})

	t.Run("republish keeps the original timestamp", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewContentService(repo, nil, testLogger())

		published := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		existing := &models.BlogPost{ID: 3, Title: "Post", Content: "x", Status: models.BlogPublished, PublishedAt: &published}
		repo.On("GetPost", mock.Anything, int64(3)).Return(existing, nil).Once()
		repo.On("UpdatePost", mock.Anything, mock.Anything).Return(nil).Once()

		p := &models.BlogPost{ID: 3, Title: "Post edited", Content: "y", Status: models.BlogPublished}
		require.NoError(t, svc.UpdatePost(ctx, p))
		require.NotNil(t, p.PublishedAt)
		assert.True(t, p.PublishedAt.Equal(published))
	})
}

func TestGetPublishedPostBySlug_HidesDrafts(t *testing.T) {
	repo := new(mockRepo)
	svc := NewContentService(repo, nil, testLogger())

	draft := &models.BlogPost{ID: 1, Slug: "secret", Status: models.BlogDraft}
	repo.On("GetPostBySlug", mock.Anything, "secret").Return(draft, nil).Once()

	_, err := svc.GetPublishedPostBySlug(context.Background(), "secret")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreateMenuItem_RequiresExistingCategory(t *testing.T) {
	repo := new(mockRepo)
	svc := NewContentService(repo, nil, testLogger())

	repo.On("GetCategory", mock.Anything, int64(9)).Return(nil, database.ErrNotFound).Once()

	err := svc.CreateMenuItem(context.Background(), &models.MenuItem{CategoryID: 9, Name: "Soup", Price: 5})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "categoryId", vErr.Field)
}

func TestCreateMenuItem_RejectsNegativePrice(t *testing.T) {
	svc := NewContentService(new(mockRepo), nil, testLogger())

	err := svc.CreateMenuItem(context.Background(), &models.MenuItem{CategoryID: 1, Name: "Soup", Price: -1})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "price", vErr.Field)
}
