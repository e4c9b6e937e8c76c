package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"bistro/internal/database"
	"bistro/internal/domain"
	"bistro/internal/events"
	"bistro/internal/models"

	"github.com/rs/zerolog"
)

// ContentService owns the menu and the blog: what the public site renders
// and what admins edit.
type ContentService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewContentService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ContentService {
	return &ContentService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// --- menu ---

func (s *ContentService) GetMenu(ctx context.Context) ([]models.MenuCategory, error) {
	return s.repo.GetMenu(ctx)
}

func (s *ContentService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *ContentService) CreateCategory(ctx context.Context, c *models.MenuCategory) error {
	if c.Name == "" {
		return invalid("name", "name is required")
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *ContentService) UpdateCategory(ctx context.Context, c *models.MenuCategory) error {
	if c.Name == "" {
		return invalid("name", "name is required")
	}
	return s.repo.UpdateCategory(ctx, c)
}

func (s *ContentService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *ContentService) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.repo.ListMenuItems(ctx)
}

func (s *ContentService) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.validateMenuItem(ctx, item); err != nil {
		return err
	}
	return s.repo.CreateMenuItem(ctx, item)
}

func (s *ContentService) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.validateMenuItem(ctx, item); err != nil {
		return err
	}
	return s.repo.UpdateMenuItem(ctx, item)
}

func (s *ContentService) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *ContentService) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.repo.DeleteMenuItem(ctx, id)
}

func (s *ContentService) validateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.Name == "" {
		return invalid("name", "name is required")
	}
	if item.Price < 0 {
		return invalid("price", "price cannot be negative")
	}
	// The category must exist so items never dangle.
	if _, err := s.repo.GetCategory(ctx, item.CategoryID); err != nil {
		return invalid("categoryId", "category does not exist")
	}
	return nil
}

// --- blog ---

func (s *ContentService) ListPublishedPosts(ctx context.Context) ([]*models.BlogPost, error) {
	return s.repo.ListPublishedPosts(ctx)
}

func (s *ContentService) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	return s.repo.ListPosts(ctx)
}

func (s *ContentService) GetPublishedPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	// Drafts are invisible to the public site.
	if post.Status != models.BlogPublished {
		return nil, database.ErrNotFound
	}
	return post, nil
}

func (s *ContentService) GetPost(ctx context.Context, id int64) (*models.BlogPost, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *ContentService) CreatePost(ctx context.Context, p *models.BlogPost) error {
	if err := normalizePost(p); err != nil {
		return err
	}
	applyPublishTransition(p)

	if err := s.repo.CreatePost(ctx, p); err != nil {
		return err
	}
	if p.Status == models.BlogPublished {
		s.publishBlogEvent(p)
	}
	return nil
}

func (s *ContentService) UpdatePost(ctx context.Context, p *models.BlogPost) error {
	if err := normalizePost(p); err != nil {
		return err
	}

	existing, err := s.repo.GetPost(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.PublishedAt == nil {
		p.PublishedAt = existing.PublishedAt
	}
	applyPublishTransition(p)

	if err := s.repo.UpdatePost(ctx, p); err != nil {
		return err
	}
	if existing.Status != models.BlogPublished && p.Status == models.BlogPublished {
		s.publishBlogEvent(p)
	}
	return nil
}

func (s *ContentService) DeletePost(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}

func (s *ContentService) publishBlogEvent(p *models.BlogPost) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.PublishJSON(events.EventBlogPublished, events.BlogEventPayload{
		PostID: p.ID,
		Title:  p.Title,
		Slug:   p.Slug,
	})
}

func normalizePost(p *models.BlogPost) error {
	if p.Title == "" {
		return invalid("title", "title is required")
	}
	if p.Content == "" {
		return invalid("content", "content is required")
	}
	if p.Status == "" {
		p.Status = models.BlogDraft
	}
	if p.Status != models.BlogDraft && p.Status != models.BlogPublished {
		return invalid("status", "status must be DRAFT or PUBLISHED")
	}
	if p.Slug == "" {
		p.Slug = ToSlug(p.Title)
	} else {
		p.Slug = ToSlug(p.Slug)
	}
	if p.Slug == "" {
		return invalid("slug", "slug cannot be derived from the title")
	}
	return nil
}

// applyPublishTransition maintains PublishedAt: stamped when the post first
// goes live, cleared when it returns to draft.
func applyPublishTransition(p *models.BlogPost) {
	switch p.Status {
	case models.BlogPublished:
		if p.PublishedAt == nil {
			now := time.Now().UTC()
			p.PublishedAt = &now
		}
	case models.BlogDraft:
		p.PublishedAt = nil
	}
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// ToSlug lowercases the input and collapses every non-alphanumeric run
// into a single dash.
func ToSlug(s string) string {
	s = strings.ToLower(s)
	s = slugCleanRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
