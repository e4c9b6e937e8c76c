package domain

import (
	"context"
	"time"

	"bistro/internal/models"
	"bistro/internal/slots"
)

type Repository interface {
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	CreateReservationWithLock(ctx context.Context, r *models.Reservation, capacityPerSlot int) error
	UpdateReservationStatus(ctx context.Context, id int64, status string) error
	ListReservations(ctx context.Context) ([]*models.Reservation, error)
	ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	GetReservedSeats(ctx context.Context, date time.Time, slotStart string) (int, error)
	GetConfirmedLoad(ctx context.Context, date time.Time) (map[string]int, error)

	GetOpeningHours(ctx context.Context) ([]models.OpeningHour, error)
	GetOpeningHour(ctx context.Context, dayOfWeek int) (*models.OpeningHour, error)
	GetConfig(ctx context.Context) (models.RestaurantConfig, error)
	UpsertOpeningHoursAndConfig(ctx context.Context, hours []models.OpeningHour, cfg models.RestaurantConfig) error

	GetMenu(ctx context.Context) ([]models.MenuCategory, error)
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, c *models.MenuCategory) error
	GetCategory(ctx context.Context, id int64) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, c *models.MenuCategory) error
	DeleteCategory(ctx context.Context, id int64) error
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error

	ListPublishedPosts(ctx context.Context) ([]*models.BlogPost, error)
	ListPosts(ctx context.Context) ([]*models.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetPost(ctx context.Context, id int64) (*models.BlogPost, error)
	CreatePost(ctx context.Context, p *models.BlogPost) error
	UpdatePost(ctx context.Context, p *models.BlogPost) error
	DeletePost(ctx context.Context, id int64) error

	GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetAdmin(ctx context.Context, id int64) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) (*models.AdminUser, error)
}

// SlotCache stores generated availability per date. GetDay returns
// (nil, nil) on a miss.
type SlotCache interface {
	GetDay(ctx context.Context, date string) (*slots.Day, error)
	SetDay(ctx context.Context, day *slots.Day) error
	InvalidateDate(ctx context.Context, date string) error
	InvalidateAll(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker pushes reservation rows to the external spreadsheet ledger
// without blocking the request path.
type SyncWorker interface {
	EnqueueReservation(ctx context.Context, r *models.Reservation) error
}
