package service

import (
	"context"
	"testing"
	"time"

	"bistro/internal/models"
	"bistro/internal/slots"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *mockRepo) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRepo) CreateReservationWithLock(ctx context.Context, r *models.Reservation, capacity int) error {
	return m.Called(ctx, r, capacity).Error(0)
}
func (m *mockRepo) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockRepo) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *mockRepo) GetReservedSeats(ctx context.Context, date time.Time, slotStart string) (int, error) {
	args := m.Called(ctx, date, slotStart)
	return args.Int(0), args.Error(1)
}
func (m *mockRepo) GetConfirmedLoad(ctx context.Context, date time.Time) (map[string]int, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockRepo) GetOpeningHours(ctx context.Context) ([]models.OpeningHour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OpeningHour), args.Error(1)
}
func (m *mockRepo) GetOpeningHour(ctx context.Context, dayOfWeek int) (*models.OpeningHour, error) {
	args := m.Called(ctx, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OpeningHour), args.Error(1)
}
func (m *mockRepo) GetConfig(ctx context.Context) (models.RestaurantConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.RestaurantConfig), args.Error(1)
}
func (m *mockRepo) UpsertOpeningHoursAndConfig(ctx context.Context, hours []models.OpeningHour, cfg models.RestaurantConfig) error {
	return m.Called(ctx, hours, cfg).Error(0)
}

func (m *mockRepo) GetMenu(ctx context.Context) ([]models.MenuCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuCategory), args.Error(1)
}
func (m *mockRepo) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuCategory), args.Error(1)
}
func (m *mockRepo) CreateCategory(ctx context.Context, c *models.MenuCategory) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) GetCategory(ctx context.Context, id int64) (*models.MenuCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuCategory), args.Error(1)
}
func (m *mockRepo) UpdateCategory(ctx context.Context, c *models.MenuCategory) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuItem), args.Error(1)
}
func (m *mockRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockRepo) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}
func (m *mockRepo) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockRepo) DeleteMenuItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) ListPublishedPosts(ctx context.Context) ([]*models.BlogPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BlogPost), args.Error(1)
}
func (m *mockRepo) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BlogPost), args.Error(1)
}
func (m *mockRepo) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}
func (m *mockRepo) GetPost(ctx context.Context, id int64) (*models.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}
func (m *mockRepo) CreatePost(ctx context.Context, p *models.BlogPost) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockRepo) UpdatePost(ctx context.Context, p *models.BlogPost) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockRepo) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}
func (m *mockRepo) GetAdmin(ctx context.Context, id int64) (*models.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}
func (m *mockRepo) CreateAdmin(ctx context.Context, email, passwordHash string) (*models.AdminUser, error) {
	args := m.Called(ctx, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

type mockSlotCache struct {
	mock.Mock
}

func (m *mockSlotCache) GetDay(ctx context.Context, date string) (*slots.Day, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slots.Day), args.Error(1)
}
func (m *mockSlotCache) SetDay(ctx context.Context, day *slots.Day) error {
	return m.Called(ctx, day).Error(0)
}
func (m *mockSlotCache) InvalidateDate(ctx context.Context, date string) error {
	return m.Called(ctx, date).Error(0)
}
func (m *mockSlotCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
