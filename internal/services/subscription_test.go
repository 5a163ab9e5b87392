package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/abonneezy/abonneezy-api/internal/lib/apperr"
	"github.com/abonneezy/abonneezy-api/internal/models"
)

// MockSubscriptionRepository реализует интерфейс SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) DeleteSubscription(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockCache реализует интерфейс Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestSubscriptionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное создание с инвалидацией кеша", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
			return s.Name == "Netflix" && s.UserID == "user-id-1" && s.ID != "" &&
				s.BillingDate.Format(models.BillingDateLayout) == "2026-10-01"
		})).Return(&models.Subscription{ID: "sub-id-1", Name: "Netflix", UserID: "user-id-1"}, nil).Once()
		cache.On("Invalidate", mock.Anything, "subscriptions:user-id-1").Return(nil).Once()

		sub, err := svc.Create(ctx, "user-id-1", models.CreateSubscriptionRequest{
			Name:        "Netflix",
			Price:       9.99,
			BillingDate: "2026-10-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, "sub-id-1", sub.ID)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("неверная дата списания", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		_, err := svc.Create(ctx, "user-id-1", models.CreateSubscriptionRequest{
			Name:        "Netflix",
			BillingDate: "not-a-date",
		})

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestSubscriptionService_ListByOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("промах кеша читает базу и кеширует", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		subs := []*models.Subscription{{ID: "sub-id-1", UserID: "user-id-1"}}
		cache.On("Get", mock.Anything, "subscriptions:user-id-1", mock.Anything).Return(false, nil).Once()
		repo.On("ListSubscriptionsByUser", mock.Anything, "user-id-1").Return(subs, nil).Once()
		cache.On("Set", mock.Anything, "subscriptions:user-id-1", subs, listCacheTTL).Return(nil).Once()

		got, err := svc.ListByOwner(ctx, "user-id-1")

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш не трогает базу", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		cache.On("Get", mock.Anything, "subscriptions:user-id-1", mock.Anything).Return(true, nil).Once()

		_, err := svc.ListByOwner(ctx, "user-id-1")

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "ListSubscriptionsByUser", mock.Anything, mock.Anything)
	})

	t.Run("ошибка кеша не фатальна", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		subs := []*models.Subscription{{ID: "sub-id-1", UserID: "user-id-1"}}
		cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ListSubscriptionsByUser", mock.Anything, "user-id-1").Return(subs, nil).Once()
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		got, err := svc.ListByOwner(ctx, "user-id-1")

		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	t.Run("частичное обновление сохраняет незатронутые поля", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		billing := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		current := &models.Subscription{ID: "sub-id-1", Name: "Netflix", Price: 9.99, BillingDate: billing, UserID: "user-id-1"}
		repo.On("FindSubscriptionByID", mock.Anything, "sub-id-1").Return(current, nil).Once()
		repo.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
			return s.Price == 12.99 && s.Name == "Netflix" && s.BillingDate.Equal(billing)
		})).Return(&models.Subscription{ID: "sub-id-1", Name: "Netflix", Price: 12.99, UserID: "user-id-1"}, nil).Once()
		cache.On("Invalidate", mock.Anything, "subscriptions:user-id-1").Return(nil).Once()

		got, err := svc.Update(ctx, "sub-id-1", models.UpdateSubscriptionRequest{Price: floatPtr(12.99)})

		assert.NoError(t, err)
		assert.Equal(t, 12.99, got.Price)
		repo.AssertExpectations(t)
	})

	t.Run("подписка не найдена", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		repo.On("FindSubscriptionByID", mock.Anything, "missing-id").Return(nil, nil).Once()

		_, err := svc.Update(ctx, "missing-id", models.UpdateSubscriptionRequest{Name: strPtr("X")})

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("неверная дата списания", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		current := &models.Subscription{ID: "sub-id-1", UserID: "user-id-1"}
		repo.On("FindSubscriptionByID", mock.Anything, "sub-id-1").Return(current, nil).Once()

		_, err := svc.Update(ctx, "sub-id-1", models.UpdateSubscriptionRequest{BillingDate: strPtr("bad")})

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestSubscriptionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное удаление с инвалидацией кеша", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		sub := &models.Subscription{ID: "sub-id-1", UserID: "user-id-1"}
		repo.On("FindSubscriptionByID", mock.Anything, "sub-id-1").Return(sub, nil).Once()
		repo.On("DeleteSubscription", mock.Anything, "sub-id-1").Return(int64(1), nil).Once()
		cache.On("Invalidate", mock.Anything, "subscriptions:user-id-1").Return(nil).Once()

		assert.NoError(t, svc.Delete(ctx, "sub-id-1"))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("подписки нет", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		repo.On("FindSubscriptionByID", mock.Anything, "missing-id").Return(nil, nil).Once()

		err := svc.Delete(ctx, "missing-id")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("удаление проиграло гонку", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		cache := new(MockCache)
		svc := NewSubscriptionService(repo, cache, newNoopLogger())

		sub := &models.Subscription{ID: "sub-id-1", UserID: "user-id-1"}
		repo.On("FindSubscriptionByID", mock.Anything, "sub-id-1").Return(sub, nil).Once()
		repo.On("DeleteSubscription", mock.Anything, "sub-id-1").Return(int64(0), nil).Once()

		err := svc.Delete(ctx, "sub-id-1")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
