package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abonneezy/abonneezy-api/internal/lib/apperr"
	"github.com/abonneezy/abonneezy-api/internal/lib/sl"
	"github.com/abonneezy/abonneezy-api/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// ListSubscriptionsByUser возвращает подписки пользователя по возрастанию даты списания.
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	// FindSubscriptionByID возвращает подписку или (nil, nil), если её нет.
	FindSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error)
	// UpdateSubscription перезаписывает изменяемые поля; (nil, nil), если записи нет.
	UpdateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// DeleteSubscription удаляет подписку и возвращает количество удалённых строк.
	DeleteSubscription(ctx context.Context, id string) (int64, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// listCacheTTL — время жизни закешированного списка подписок.
const listCacheTTL = 5 * time.Minute

func listCacheKey(userID string) string {
	return "subscriptions:" + userID
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
//
// Сервис не проверяет принадлежность подписки пользователю: это обязанность
// HTTP-слоя, у которого есть идентификатор запрашивающего.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создаёт новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создаёт подписку для пользователя. Владелец всегда берётся из
// аутентифицированного контекста, а не из тела запроса.
func (s *SubscriptionService) Create(ctx context.Context, userID string, req models.CreateSubscriptionRequest) (*models.Subscription, error) {
	const op = "services.subscription.Create"

	billingDate, err := time.Parse(models.BillingDateLayout, req.BillingDate)
	if err != nil {
		return nil, apperr.Validation("invalid billing date")
	}

	sub := models.Subscription{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		BillingDate: billingDate,
		Description: req.Description,
		UserID:      userID,
	}
	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateList(ctx, userID)
	return created, nil
}

// ListByOwner возвращает все подписки пользователя по возрастанию даты списания.
// Результат кешируется; ошибки кеша не фатальны.
func (s *SubscriptionService) ListByOwner(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "services.subscription.ListByOwner"

	key := listCacheKey(userID)
	var cached []*models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read subscriptions from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	subs, err := s.repo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, key, subs, listCacheTTL); err != nil {
		s.log.Warn("failed to cache subscriptions", sl.Err(err))
	}
	return subs, nil
}

// Read возвращает подписку по идентификатору или (nil, nil), если её нет.
func (s *SubscriptionService) Read(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "services.subscription.Read"

	sub, err := s.repo.FindSubscriptionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// Update применяет частичное обновление: меняются только переданные поля.
func (s *SubscriptionService) Update(ctx context.Context, id string, req models.UpdateSubscriptionRequest) (*models.Subscription, error) {
	const op = "services.subscription.Update"

	current, err := s.repo.FindSubscriptionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current == nil {
		return nil, apperr.NotFound("subscription not found")
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Price != nil {
		current.Price = *req.Price
	}
	if req.BillingDate != nil {
		billingDate, err := time.Parse(models.BillingDateLayout, *req.BillingDate)
		if err != nil {
			return nil, apperr.Validation("invalid billing date")
		}
		current.BillingDate = billingDate
	}
	if req.Description != nil {
		current.Description = req.Description
	}

	updated, err := s.repo.UpdateSubscription(ctx, *current)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updated == nil {
		return nil, apperr.NotFound("subscription not found")
	}

	s.invalidateList(ctx, updated.UserID)
	return updated, nil
}

// Delete удаляет подписку по идентификатору.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	const op = "services.subscription.Delete"

	sub, err := s.repo.FindSubscriptionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if sub == nil {
		return apperr.NotFound("subscription not found")
	}

	rows, err := s.repo.DeleteSubscription(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return apperr.NotFound("subscription not found")
	}

	s.invalidateList(ctx, sub.UserID)
	return nil
}

func (s *SubscriptionService) invalidateList(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, listCacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate subscriptions cache", sl.Err(err))
	}
}
