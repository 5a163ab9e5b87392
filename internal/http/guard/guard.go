// Package guard реализует проверку владения ресурсом, общую для всех
// обработчиков чтения, изменения и удаления подписки: загрузить запись,
// отличить отсутствие (404) от чужого ресурса (403) и только затем
// позволить операцию.
package guard

import (
	"context"

	"github.com/abonneezy/abonneezy-api/internal/lib/apperr"
	"github.com/abonneezy/abonneezy-api/internal/models"
)

// SubscriptionLoader загружает подписку по идентификатору.
// Отсутствие записи обозначается как (nil, nil).
type SubscriptionLoader func(ctx context.Context, id string) (*models.Subscription, error)

// Subscription загружает подписку и проверяет, что она принадлежит requesterID.
//
// Возвращает apperr.NotFound, если записи нет, и apperr.Forbidden, если запись
// принадлежит другому пользователю. Ошибка загрузчика пробрасывается как есть.
func Subscription(ctx context.Context, load SubscriptionLoader, id, requesterID string) (*models.Subscription, error) {
	sub, err := load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("subscription not found")
	}
	if sub.UserID != requesterID {
		return nil, apperr.Forbidden("not authorized to access this subscription")
	}
	return sub, nil
}
