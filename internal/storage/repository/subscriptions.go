package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abonneezy/abonneezy-api/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её с метками времени.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, name, price, billing_date, description, user_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.Name, sub.Price, sub.BillingDate, sub.Description, sub.UserID).
		Scan(&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListSubscriptionsByUser возвращает все подписки пользователя,
// отсортированные по возрастанию даты списания.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, billing_date, description, user_id, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY billing_date ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subscription, 0)
	for rows.Next() {
		var sub models.Subscription
		var description sql.NullString
		if err = rows.Scan(&sub.ID, &sub.Name, &sub.Price, &sub.BillingDate,
			&description, &sub.UserID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if description.Valid {
			sub.Description = &description.String
		}
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionByID возвращает подписку по её идентификатору.
// Отсутствие записи не считается ошибкой: возвращается (nil, nil).
func (s *Storage) FindSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, billing_date, description, user_id, created_at, updated_at
			  FROM subscriptions
			  WHERE id = $1`
	var sub models.Subscription
	var description sql.NullString
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Price, &sub.BillingDate,
		&description, &sub.UserID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if description.Valid {
		sub.Description = &description.String
	}
	return &sub, nil
}

// UpdateSubscription перезаписывает изменяемые поля подписки.
// Если записи нет — возвращается (nil, nil).
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, price = $2, billing_date = $3, description = $4, updated_at = now()
			  WHERE id = $5
			  RETURNING created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.Price, sub.BillingDate, sub.Description, sub.ID).
		Scan(&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// DeleteSubscription удаляет подписку и возвращает количество удалённых строк.
func (s *Storage) DeleteSubscription(ctx context.Context, id string) (int64, error) {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
