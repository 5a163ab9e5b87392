package models

import "time"

// BillingDateLayout — формат даты списания в JSON-запросах.
const BillingDateLayout = "2006-01-02"

// Subscription представляет собой запись об отслеживаемой подписке.
// Каждая подписка принадлежит ровно одному пользователю (UserID).
type Subscription struct {
	ID          string    `json:"id"`                    // Уникальный идентификатор записи
	Name        string    `json:"name"`                  // Название подписки
	Price       float64   `json:"price"`                 // Цена (неотрицательная)
	BillingDate time.Time `json:"billingDate"`           // Дата списания
	Description *string   `json:"description,omitempty"` // Описание (опционально)
	UserID      string    `json:"userId"`                // Идентификатор владельца
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateSubscriptionRequest используется для приёма данных из JSON-запроса
// на создание подписки. Дата приходит строкой в формате 2006-01-02.
type CreateSubscriptionRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	BillingDate string  `json:"billingDate" validate:"required,datetime=2006-01-02"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateSubscriptionRequest используется для частичного обновления подписки.
// Незаполненные поля остаются без изменений.
type UpdateSubscriptionRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	BillingDate *string  `json:"billingDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
}
