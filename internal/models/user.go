// Package models содержит доменные структуры пользователя и подписки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Хеш пароля никогда не сериализуется наружу.
type User struct {
	ID           string    `json:"id"`        // Уникальный идентификатор пользователя
	Email        string    `json:"email"`     // Электронная почта (уникальная)
	Name         string    `json:"name"`      // Отображаемое имя
	PasswordHash string    `json:"-"`         // Хеш пароля, только для внутреннего использования
	CreatedAt    time.Time `json:"createdAt"` // Дата создания записи
	UpdatedAt    time.Time `json:"updatedAt"` // Дата последнего обновления
}

// UpdateUserRequest используется для частичного обновления профиля.
// Незаполненные поля остаются без изменений.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}
