// Package password реализует хеширование и проверку паролей пользователей.
//
// Hash создаёт bcrypt-хеш пароля для хранения в базе данных.
// Verify проверяет соответствие пароля ранее сохранённому хешу.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost — стоимость bcrypt. Повышена относительно DefaultCost,
// чтобы усложнить перебор при утечке хешей.
const hashCost = 12

// Hash принимает пароль пользователя и возвращает его bcrypt-хеш.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сравнивает bcrypt-хеш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хешу, иначе — ошибку.
func Verify(storedHash, candidate string) error {
	const op = "password.Verify"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
