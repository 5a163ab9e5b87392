// Package jwt реализует выпуск и разбор JWT-токенов доступа.
//
// Токен несёт идентификатор пользователя (subject) и его email,
// подписывается секретным ключом HS256 и живёт ограниченное время.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора токенов.
type Maker interface {
	// GenerateToken создаёт токен для пользователя с указанными id и email.
	GenerateToken(userID, email string) (string, error)
	// ParseToken проверяет подпись и срок действия токена и возвращает claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
