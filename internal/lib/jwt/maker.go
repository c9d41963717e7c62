// Package jwt реализует выпуск и проверку JWT токенов платформы.
//
// Для access- и refresh-токенов создаются два отдельных Maker с разными
// секретами и временем жизни, поэтому токен одного вида не проходит проверку другим.
package jwt

import (
	"time"
)

// Maker описывает выпуск и разбор токенов для идентификатора пользователя.
type Maker interface {
	GenerateToken(userID string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
	TTL() time.Duration
}

// MakerImpl подписывает токены HS256 секретным ключом.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт Maker на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
