// Package jwt реализует выпуск и проверку токенов доступа.
//
// Токен подписывается HS256 и содержит только идентификатор пользователя
// и стандартные поля iat/exp. Состояние на сервере не хранится: валидность
// определяется только подписью и сроком жизни.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret возвращается, если секрет подписи не задан.
var ErrEmptySecret = errors.New("jwt secret key is empty")

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	// GenerateToken подписывает токен для userID со временем жизни ttl.
	GenerateToken(userID string, ttl time.Duration) (string, error)
	// ParseToken проверяет подпись и срок жизни. Ошибка всегда *TokenError.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker на секретном ключе HMAC.
type MakerImpl struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Пустой секрет недопустим.
func NewJWTMaker(secretKey string) (*MakerImpl, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}, nil
}

// GenerateToken создает токен с claim uid и сроком жизни ttl.
func (j *MakerImpl) GenerateToken(userID string, ttl time.Duration) (string, error) {
	const op = "jwt.GenerateToken"
	now := j.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken разбирает токен, проверяет подпись HS256 и срок жизни.
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, newTokenError(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, newTokenError(jwt.ErrTokenInvalidClaims)
	}
	if claims.UserID == "" {
		return nil, newTokenError(fmt.Errorf("%w: uid claim is missing", jwt.ErrTokenInvalidClaims))
	}
	return claims, nil
}
