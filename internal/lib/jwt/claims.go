package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims — полезная нагрузка токена.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Имена ошибок проверки, которые попадают в ответ клиенту.
const (
	NameExpired          = "TokenExpiredError"
	NameMalformed        = "TokenMalformedError"
	NameSignatureInvalid = "TokenSignatureInvalidError"
	NameInvalid          = "TokenInvalidError"
)

// TokenError — ошибка проверки токена с именем класса ошибки.
type TokenError struct {
	Name string
	Err  error
}

func newTokenError(err error) *TokenError {
	name := NameInvalid
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		name = NameExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		name = NameMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		name = NameSignatureInvalid
	}
	return &TokenError{Name: name, Err: err}
}

func (e *TokenError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Message возвращает текст ошибки без имени.
func (e *TokenError) Message() string {
	return e.Err.Error()
}

// Expired сообщает, что подпись верна, но срок жизни истёк.
func (e *TokenError) Expired() bool {
	return e.Name == NameExpired
}
