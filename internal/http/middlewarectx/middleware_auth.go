// Package middlewarectx содержит HTTP middleware сервиса.
//
// Auth проверяет Bearer-токен в заголовке Authorization и кладёт
// найденного пользователя в контекст производного запроса. Обработчики
// читают его через UserFromContext.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// userKey — ключ аутентифицированного пользователя в контексте.
const userKey Key = "user"

const bearerScheme = "Bearer"

// Authenticator проверяет токен и возвращает его владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// WithUser возвращает контекст с пользователем.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext возвращает пользователя, положенного Auth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// Auth возвращает middleware, который пропускает запрос дальше только с
// валидным токеном существующего пользователя.
//
// Нет заголовка или схема не Bearer: MissingToken. Пустой токен после
// Bearer проверяется как обычный и даёт InvalidToken. Ошибки проверки
// токена отдаются как InvalidToken или ExpiredToken.
func Auth(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Auth"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				response.WriteError(w, r, log, apierr.MissingToken())
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.WriteError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// bearerToken возвращает вторую часть заголовка "Bearer <token>".
// Пустой токен при схеме Bearer считается предъявленным: его отклонит
// проверка подписи. Серверы обрезают хвостовые пробелы, поэтому
// "Bearer " приходит как "Bearer".
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if parts[0] != bearerScheme {
		return "", false
	}
	if len(parts) < 2 {
		return "", true
	}
	return parts[1], true
}
