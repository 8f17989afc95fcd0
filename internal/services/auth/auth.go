// Package services содержит логику регистрации, входа и проверки токенов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blog-api/internal/cache"
	"github.com/magabrotheeeer/blog-api/internal/events"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/lib/jwt"
	"github.com/magabrotheeeer/blog-api/internal/lib/password"
	"github.com/magabrotheeeer/blog-api/internal/lib/sl"
	"github.com/magabrotheeeer/blog-api/internal/models"
	"github.com/magabrotheeeer/blog-api/internal/storage/repository"
)

// DefaultTokenTTL срок жизни токена, если он не задан явно.
const DefaultTokenTTL = time.Hour

// NameUserNotFound имя ошибки для валидного токена без пользователя.
const NameUserNotFound = "UserNotFoundError"

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя и возвращает его с присвоенным ID.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или repository.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по ID или repository.ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Cache сбрасывает закешированные отчёты.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Token выданный токен и его срок жизни.
type Token struct {
	Token string
	TTL   time.Duration
}

// AuthService отвечает за регистрацию, вход и проверку токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	ttl      time.Duration
	cache    Cache
	events   Publisher
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, ttl time.Duration,
	cache Cache, events Publisher, log *slog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		ttl:      ttl,
		cache:    cache,
		events:   events,
		log:      log,
	}
}

// Register создает пользователя с хэшированным паролем.
// Занятый email возвращается как apierr.DuplicateEmail.
func (s *AuthService) Register(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "services.auth.Register"

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apierr.DuplicateEmail(in.Email)
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Address:      in.Address,
	})
	if errors.Is(err, repository.ErrUserExists) {
		// email заняли между проверкой и вставкой
		return nil, apierr.DuplicateEmail(in.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = ""

	if user.Address != nil {
		if err := s.cache.Invalidate(ctx, cache.KeyUsersByCity); err != nil {
			s.log.Warn("failed to invalidate report cache", slog.String("op", op), sl.Err(err))
		}
	}
	payload := events.UserPayload{ID: user.ID, Name: user.Name, Email: user.Email}
	if err := s.events.Publish(ctx, events.UserRegistered, payload); err != nil {
		s.log.Warn("failed to publish event", slog.String("op", op), sl.Err(err))
	}

	return user, nil
}

// Login проверяет email и пароль и выдает токен.
// Неизвестный email и неверный пароль неразличимы.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, Token, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, Token{}, apierr.InvalidCredentials()
	}
	if err != nil {
		return nil, Token{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("failed to compare password hash", slog.String("op", op), sl.Err(err))
		}
		return nil, Token{}, apierr.InvalidCredentials()
	}

	token, err := s.CreateToken(user, s.ttl)
	if err != nil {
		return nil, Token{}, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = ""
	return user, token, nil
}

// CreateToken подписывает токен с ID пользователя. ttl <= 0 заменяется
// сроком по умолчанию сервиса.
func (s *AuthService) CreateToken(user *models.User, ttl time.Duration) (Token, error) {
	const op = "services.auth.CreateToken"
	if ttl <= 0 {
		ttl = s.ttl
	}
	signed, err := s.jwtMaker.GenerateToken(user.ID, ttl)
	if err != nil {
		return Token{}, fmt.Errorf("%s: %w", op, err)
	}
	return Token{Token: signed, TTL: ttl}, nil
}

// Authenticate проверяет токен и возвращает его владельца.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		var tokenErr *jwt.TokenError
		if !errors.As(err, &tokenErr) {
			return nil, apierr.InvalidToken(jwt.NameInvalid, err.Error())
		}
		if tokenErr.Expired() {
			return nil, apierr.ExpiredToken(tokenErr.Name, tokenErr.Message())
		}
		return nil, apierr.InvalidToken(tokenErr.Name, tokenErr.Message())
	}

	notFound := apierr.InvalidToken(NameUserNotFound, fmt.Sprintf("user with id %s not found", claims.UserID))
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, notFound
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = ""
	return user, nil
}
