// Package services содержит бизнес-логику работы с постами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blog-api/internal/cache"
	"github.com/magabrotheeeer/blog-api/internal/events"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/lib/sl"
	"github.com/magabrotheeeer/blog-api/internal/models"
	"github.com/magabrotheeeer/blog-api/internal/storage/repository"
)

// PostRepository определяет методы для работы с постами в хранилище.
type PostRepository interface {
	// CreatePost добавляет пост и возвращает его ID.
	CreatePost(ctx context.Context, post models.Post) (string, error)
	// GetPost возвращает пост с автором или repository.ErrPostNotFound.
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// ListPosts возвращает все посты с авторами.
	ListPosts(ctx context.Context) ([]*models.Post, error)
	// UpdatePost применяет частичное обновление и возвращает новую версию.
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	// DeletePost удаляет пост и возвращает удалённую запись.
	DeletePost(ctx context.Context, id string) (*models.Post, error)
}

// Cache сбрасывает закешированные отчёты.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// PostService реализует операции над постами.
type PostService struct {
	repo   PostRepository
	cache  Cache
	events Publisher
	log    *slog.Logger
}

// NewPostService создает новый экземпляр PostService.
func NewPostService(repo PostRepository, cache Cache, events Publisher, log *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// List возвращает все посты.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	const op = "services.post.List"
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

// Read возвращает пост по ID. Некорректный ID неотличим от отсутствующего.
func (s *PostService) Read(ctx context.Context, id string) (*models.Post, error) {
	const op = "services.post.Read"
	if !validID(id) {
		return nil, apierr.PostNotFound(id)
	}
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, id, err)
	}
	return post, nil
}

// Create сохраняет пост от имени автора и возвращает его вместе с автором.
func (s *PostService) Create(ctx context.Context, author *models.User, title, content string) (*models.Post, error) {
	const op = "services.post.Create"

	post := models.Post{Title: title, Content: content}
	if author != nil {
		post.AuthorID = author.ID
	}
	id, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.afterWrite(ctx, op, events.PostCreated, created)
	return created, nil
}

// Update применяет частичное обновление. Пустой patch возвращает пост без изменений.
func (s *PostService) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	const op = "services.post.Update"
	if !validID(id) {
		return nil, apierr.PostNotFound(id)
	}
	if patch.Empty() {
		return s.Read(ctx, id)
	}

	post, err := s.repo.UpdatePost(ctx, id, patch)
	if err != nil {
		return nil, notFoundOr(op, id, err)
	}

	s.afterWrite(ctx, op, events.PostUpdated, post)
	return post, nil
}

// Remove удаляет пост и возвращает удалённую запись.
func (s *PostService) Remove(ctx context.Context, id string) (*models.Post, error) {
	const op = "services.post.Remove"
	if !validID(id) {
		return nil, apierr.PostNotFound(id)
	}

	post, err := s.repo.DeletePost(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, id, err)
	}

	s.afterWrite(ctx, op, events.PostDeleted, post)
	return post, nil
}

// afterWrite сбрасывает отчёт и публикует событие. Ошибки только логируются.
func (s *PostService) afterWrite(ctx context.Context, op, routingKey string, post *models.Post) {
	log := s.log.With(slog.String("op", op), slog.String("post_id", post.ID))

	if err := s.cache.Invalidate(ctx, cache.KeyUsersByCity); err != nil {
		log.Warn("failed to invalidate report cache", sl.Err(err))
	}
	payload := events.PostPayload{ID: post.ID, Title: post.Title, AuthorID: post.AuthorID}
	if err := s.events.Publish(ctx, routingKey, payload); err != nil {
		log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}

// validID принимает только каноническую запись UUID из 36 символов.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func notFoundOr(op, id string, err error) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return apierr.PostNotFound(id)
	}
	return fmt.Errorf("%s: %w", op, err)
}
