// Package read реализует HTTP-обработчик получения поста по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения поста.
type Service interface {
	Read(ctx context.Context, id string) (*models.Post, error)
}

// Handler обрабатывает запросы на получение поста по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пост по ID
// @Tags Posts
// @Produce  json
// @Param id path string true "ID поста"
// @Success 200 {object} models.Post
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /posts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.read"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("post_id", id),
	)

	post, err := h.service.Read(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	response.OK(w, r, post)
}
