// Package remove реализует HTTP-обработчик удаления поста.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Service описывает интерфейс бизнес-логики удаления поста.
type Service interface {
	Remove(ctx context.Context, id string) (*models.Post, error)
}

// Handler обрабатывает запросы на удаление поста.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление поста
// @Description Удаляет пост и возвращает удалённую запись.
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поста"
// @Success 200 {object} models.Post
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /posts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.remove"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("post_id", id),
	)

	post, err := h.service.Remove(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("post removed")
	response.OK(w, r, post)
}
