// Package list реализует HTTP-обработчик получения всех постов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Service описывает интерфейс бизнес-логики получения постов.
type Service interface {
	List(ctx context.Context) ([]*models.Post, error)
}

// Handler обрабатывает запросы на получение списка постов.
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
// @Summary Список постов
// @Description Возвращает все посты вместе с авторами.
// @Tags Posts
// @Produce  json
// @Success 200 {array} models.Post
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /posts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	posts, err := h.service.List(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Debug("posts listed", slog.Int("count", len(posts)))
	response.OK(w, r, posts)
}
