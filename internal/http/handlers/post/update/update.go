// Package update реализует HTTP-обработчик частичного обновления поста.
//
// Обновляются только переданные поля. Права автора не проверяются:
// изменить пост может любой аутентифицированный пользователь.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Request — тело запроса обновления поста. Отсутствующее поле не меняется.
type Request struct {
	Title   *string `json:"title,omitempty" example:"New title"`
	Content *string `json:"content,omitempty"`
}

// Service описывает интерфейс бизнес-логики обновления поста.
type Service interface {
	Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
}

// Handler обрабатывает запросы на обновление поста.
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
// @Summary Обновление поста
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поста"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} models.Post
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Router /posts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.update"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("post_id", id),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, r, log, apierr.BadRequest("invalid request body"))
		return
	}

	post, err := h.service.Update(r.Context(), id, models.PostPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("post updated")
	response.OK(w, r, post)
}
