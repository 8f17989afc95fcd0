// Package create реализует HTTP-обработчик создания поста.
// Автором поста становится аутентифицированный пользователь.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Request — тело запроса создания поста.
type Request struct {
	Title   string `json:"title" example:"Hello"`
	Content string `json:"content" example:"First post"`
}

// Service описывает интерфейс бизнес-логики создания поста.
type Service interface {
	Create(ctx context.Context, author *models.User, title, content string) (*models.Post, error)
}

// Handler обрабатывает запросы на создание поста.
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
// @Summary Создание поста
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Пост"
// @Success 200 {object} models.Post
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Router /posts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, log, apierr.MissingToken())
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, r, log, apierr.BadRequest("invalid request body"))
		return
	}

	post, err := h.service.Create(r.Context(), user, req.Title, req.Content)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("post created", slog.String("post_id", post.ID), slog.String("user_id", user.ID))
	response.OK(w, r, post)
}
