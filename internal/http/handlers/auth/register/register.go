// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Тело запроса к этому моменту уже проверено middleware валидации по схеме
// schemas.User, поэтому обработчик только разбирает его и делегирует
// регистрацию сервису.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Request — тело запроса регистрации.
type Request struct {
	Name     string          `json:"name" example:"tom"`
	Email    string          `json:"email" example:"tom@mail.com"`
	Password string          `json:"password" example:"secret"`
	Address  *models.Address `json:"address,omitempty"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in models.NewUser) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создаёт пользователя. Пароль хранится только в виде хеша и не возвращается.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse "Email занят или тело не прошло валидацию"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.WriteError(w, r, log, apierr.BadRequest("invalid request body"))
		return
	}

	user, err := h.service.Register(r.Context(), models.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	response.OK(w, r, user)
}
