// Package usersbycity реализует HTTP-обработчик отчёта по пользователям,
// сгруппированным по городу.
package usersbycity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Service описывает интерфейс построения отчёта.
type Service interface {
	UsersByCity(ctx context.Context) ([]models.CityReport, error)
}

// Handler отдаёт отчёт.
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
// @Summary Пользователи по городам
// @Description Для каждого города: число пользователей, их список и число их постов. Сортировка по числу постов по возрастанию.
// @Tags Report
// @Produce  json
// @Success 200 {array} models.CityReport
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /report/user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.usersbycity"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rows, err := h.service.UsersByCity(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	response.OK(w, r, rows)
}
