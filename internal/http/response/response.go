// Package response формирует JSON-ответы HTTP-обработчиков.
//
// Успешные ответы содержат сам объект (пользователя, пост, список, отчёт).
// Ошибки всегда отдаются телом {"status": <код>, "message": <текст>}.
package response

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/lib/sl"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Status  int    `json:"status" example:"404"`
	Message string `json:"message" example:"Post with id 1 not found"`
}

// StatusResponse — тело ответа без данных.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error возвращает тело ошибки с переданным статусом.
func Error(status int, msg string) ErrorResponse {
	return ErrorResponse{Status: status, Message: msg}
}

// OK отдаёт v со статусом 200.
func OK(w http.ResponseWriter, r *http.Request, v any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, v)
}

// WriteError отображает err в статус и тело ответа.
// Непредвиденные ошибки логируются и скрываются за общим сообщением.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := apierr.Resolve(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), slog.String("message", msg))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(status, msg))
}
