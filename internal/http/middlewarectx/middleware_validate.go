package middlewarectx

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blog-api/internal/http/response"
	"github.com/magabrotheeeer/blog-api/internal/lib/apierr"
	"github.com/magabrotheeeer/blog-api/internal/lib/schema"
)

// MaxBodyBytes ограничение размера тела запроса.
const MaxBodyBytes = 1 << 20

// MsgInvalidBody сообщение для тела, которое не является JSON-объектом.
const MsgInvalidBody = "request body must be a JSON object"

// Validate возвращает middleware, проверяющий тело запроса по схеме.
// В режиме partial отсутствующие поля не проверяются. Все нарушения
// собираются в одно сообщение BadRequest. Тело восстанавливается для
// обработчика.
func Validate(v *schema.Validator, s *schema.Schema, partial bool, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Validate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("schema", s.Name),
			)

			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					response.WriteError(w, r, log, apierr.BadRequest("request body is too large"))
					return
				}
				response.WriteError(w, r, log, apierr.BadRequest(MsgInvalidBody))
				return
			}

			// пустое тело равносильно пустому объекту
			if len(bytes.TrimSpace(raw)) == 0 {
				raw = []byte("{}")
			}
			body := map[string]any{}
			if err := render.DecodeJSON(bytes.NewReader(raw), &body); err != nil || body == nil {
				response.WriteError(w, r, log, apierr.BadRequest(MsgInvalidBody))
				return
			}

			if violations := v.Validate(s, body, partial); len(violations) > 0 {
				response.WriteError(w, r, log, apierr.BadRequest(strings.Join(violations, ", ")))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			next.ServeHTTP(w, r)
		})
	}
}
