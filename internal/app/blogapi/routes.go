// Package blogapi собирает HTTP-приложение блога: таблицу маршрутов,
// middleware и сервер.
package blogapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/blog-api/docs"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/health"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/post/create"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/post/list"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/post/read"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/post/remove"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/post/update"
	"github.com/magabrotheeeer/blog-api/internal/http/handlers/report/usersbycity"
	"github.com/magabrotheeeer/blog-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blog-api/internal/http/schemas"
	"github.com/magabrotheeeer/blog-api/internal/lib/schema"
	authservice "github.com/magabrotheeeer/blog-api/internal/services/auth"
	postservice "github.com/magabrotheeeer/blog-api/internal/services/post"
	reportservice "github.com/magabrotheeeer/blog-api/internal/services/report"
)

// Route — строка таблицы маршрутов.
//
// Для маршрута с Auth сначала проверяется токен, затем тело по Schema.
// Partial разрешает отсутствие полей схемы.
type Route struct {
	Method  string
	Pattern string
	Auth    bool
	Schema  *schema.Schema
	Partial bool
	Handler http.Handler
}

// Deps — зависимости маршрутов.
type Deps struct {
	Log       *slog.Logger
	Auth      *authservice.AuthService
	Posts     *postservice.PostService
	Reports   *reportservice.ReportService
	Validator *schema.Validator
	Health    health.Pinger
	Registry  *prometheus.Registry
}

// Routes возвращает таблицу маршрутов API.
func Routes(d Deps) []Route {
	return []Route{
		{Method: http.MethodPost, Pattern: "/auth/register", Schema: schemas.User, Handler: register.New(d.Log, d.Auth)},
		{Method: http.MethodPost, Pattern: "/auth/login", Schema: schemas.Login, Handler: login.New(d.Log, d.Auth)},
		{Method: http.MethodPost, Pattern: "/auth/logout", Handler: logout.New(d.Log)},

		{Method: http.MethodGet, Pattern: "/posts", Handler: list.New(d.Log, d.Posts)},
		{Method: http.MethodGet, Pattern: "/posts/{id}", Handler: read.New(d.Log, d.Posts)},
		{Method: http.MethodPost, Pattern: "/posts", Auth: true, Schema: schemas.Post, Handler: create.New(d.Log, d.Posts)},
		{Method: http.MethodPut, Pattern: "/posts/{id}", Auth: true, Schema: schemas.Post, Partial: true, Handler: update.New(d.Log, d.Posts)},
		{Method: http.MethodDelete, Pattern: "/posts/{id}", Auth: true, Handler: remove.New(d.Log, d.Posts)},

		{Method: http.MethodGet, Pattern: "/report/user", Handler: usersbycity.New(d.Log, d.Reports)},
	}
}

// RegisterRoutes регистрирует маршруты API и служебные эндпоинты.
func RegisterRoutes(r chi.Router, d Deps) {
	metrics := middlewarectx.NewMetrics(d.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middlewarectx.Recoverer(d.Log),
		metrics.Handler,
	)

	for _, rt := range Routes(d) {
		var chain []func(http.Handler) http.Handler
		if rt.Auth {
			chain = append(chain, middlewarectx.Auth(d.Auth, d.Log))
		}
		if rt.Schema != nil {
			chain = append(chain, middlewarectx.Validate(d.Validator, rt.Schema, rt.Partial, d.Log))
		}
		r.With(chain...).Method(rt.Method, rt.Pattern, rt.Handler)
	}

	r.Method(http.MethodGet, "/health", health.New(d.Log, d.Health))
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
