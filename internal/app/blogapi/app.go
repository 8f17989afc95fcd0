package blogapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/blog-api/internal/cache"
	"github.com/magabrotheeeer/blog-api/internal/config"
	"github.com/magabrotheeeer/blog-api/internal/events"
	"github.com/magabrotheeeer/blog-api/internal/lib/jwt"
	"github.com/magabrotheeeer/blog-api/internal/lib/schema"
	"github.com/magabrotheeeer/blog-api/internal/lib/sl"
	"github.com/magabrotheeeer/blog-api/internal/migrations"
	authservice "github.com/magabrotheeeer/blog-api/internal/services/auth"
	postservice "github.com/magabrotheeeer/blog-api/internal/services/post"
	reportservice "github.com/magabrotheeeer/blog-api/internal/services/report"
	"github.com/magabrotheeeer/blog-api/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type reportCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
	Close() error
}

// App — HTTP-сервер блога со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  reportCache
	events events.Publisher
}

// New подключается к хранилищу, применяет миграции, поднимает кеш и
// издателя событий и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "blogapi.New"

	maker, err := jwt.NewJWTMaker(cfg.JWTSecretKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var reports reportCache = cache.Nop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reports = redisCache
	} else {
		logger.Warn("redis address is empty, report cache disabled")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := events.Dial(cfg.RabbitMQ.URL, cfg.Exchange)
		if err != nil {
			_ = reports.Close()
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = amqpPublisher
	} else {
		logger.Warn("rabbitmq url is empty, domain events disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Log:       logger,
		Auth:      authservice.NewAuthService(db, maker, cfg.TokenTTL, reports, publisher, logger),
		Posts:     postservice.NewPostService(db, reports, publisher, logger),
		Reports:   reportservice.NewReportService(db, reports, cfg.ReportCacheTTL, logger),
		Validator: schema.New(),
		Health:    db,
		Registry:  registry,
	})

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  reports,
		events: publisher,
	}, nil
}

// Run запускает сервер и блокируется до ошибки или отмены ctx.
// После отмены сервер завершает активные запросы не дольше 15 секунд.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Error("failed to close event publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
