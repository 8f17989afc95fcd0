// Package services строит отчёт по пользователям, сгруппированным по городу.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blog-api/internal/cache"
	"github.com/magabrotheeeer/blog-api/internal/lib/sl"
	"github.com/magabrotheeeer/blog-api/internal/models"
)

// ReportRepository выполняет агрегирующий запрос отчёта.
type ReportRepository interface {
	UsersByCity(ctx context.Context) ([]models.CityReport, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// ReportService отдаёт отчёт, кешируя результат на ttl.
type ReportService struct {
	repo  ReportRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(repo ReportRepository, cache Cache, ttl time.Duration, log *slog.Logger) *ReportService {
	return &ReportService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// UsersByCity возвращает строки отчёта. Недоступный кеш не мешает
// построить отчёт из базы.
func (s *ReportService) UsersByCity(ctx context.Context) ([]models.CityReport, error) {
	const op = "services.report.UsersByCity"
	log := s.log.With(slog.String("op", op))

	var cached []models.CityReport
	found, err := s.cache.Get(ctx, cache.KeyUsersByCity, &cached)
	if err != nil {
		log.Warn("failed to read report cache", sl.Err(err))
	}
	if found {
		log.Debug("report served from cache")
		return cached, nil
	}

	rows, err := s.repo.UsersByCity(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, cache.KeyUsersByCity, rows, s.ttl); err != nil {
			log.Warn("failed to store report cache", sl.Err(err))
		}
	}
	return rows, nil
}
