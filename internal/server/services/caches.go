package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marianfedorco24/api/internal/common"
	"github.com/marianfedorco24/api/internal/server/models"
	"github.com/marianfedorco24/api/internal/server/repositories/repomanager"
)

// ClassSource produces upcoming classes for the cache. Implementations talk
// to the school timetable system; the service only sees the result.
type ClassSource interface {
	FetchUpcoming(ctx context.Context, after time.Time) ([]models.CachedClass, error)
}

// MealSource produces the canteen meal for a given day.
type MealSource interface {
	FetchMeal(ctx context.Context, day time.Time) (*models.CachedMeal, error)
}

// CacheService serves the scraped-data endpoints (next class, today's meal)
// from Postgres cache tables, refilling from the injected sources on miss.
type CacheService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	classes     ClassSource
	meals       MealSource
	now         func() time.Time
}

// NewCacheService constructs the service. Either source may be nil when the
// corresponding endpoint is not deployed; lookups then serve cache only.
func NewCacheService(db *sql.DB, m repomanager.RepositoryManager, classes ClassSource, meals MealSource) *CacheService {
	return &CacheService{
		db:          db,
		repomanager: m,
		classes:     classes,
		meals:       meals,
		now:         time.Now,
	}
}

// NextClass returns the first class starting after now, refilling the cache
// from the source on miss. A miss with no source (or a source that has
// nothing) returns common.ErrorNotFound.
func (s *CacheService) NextClass(ctx context.Context) (*models.CachedClass, error) {
	repo := s.repomanager.Caches(s.db)
	after := s.now()

	class, err := repo.NextClass(ctx, after)
	if err == nil {
		return class, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading class cache: %w", err)
	}

	if s.classes == nil {
		return nil, common.ErrorNotFound
	}

	fetched, err := s.classes.FetchUpcoming(ctx, after)
	if err != nil {
		return nil, fmt.Errorf("error fetching classes: %w", err)
	}
	if len(fetched) == 0 {
		return nil, common.ErrorNotFound
	}

	if err := repo.InsertClasses(ctx, fetched); err != nil {
		return nil, fmt.Errorf("error filling class cache: %w", err)
	}

	class, err = repo.NextClass(ctx, after)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading class cache: %w", err)
	}
	return class, nil
}

// MealForToday returns the cached meal for the current day, refilling from
// the source on miss.
func (s *CacheService) MealForToday(ctx context.Context) (*models.CachedMeal, error) {
	repo := s.repomanager.Caches(s.db)
	day := s.now().Truncate(24 * time.Hour)

	meal, err := repo.MealForDay(ctx, day)
	if err == nil {
		return meal, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading meal cache: %w", err)
	}

	if s.meals == nil {
		return nil, common.ErrorNotFound
	}

	fetched, err := s.meals.FetchMeal(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("error fetching meal: %w", err)
	}
	if fetched == nil {
		return nil, common.ErrorNotFound
	}
	fetched.Day = day

	if err := repo.UpsertMeal(ctx, fetched); err != nil {
		return nil, fmt.Errorf("error filling meal cache: %w", err)
	}

	return fetched, nil
}
