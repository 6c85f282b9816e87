package caches

import (
	"context"
	"time"

	"github.com/marianfedorco24/api/internal/server/models"
)

// Repository holds the scraped-data caches (class schedule, canteen meal).
type Repository interface {
	// NextClass returns the first cached class starting after the given
	// time, or common.ErrorNotFound when the cache has nothing upcoming.
	NextClass(ctx context.Context, after time.Time) (*models.CachedClass, error)

	// InsertClasses appends a batch of classes to the cache.
	InsertClasses(ctx context.Context, classes []models.CachedClass) error

	// MealForDay returns the cached meal for the given day, or
	// common.ErrorNotFound on a cache miss.
	MealForDay(ctx context.Context, day time.Time) (*models.CachedMeal, error)

	// UpsertMeal stores the meal for its day, replacing any previous row.
	UpsertMeal(ctx context.Context, meal *models.CachedMeal) error
}
