package caches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marianfedorco24/api/internal/common"
	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) NextClass(ctx context.Context, after time.Time) (*models.CachedClass, error) {
	query := `
		SELECT id, subject, classroom, starts_at
		FROM cached_classes
		WHERE starts_at > $1
		ORDER BY starts_at ASC
		LIMIT 1
	`
	class := &models.CachedClass{}
	if err := r.db.QueryRowContext(ctx, query, after).
		Scan(&class.ID, &class.Subject, &class.Classroom, &class.StartsAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return class, nil
}

func (r *PostgresRepository) InsertClasses(ctx context.Context, classes []models.CachedClass) error {
	query := `
		INSERT INTO cached_classes (subject, classroom, starts_at)
		VALUES ($1, $2, $3)
	`
	for _, class := range classes {
		if _, err := r.db.ExecContext(ctx, query, class.Subject, class.Classroom, class.StartsAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) MealForDay(ctx context.Context, day time.Time) (*models.CachedMeal, error) {
	query := `
		SELECT id, day, name, soup
		FROM cached_meals
		WHERE day = $1
	`
	meal := &models.CachedMeal{}
	if err := r.db.QueryRowContext(ctx, query, day).
		Scan(&meal.ID, &meal.Day, &meal.Name, &meal.Soup); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return meal, nil
}

func (r *PostgresRepository) UpsertMeal(ctx context.Context, meal *models.CachedMeal) error {
	query := `
		INSERT INTO cached_meals (day, name, soup)
		VALUES ($1, $2, $3)
		ON CONFLICT (day) DO UPDATE
		SET name = EXCLUDED.name, soup = EXCLUDED.soup
	`
	if _, err := r.db.ExecContext(ctx, query, meal.Day, meal.Name, meal.Soup); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
