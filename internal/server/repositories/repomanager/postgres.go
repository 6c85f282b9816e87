package repomanager

import (
	"context"
	"database/sql"

	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/server/migrations"
	"github.com/marianfedorco24/api/internal/server/repositories/caches"
	"github.com/marianfedorco24/api/internal/server/repositories/pendingsignups"
	"github.com/marianfedorco24/api/internal/server/repositories/sessions"
	"github.com/marianfedorco24/api/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// PendingSignups returns a pendingsignups.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) PendingSignups(db dbx.DBTX) pendingsignups.Repository {
	return pendingsignups.NewPostgresRepository(db)
}

// Caches returns a caches.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Caches(db dbx.DBTX) caches.Repository {
	return caches.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
