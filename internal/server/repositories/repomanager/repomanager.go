// Package repomanager wires repository constructors to a database handle and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/server/repositories/caches"
	"github.com/marianfedorco24/api/internal/server/repositories/pendingsignups"
	"github.com/marianfedorco24/api/internal/server/repositories/sessions"
	"github.com/marianfedorco24/api/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code against the pool or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	PendingSignups(db dbx.DBTX) pendingsignups.Repository
	Caches(db dbx.DBTX) caches.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
