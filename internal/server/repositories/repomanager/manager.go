// Package repomanager bundles the collection repositories behind one
// interface so services can be wired against Postgres or the in-memory
// demo store interchangeably.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/gmpi-project/gmpi/internal/dbx"
	"github.com/gmpi-project/gmpi/internal/server/repositories/events"
	"github.com/gmpi-project/gmpi/internal/server/repositories/facilities"
	"github.com/gmpi-project/gmpi/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	// WithinTransaction runs fn atomically where the backend supports it:
	// the Postgres manager wraps fn in a transaction, the in-memory
	// manager runs it directly.
	WithinTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Facilities(db dbx.DBTX) facilities.Repository
	Events(db dbx.DBTX) events.Repository
}
