package repomanager

import (
	"context"
	"database/sql"

	"github.com/gmpi-project/gmpi/internal/dbx"
	"github.com/gmpi-project/gmpi/internal/server/repositories/events"
	"github.com/gmpi-project/gmpi/internal/server/repositories/facilities"
	"github.com/gmpi-project/gmpi/internal/server/repositories/users"
)

// MemoryRepositoryManager serves the in-process repositories used by demo
// mode and tests. The db handle is ignored.
type MemoryRepositoryManager struct {
	users      *users.MemoryRepository
	facilities *facilities.MemoryRepository
	events     *events.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:      users.NewMemoryRepository(),
		facilities: facilities.NewMemoryRepository(),
		events:     events.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

// Memory repositories are not transactional; fn runs directly against them.
func (m *MemoryRepositoryManager) WithinTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, db)
}

func (m *MemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Facilities(db dbx.DBTX) facilities.Repository {
	return m.facilities
}

func (m *MemoryRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return m.events
}
