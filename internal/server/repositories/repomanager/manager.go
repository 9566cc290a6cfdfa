package repomanager

import (
	"context"
	"database/sql"

	"github.com/medinvest/medinvest/internal/dbx"
	"github.com/medinvest/medinvest/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction
// and owns the schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
