package repomanager

import (
	"context"
	"database/sql"

	"github.com/pagesmith/pagesmith/internal/dbx"
	"github.com/pagesmith/pagesmith/internal/server/repositories/catalog"
	"github.com/pagesmith/pagesmith/internal/server/repositories/templates"
	"github.com/pagesmith/pagesmith/internal/server/repositories/versions"
)

// RepositoryManager vends repository implementations for one storage
// backend and exposes the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Versions(db dbx.DBTX) versions.Repository
	Templates(db dbx.DBTX) templates.Repository
	Catalog(db *sql.DB) catalog.Repository
}
