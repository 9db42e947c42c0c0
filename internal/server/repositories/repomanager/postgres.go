// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pagesmith/pagesmith/internal/dbx"
	"github.com/pagesmith/pagesmith/internal/server/migrations"
	"github.com/pagesmith/pagesmith/internal/server/repositories/catalog"
	"github.com/pagesmith/pagesmith/internal/server/repositories/templates"
	"github.com/pagesmith/pagesmith/internal/server/repositories/versions"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Versions returns a versions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Versions(db dbx.DBTX) versions.Repository {
	return versions.NewPostgresRepository(db)
}

// Templates returns a templates.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Templates(db dbx.DBTX) templates.Repository {
	return templates.NewPostgresRepository(db)
}

// Catalog returns a catalog.Repository bound to the provided connection.
func (m *PostgresRepositoryManager) Catalog(db *sql.DB) catalog.Repository {
	return catalog.NewPostgresRepository(db)
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
