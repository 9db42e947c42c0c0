// Package catalog provides the PostgreSQL-backed listing projection,
// one denormalized row per logical content number.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/dbx"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

// PostgresRepository implements catalog storage. It holds *sql.DB rather
// than dbx.DBTX because Replace runs its delete+insert in a transaction of
// its own.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const catalogColumns = `content_number, title, banner_image, status_text,
	published_at, updated_at, url_path, template_id, introduction, author`

func (r *PostgresRepository) Get(ctx context.Context, contentNumber int64) (*models.CatalogEntry, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_entries WHERE content_number = $1`

	row := r.db.QueryRowContext(ctx, query, contentNumber)
	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select catalog entry: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, e *models.CatalogEntry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM catalog_entries WHERE content_number = $1`, e.ContentNumber); err != nil {
			return fmt.Errorf("failed to clear catalog entry: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_entries (`+catalogColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			e.ContentNumber, e.Title, e.BannerImage, e.StatusText,
			e.PublishedAt, e.UpdatedAt, e.URLPath, e.TemplateID, e.Introduction, e.Author)
		if err != nil {
			return fmt.Errorf("failed to insert catalog entry: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) Delete(ctx context.Context, contentNumber int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM catalog_entries WHERE content_number = $1`, contentNumber)
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByTemplate(ctx context.Context, templateID int64) ([]*models.CatalogEntry, error) {
	query := `SELECT ` + catalogColumns + `
		FROM catalog_entries
		WHERE template_id = $1
		ORDER BY content_number`

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	defer rows.Close()

	var result []*models.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanEntry(scan func(dest ...any) error) (*models.CatalogEntry, error) {
	var e models.CatalogEntry
	var publishedAt sql.NullTime
	var templateID sql.NullInt64

	err := scan(
		&e.ContentNumber, &e.Title, &e.BannerImage, &e.StatusText,
		&publishedAt, &e.UpdatedAt, &e.URLPath, &templateID, &e.Introduction, &e.Author)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		e.PublishedAt = &publishedAt.Time
	}
	if templateID.Valid {
		e.TemplateID = &templateID.Int64
	}
	return &e, nil
}
