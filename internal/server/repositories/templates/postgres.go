// Package templates provides PostgreSQL-backed persistence for live
// templates and their design versions.
package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/dbx"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

// PostgresRepository implements template storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetTemplate(ctx context.Context, id int64) (*models.Template, error) {
	query := `SELECT id, layout_id, title, description, body, page_type, updated_at
		FROM templates WHERE id = $1`

	var t models.Template
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.LayoutID, &t.Title, &t.Description, &t.Body, &t.PageType, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select template: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) SaveTemplate(ctx context.Context, t *models.Template) error {
	query := `UPDATE templates
		SET layout_id = $2, title = $3, description = $4, body = $5, page_type = $6, updated_at = $7
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		t.ID, t.LayoutID, t.Title, t.Description, t.Body, t.PageType, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetDesignVersion(ctx context.Context, id int64) (*models.DesignVersion, error) {
	query := `SELECT id, template_id, layout_id, title, description, body, page_type, published_at
		FROM design_versions WHERE id = $1`

	var d models.DesignVersion
	var publishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.TemplateID, &d.LayoutID, &d.Title, &d.Description, &d.Body, &d.PageType, &publishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select design version: %w", err)
	}
	if publishedAt.Valid {
		d.PublishedAt = &publishedAt.Time
	}
	return &d, nil
}

func (r *PostgresRepository) MarkDesignPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	query := `UPDATE design_versions SET published_at = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to mark design published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
