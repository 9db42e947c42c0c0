// Package versions provides the PostgreSQL-backed append-only store of
// content entry versions.
package versions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/dbx"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements the version store over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const versionColumns = `id, content_number, version_number, title, body,
	header_script, footer_script, banner_image, status, category, introduction,
	published_at, updated_at, editor_id, template_id, expires_at,
	redirect_target, url_path, group_key`

// Latest returns the current (highest-numbered) version for contentNumber.
func (r *PostgresRepository) Latest(ctx context.Context, contentNumber int64) (*models.ContentVersion, error) {
	query := `SELECT ` + versionColumns + `
		FROM content_versions
		WHERE content_number = $1
		ORDER BY version_number DESC
		LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, contentNumber)
	v, err := scanVersion(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select latest version: %w", err)
	}
	return v, nil
}

// Insert appends v. The unique (content_number, version_number) constraint
// is the concurrency token: a duplicate maps to common.ErrVersionConflict.
func (r *PostgresRepository) Insert(ctx context.Context, v *models.ContentVersion) error {
	query := `
		INSERT INTO content_versions (` + versionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ContentNumber, v.VersionNumber, v.Title, v.Body,
		v.HeaderScript, v.FooterScript, v.BannerImage, v.Status, v.Category, v.Introduction,
		v.PublishedAt, v.UpdatedAt, v.EditorID, v.TemplateID, v.ExpiresAt,
		v.RedirectTarget, v.URLPath, v.GroupKey)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrVersionConflict
		}
		return fmt.Errorf("failed to insert version: %w", err)
	}
	return nil
}

// History returns every version of contentNumber, newest first.
func (r *PostgresRepository) History(ctx context.Context, contentNumber int64) ([]*models.ContentVersion, error) {
	query := `SELECT ` + versionColumns + `
		FROM content_versions
		WHERE content_number = $1
		ORDER BY version_number DESC`

	rows, err := r.db.QueryContext(ctx, query, contentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []*models.ContentVersion
	for rows.Next() {
		v, err := scanVersion(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanVersion(scan func(dest ...any) error) (*models.ContentVersion, error) {
	var v models.ContentVersion
	var publishedAt, expiresAt sql.NullTime
	var templateID sql.NullInt64

	err := scan(
		&v.ID, &v.ContentNumber, &v.VersionNumber, &v.Title, &v.Body,
		&v.HeaderScript, &v.FooterScript, &v.BannerImage, &v.Status, &v.Category, &v.Introduction,
		&publishedAt, &v.UpdatedAt, &v.EditorID, &templateID, &expiresAt,
		&v.RedirectTarget, &v.URLPath, &v.GroupKey,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		v.PublishedAt = &publishedAt.Time
	}
	if expiresAt.Valid {
		v.ExpiresAt = &expiresAt.Time
	}
	if templateID.Valid {
		v.TemplateID = &templateID.Int64
	}
	return &v, nil
}
