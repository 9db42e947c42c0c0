// Package redirects keeps old URL paths working after a title change by
// maintaining a redirect table alongside the content store.
package redirects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/dbx"
	"github.com/pagesmith/pagesmith/internal/logging"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

// Handler persists path redirects when a saved version's title moved the
// entry to a new URL path. The version itself is already durable when the
// handler runs; it only owns the redirect rows.
type Handler struct {
	db     dbx.DBTX
	logger logging.Logger
}

func NewHandler(db dbx.DBTX, logger logging.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// HandleTitleChange records oldURLPath -> v.URLPath. A path found in
// reserved_paths rejects the change with a business-rule error; chains
// through the old path are flattened to point at the new one.
func (h *Handler) HandleTitleChange(ctx context.Context, v *models.ContentVersion, oldTitle, oldURLPath string) error {
	if oldURLPath == "" || oldURLPath == v.URLPath {
		return nil
	}

	reserved, err := h.isReserved(ctx, v.URLPath)
	if err != nil {
		return err
	}
	if reserved {
		return &common.BusinessRuleError{
			Rule:   "reserved-path",
			Detail: fmt.Sprintf("path %q is reserved", v.URLPath),
		}
	}

	query := `
		INSERT INTO redirects (old_path, new_path)
		VALUES ($1, $2)
		ON CONFLICT (old_path) DO UPDATE SET new_path = EXCLUDED.new_path`
	if _, err := h.db.ExecContext(ctx, query, oldURLPath, v.URLPath); err != nil {
		return fmt.Errorf("failed to insert redirect: %w", err)
	}

	// flatten chains: anything that pointed at the old path goes straight
	// to the new one
	if _, err := h.db.ExecContext(ctx,
		`UPDATE redirects SET new_path = $2 WHERE new_path = $1`,
		oldURLPath, v.URLPath); err != nil {
		return fmt.Errorf("failed to flatten redirect chain: %w", err)
	}

	// the new path is live content again, a stale redirect away from it
	// would shadow the page
	if _, err := h.db.ExecContext(ctx,
		`DELETE FROM redirects WHERE old_path = $1`,
		v.URLPath); err != nil {
		return fmt.Errorf("failed to clear stale redirect: %w", err)
	}

	h.logger.Info(ctx, "redirect recorded", "content_number", v.ContentNumber,
		"old_path", oldURLPath, "new_path", v.URLPath)
	return nil
}

// Lookup resolves a redirect for path. Returns common.ErrNotFound when no
// redirect exists.
func (h *Handler) Lookup(ctx context.Context, path string) (*models.Redirect, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT old_path, new_path FROM redirects WHERE old_path = $1`, path)

	var r models.Redirect
	if err := row.Scan(&r.OldPath, &r.NewPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select redirect: %w", err)
	}
	return &r, nil
}

func (h *Handler) isReserved(ctx context.Context, path string) (bool, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reserved_paths WHERE path = $1)`, path)

	var reserved bool
	if err := row.Scan(&reserved); err != nil {
		return false, fmt.Errorf("failed to check reserved paths: %w", err)
	}
	return reserved, nil
}
