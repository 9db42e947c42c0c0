package catalog

import (
	"context"

	"github.com/pagesmith/pagesmith/internal/server/models"
)

// Repository stores the denormalized catalog projection, 0-or-1 row per
// logical content number. The catalog holds nothing that cannot be rebuilt
// from the version store.
type Repository interface {
	// Get returns the catalog row for a logical number, or common.ErrNotFound.
	Get(ctx context.Context, contentNumber int64) (*models.CatalogEntry, error)

	// Replace removes any existing row for the entry's logical number and
	// inserts the freshly computed one, atomically. Replace, never
	// field-patch: stale columns cannot survive a projection change.
	Replace(ctx context.Context, e *models.CatalogEntry) error

	// Delete removes the row for a logical number. Idempotent: deleting a
	// missing row is a no-op.
	Delete(ctx context.Context, contentNumber int64) error

	// ListByTemplate returns every catalog entry referencing the template.
	ListByTemplate(ctx context.Context, templateID int64) ([]*models.CatalogEntry, error)
}
