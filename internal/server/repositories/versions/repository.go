package versions

import (
	"context"

	"github.com/pagesmith/pagesmith/internal/server/models"
)

// Repository is the append-only version store. Insert never updates or
// deletes rows; the optimistic-concurrency token is the unique
// (content_number, version_number) pair.
type Repository interface {
	// Latest returns the highest-numbered version of a logical content
	// number, or common.ErrNotFound when no version exists.
	Latest(ctx context.Context, contentNumber int64) (*models.ContentVersion, error)

	// Insert appends a new version. A concurrent writer that already took
	// the same version number surfaces as common.ErrVersionConflict.
	Insert(ctx context.Context, v *models.ContentVersion) error

	// History returns all versions of a logical number, newest first.
	History(ctx context.Context, contentNumber int64) ([]*models.ContentVersion, error)
}
