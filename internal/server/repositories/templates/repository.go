package templates

import (
	"context"
	"time"

	"github.com/pagesmith/pagesmith/internal/server/models"
)

// Repository persists live templates and their design versions.
type Repository interface {
	// GetTemplate returns the live template, or common.ErrNotFound.
	GetTemplate(ctx context.Context, id int64) (*models.Template, error)

	// SaveTemplate overwrites the live template row.
	SaveTemplate(ctx context.Context, t *models.Template) error

	// GetDesignVersion returns a design version, or common.ErrNotFound.
	GetDesignVersion(ctx context.Context, id int64) (*models.DesignVersion, error)

	// MarkDesignPublished stamps the design version's publish timestamp.
	MarkDesignPublished(ctx context.Context, id int64, publishedAt time.Time) error
}
