package handlers

import (
	"context"

	"github.com/pagesmith/pagesmith/internal/server/models"
)

// PublishingCoordinator renders and deploys a version, purging downstream
// caches. Implemented in internal/server/publish.
type PublishingCoordinator interface {
	Deploy(ctx context.Context, v *models.ContentVersion) ([]models.CdnResult, error)
}

// TitleRedirectHandler reacts to a title/URL change for an already-persisted
// version. It owns any persistence it performs (redirect rows); it must not
// be handed an unsaved version. Reserved-path collisions surface as
// *common.BusinessRuleError and are propagated to the caller verbatim.
type TitleRedirectHandler interface {
	HandleTitleChange(ctx context.Context, v *models.ContentVersion, oldTitle, oldURLPath string) error
}

// CatalogProjector mirrors the latest version into the listing projection.
// Implemented in internal/server/catalog.
type CatalogProjector interface {
	Upsert(ctx context.Context, v *models.ContentVersion) error
	Delete(ctx context.Context, contentNumber int64) error
}
