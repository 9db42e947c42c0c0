package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/logging"
	"github.com/pagesmith/pagesmith/internal/markup"
	"github.com/pagesmith/pagesmith/internal/server/models"
	catalogrepo "github.com/pagesmith/pagesmith/internal/server/repositories/catalog"
	"github.com/pagesmith/pagesmith/internal/server/repositories/templates"
	"github.com/pagesmith/pagesmith/internal/server/repositories/versions"
)

// PublishHandler publishes a template design version and regenerates every
// dependent content entry through the region-preserving merge.
//
// The command as a whole fails only when the template publish itself fails.
// Dependent entries are processed sequentially; a failure on one entry is
// logged and isolated, never aborting the rest. Cancellation mid-batch
// keeps already-regenerated entries and abandons the remainder, so a
// propagation batch is eventually consistent, not atomic.
type PublishHandler struct {
	templates   templates.Repository
	versions    versions.Repository
	catalog     catalogrepo.Repository
	projector   CatalogProjector
	coordinator PublishingCoordinator
	logger      logging.Logger
	now         func() time.Time
}

func NewPublishHandler(
	templates templates.Repository,
	versions versions.Repository,
	catalog catalogrepo.Repository,
	projector CatalogProjector,
	coordinator PublishingCoordinator,
	logger logging.Logger,
) *PublishHandler {
	return &PublishHandler{
		templates:   templates,
		versions:    versions,
		catalog:     catalog,
		projector:   projector,
		coordinator: coordinator,
		logger:      logger,
		now:         time.Now,
	}
}

func (h *PublishHandler) Handle(ctx context.Context, cmd PublishDesign) (PublishDesignResult, error) {
	if errs := fieldErrors(cmd); len(errs) > 0 {
		return PublishDesignResult{Status: StatusInvalid, FieldErrors: errs}, nil
	}

	design, err := h.templates.GetDesignVersion(ctx, cmd.DesignVersionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return PublishDesignResult{Status: StatusNotFound}, nil
		}
		h.logger.Error(ctx, "loading design version failed", "design_id", cmd.DesignVersionID, "error", err)
		return PublishDesignResult{Status: StatusFailed}, nil
	}

	tpl, err := h.templates.GetTemplate(ctx, design.TemplateID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return PublishDesignResult{Status: StatusNotFound}, nil
		}
		h.logger.Error(ctx, "loading template failed", "template_id", design.TemplateID, "error", err)
		return PublishDesignResult{Status: StatusFailed}, nil
	}

	now := h.now().UTC()
	if err := h.templates.MarkDesignPublished(ctx, design.ID, now); err != nil {
		h.logger.Error(ctx, "stamping design published failed", "design_id", design.ID, "error", err)
		return PublishDesignResult{Status: StatusFailed}, nil
	}

	tpl.LayoutID = design.LayoutID
	tpl.Title = design.Title
	tpl.Description = design.Description
	tpl.Body = design.Body
	tpl.PageType = design.PageType
	tpl.UpdatedAt = now

	if err := h.templates.SaveTemplate(ctx, tpl); err != nil {
		h.logger.Error(ctx, "saving live template failed", "template_id", tpl.ID, "error", err)
		return PublishDesignResult{Status: StatusFailed}, nil
	}

	h.logger.Info(ctx, "template published", "template_id", tpl.ID, "design_id", design.ID, "editor_id", cmd.EditorID)

	// the publish itself succeeded; everything below is best-effort per entry
	dependents, err := h.catalog.ListByTemplate(ctx, tpl.ID)
	if err != nil {
		h.logger.Error(ctx, "listing dependent entries failed", "template_id", tpl.ID, "error", err)
		return PublishDesignResult{Status: StatusOK, TemplateID: tpl.ID}, nil
	}

	result := PublishDesignResult{Status: StatusOK, TemplateID: tpl.ID}
	for _, entry := range dependents {
		if ctx.Err() != nil {
			h.logger.Warn(ctx, "propagation cancelled", "template_id", tpl.ID,
				"regenerated", result.Regenerated, "remaining", len(dependents)-result.Regenerated-result.Failed)
			break
		}
		if err := h.regenerate(ctx, entry, tpl, now); err != nil {
			h.logger.Error(ctx, "regenerating entry failed",
				"content_number", entry.ContentNumber, "template_id", tpl.ID, "error", err)
			result.Failed++
			continue
		}
		result.Regenerated++
	}

	return result, nil
}

// regenerate rebuilds one dependent entry's body against the freshly
// published template, preserving user-authored regions, and appends the
// result as the entry's next version.
func (h *PublishHandler) regenerate(ctx context.Context, entry *models.CatalogEntry, tpl *models.Template, now time.Time) error {
	prior, err := h.versions.Latest(ctx, entry.ContentNumber)
	if err != nil {
		return err
	}

	next := *prior
	next.ID = uuid.NewString()
	next.VersionNumber = prior.VersionNumber + 1
	next.Body = markup.MergeRegions(prior.Body, tpl.Body)
	next.UpdatedAt = now

	if err := h.versions.Insert(ctx, &next); err != nil {
		return err
	}

	if err := h.projector.Upsert(ctx, &next); err != nil {
		return err
	}

	if next.Published() {
		if _, err := h.coordinator.Deploy(ctx, &next); err != nil {
			return err
		}
	}
	return nil
}
