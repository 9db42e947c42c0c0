package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/logging"
	"github.com/pagesmith/pagesmith/internal/markup"
	"github.com/pagesmith/pagesmith/internal/server/models"
	"github.com/pagesmith/pagesmith/internal/server/repositories/versions"
)

// SaveHandler applies one content edit: a new immutable version, the
// catalog projection, redirects on title change, and a deploy when the
// version is published.
type SaveHandler struct {
	versions    versions.Repository
	projector   CatalogProjector
	coordinator PublishingCoordinator
	redirects   TitleRedirectHandler
	normalizer  *markup.Normalizer
	logger      logging.Logger
	now         func() time.Time
}

func NewSaveHandler(
	versions versions.Repository,
	projector CatalogProjector,
	coordinator PublishingCoordinator,
	redirects TitleRedirectHandler,
	normalizer *markup.Normalizer,
	logger logging.Logger,
) *SaveHandler {
	return &SaveHandler{
		versions:    versions,
		projector:   projector,
		coordinator: coordinator,
		redirects:   redirects,
		normalizer:  normalizer,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle runs the save. Expected outcomes are encoded in the result status;
// the returned error is non-nil only for business-rule violations raised by
// the redirect collaborator, which propagate verbatim.
func (h *SaveHandler) Handle(ctx context.Context, cmd SaveContent) (SaveContentResult, error) {
	if errs := fieldErrors(cmd); len(errs) > 0 {
		return SaveContentResult{Status: StatusInvalid, FieldErrors: errs}, nil
	}

	prior, err := h.versions.Latest(ctx, cmd.ContentNumber)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return SaveContentResult{Status: StatusNotFound}, nil
		}
		h.logger.Error(ctx, "loading latest version failed", "content_number", cmd.ContentNumber, "error", err)
		return SaveContentResult{Status: StatusFailed}, nil
	}

	oldTitle := prior.Title
	oldURLPath := prior.URLPath

	body, err := h.normalizer.EnsureEditableMarkers(cmd.Body)
	if err != nil {
		h.logger.Error(ctx, "normalizing body failed", "content_number", cmd.ContentNumber, "error", err)
		return SaveContentResult{Status: StatusFailed}, nil
	}

	version := h.buildVersion(prior, cmd, body)

	if err := h.versions.Insert(ctx, version); err != nil {
		if !errors.Is(err, common.ErrVersionConflict) {
			h.logger.Error(ctx, "version insert failed", "content_number", cmd.ContentNumber, "error", err)
			return SaveContentResult{Status: StatusFailed}, nil
		}

		// a concurrent writer took our number; reload and retry once
		h.logger.Warn(ctx, "version conflict, retrying", "content_number", cmd.ContentNumber)
		prior, err = h.versions.Latest(ctx, cmd.ContentNumber)
		if err != nil {
			h.logger.Error(ctx, "reload after conflict failed", "content_number", cmd.ContentNumber, "error", err)
			return SaveContentResult{Status: StatusFailed}, nil
		}
		oldTitle, oldURLPath = prior.Title, prior.URLPath
		version = h.buildVersion(prior, cmd, body)
		if err := h.versions.Insert(ctx, version); err != nil {
			h.logger.Error(ctx, "retry after conflict failed", "content_number", cmd.ContentNumber, "error", err)
			return SaveContentResult{Status: StatusFailed}, nil
		}
	}

	if cmd.Title != oldTitle {
		if err := h.redirects.HandleTitleChange(ctx, version, oldTitle, oldURLPath); err != nil {
			if common.IsBusinessRule(err) {
				return SaveContentResult{}, err
			}
			h.logger.Error(ctx, "title change handling failed", "content_number", cmd.ContentNumber, "error", err)
			return SaveContentResult{Status: StatusFailed}, nil
		}
	}

	if err := h.projector.Upsert(ctx, version); err != nil {
		h.logger.Error(ctx, "catalog upsert failed", "content_number", cmd.ContentNumber, "error", err)
		return SaveContentResult{Status: StatusFailed}, nil
	}

	var cdnResults []models.CdnResult
	if version.Published() {
		cdnResults, err = h.coordinator.Deploy(ctx, version)
		if err != nil {
			h.logger.Error(ctx, "deploy failed", "content_number", cmd.ContentNumber, "error", err)
			return SaveContentResult{Status: StatusFailed}, nil
		}
	}

	return SaveContentResult{
		Status:           StatusOK,
		Version:          version,
		NewVersionNumber: version.VersionNumber,
		CdnResults:       cdnResults,
	}, nil
}

// buildVersion assembles the next version from the command, copying forward
// the fields the command does not carry.
func (h *SaveHandler) buildVersion(prior *models.ContentVersion, cmd SaveContent, body string) *models.ContentVersion {
	intro := cmd.Introduction
	if intro == "" {
		intro = h.normalizer.ExtractIntroduction(body)
	}

	groupKey := cmd.ContentType
	if groupKey == "" {
		groupKey = prior.GroupKey
	}

	// a custom path survives as long as the title does
	urlPath := prior.URLPath
	if cmd.Title != prior.Title {
		urlPath = slugify(cmd.Title)
		// a title with no sluggable characters must not land on the site root
		if urlPath == "/" {
			urlPath = fmt.Sprintf("/%d", cmd.ContentNumber)
		}
	}

	return &models.ContentVersion{
		ID:             uuid.NewString(),
		ContentNumber:  cmd.ContentNumber,
		VersionNumber:  prior.VersionNumber + 1,
		Title:          cmd.Title,
		Body:           body,
		HeaderScript:   cmd.HeaderScript,
		FooterScript:   cmd.FooterScript,
		BannerImage:    cmd.BannerImage,
		Status:         prior.Status,
		Category:       cmd.Category,
		Introduction:   markup.Truncate(intro, markup.IntroductionLimit),
		PublishedAt:    cmd.PublishedAt,
		UpdatedAt:      h.now().UTC(),
		EditorID:       cmd.EditorID,
		TemplateID:     prior.TemplateID,
		ExpiresAt:      prior.ExpiresAt,
		RedirectTarget: prior.RedirectTarget,
		URLPath:        urlPath,
		GroupKey:       groupKey,
	}
}
