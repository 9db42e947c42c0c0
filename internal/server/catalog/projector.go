// Package catalog projects content versions into the denormalized listing
// row kept per logical content number.
package catalog

import (
	"context"
	"fmt"

	"github.com/pagesmith/pagesmith/internal/markup"
	"github.com/pagesmith/pagesmith/internal/server/models"
	catalogrepo "github.com/pagesmith/pagesmith/internal/server/repositories/catalog"
)

// Projector keeps the catalog in sync with the latest saved version.
// The projection is replace-only: the whole row is recomputed from the
// version on every upsert, never patched field by field.
type Projector struct {
	repo       catalogrepo.Repository
	normalizer *markup.Normalizer
}

func NewProjector(repo catalogrepo.Repository, normalizer *markup.Normalizer) *Projector {
	return &Projector{repo: repo, normalizer: normalizer}
}

// Upsert replaces the catalog row for the version's logical number with a
// freshly computed projection. A version without an introduction gets one
// derived from the first text block of its body.
func (p *Projector) Upsert(ctx context.Context, v *models.ContentVersion) error {
	intro := v.Introduction
	if intro == "" {
		intro = p.normalizer.ExtractIntroduction(v.Body)
	}

	entry := &models.CatalogEntry{
		ContentNumber: v.ContentNumber,
		Title:         v.Title,
		BannerImage:   v.BannerImage,
		StatusText:    statusText(v.Status),
		PublishedAt:   v.PublishedAt,
		UpdatedAt:     v.UpdatedAt,
		URLPath:       v.URLPath,
		TemplateID:    v.TemplateID,
		Introduction:  markup.Truncate(intro, markup.IntroductionLimit),
		Author:        "",
	}

	if err := p.repo.Replace(ctx, entry); err != nil {
		return fmt.Errorf("catalog upsert for %d: %w", v.ContentNumber, err)
	}
	return nil
}

// Delete removes the catalog row for a logical number. Deleting a missing
// row is a no-op.
func (p *Projector) Delete(ctx context.Context, contentNumber int64) error {
	return p.repo.Delete(ctx, contentNumber)
}

func statusText(status int) string {
	if status == models.StatusDisabled {
		return models.CatalogStatusInactive
	}
	return models.CatalogStatusActive
}
