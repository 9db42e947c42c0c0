package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesmith/pagesmith/internal/markup"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

type fakeCatalogRepo struct {
	replaced []*models.CatalogEntry
	deleted  []int64

	replaceErr error
}

func (f *fakeCatalogRepo) Get(ctx context.Context, n int64) (*models.CatalogEntry, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) Replace(ctx context.Context, e *models.CatalogEntry) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, e)
	return nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, n int64) error {
	f.deleted = append(f.deleted, n)
	return nil
}

func (f *fakeCatalogRepo) ListByTemplate(ctx context.Context, id int64) ([]*models.CatalogEntry, error) {
	return nil, nil
}

func newProjector(repo *fakeCatalogRepo) *Projector {
	return NewProjector(repo, markup.NewNormalizer())
}

func TestUpsert_MirrorsVersionFields(t *testing.T) {
	repo := &fakeCatalogRepo{}
	p := newProjector(repo)

	published := time.Now()
	tplID := int64(5)
	v := &models.ContentVersion{
		ContentNumber: 42,
		Title:         "A",
		BannerImage:   "banner.png",
		Status:        models.StatusActive,
		Introduction:  "intro",
		PublishedAt:   &published,
		UpdatedAt:     time.Now(),
		URLPath:       "/a",
		TemplateID:    &tplID,
	}

	require.NoError(t, p.Upsert(context.Background(), v))
	require.Len(t, repo.replaced, 1)

	e := repo.replaced[0]
	assert.Equal(t, int64(42), e.ContentNumber)
	assert.Equal(t, "A", e.Title)
	assert.Equal(t, "/a", e.URLPath)
	assert.Equal(t, models.CatalogStatusActive, e.StatusText)
	assert.Equal(t, &published, e.PublishedAt)
	assert.Equal(t, "intro", e.Introduction)
	assert.Equal(t, &tplID, e.TemplateID)
}

func TestUpsert_DisabledStatusProjectsInactive(t *testing.T) {
	repo := &fakeCatalogRepo{}
	p := newProjector(repo)

	v := &models.ContentVersion{ContentNumber: 1, Status: models.StatusDisabled, Introduction: "x"}
	require.NoError(t, p.Upsert(context.Background(), v))
	assert.Equal(t, models.CatalogStatusInactive, repo.replaced[0].StatusText)
}

func TestUpsert_DerivesIntroductionFromBody(t *testing.T) {
	repo := &fakeCatalogRepo{}
	p := newProjector(repo)

	v := &models.ContentVersion{
		ContentNumber: 1,
		Body:          "<p>  </p><p>Derived intro</p>",
	}
	require.NoError(t, p.Upsert(context.Background(), v))
	assert.Equal(t, "Derived intro", repo.replaced[0].Introduction)
}

func TestUpsert_TruncatesDerivedIntroduction(t *testing.T) {
	repo := &fakeCatalogRepo{}
	p := newProjector(repo)

	v := &models.ContentVersion{
		ContentNumber: 1,
		Body:          "<p>" + strings.Repeat("a", 600) + "</p>",
	}
	require.NoError(t, p.Upsert(context.Background(), v))
	assert.Len(t, repo.replaced[0].Introduction, markup.IntroductionLimit)
}

func TestUpsert_WrapsRepoError(t *testing.T) {
	repo := &fakeCatalogRepo{replaceErr: errors.New("db down")}
	p := newProjector(repo)

	err := p.Upsert(context.Background(), &models.ContentVersion{ContentNumber: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7")
}

func TestDelete_PassesThrough(t *testing.T) {
	repo := &fakeCatalogRepo{}
	p := newProjector(repo)

	require.NoError(t, p.Delete(context.Background(), 42))
	require.NoError(t, p.Delete(context.Background(), 42))
	assert.Equal(t, []int64{42, 42}, repo.deleted)
}
