package handlers

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/logging"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

// fakeVersions is an in-memory append-only version store. Setting
// conflictsLeft makes the next inserts fail with ErrVersionConflict; when
// competing is set, each conflict also appends a competitor version,
// simulating the concurrent writer that won the race.
type fakeVersions struct {
	mu            sync.Mutex
	byNumber      map[int64][]*models.ContentVersion
	conflictsLeft int
	competing     bool

	latestCalls int
	insertCalls int
}

func newFakeVersions(seed ...*models.ContentVersion) *fakeVersions {
	f := &fakeVersions{byNumber: make(map[int64][]*models.ContentVersion)}
	for _, v := range seed {
		f.byNumber[v.ContentNumber] = append(f.byNumber[v.ContentNumber], v)
	}
	return f
}

func (f *fakeVersions) Latest(ctx context.Context, n int64) (*models.ContentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++

	vs := f.byNumber[n]
	if len(vs) == 0 {
		return nil, common.ErrNotFound
	}
	latest := vs[0]
	for _, v := range vs[1:] {
		if v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeVersions) Insert(ctx context.Context, v *models.ContentVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++

	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		if f.competing {
			competitor := *v
			competitor.ID = "competitor-" + competitor.ID
			competitor.EditorID = "rival"
			f.byNumber[v.ContentNumber] = append(f.byNumber[v.ContentNumber], &competitor)
		}
		return common.ErrVersionConflict
	}

	for _, existing := range f.byNumber[v.ContentNumber] {
		if existing.VersionNumber == v.VersionNumber {
			return common.ErrVersionConflict
		}
	}
	cp := *v
	f.byNumber[v.ContentNumber] = append(f.byNumber[v.ContentNumber], &cp)
	return nil
}

func (f *fakeVersions) History(ctx context.Context, n int64) ([]*models.ContentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vs := append([]*models.ContentVersion(nil), f.byNumber[n]...)
	sort.Slice(vs, func(i, j int) bool { return vs[i].VersionNumber > vs[j].VersionNumber })
	return vs, nil
}

func (f *fakeVersions) versionNumbers(t *testing.T, n int64) []int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	var nums []int
	for _, v := range f.byNumber[n] {
		nums = append(nums, v.VersionNumber)
	}
	sort.Ints(nums)
	return nums
}

type fakeProjector struct {
	mu      sync.Mutex
	upserts []*models.ContentVersion
	deletes []int64

	upsertErr error
}

func (f *fakeProjector) Upsert(ctx context.Context, v *models.ContentVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, v)
	return nil
}

func (f *fakeProjector) Delete(ctx context.Context, n int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, n)
	return nil
}

type fakeCoordinator struct {
	mu       sync.Mutex
	deployed []*models.ContentVersion
	results  []models.CdnResult
	err      error
}

func (f *fakeCoordinator) Deploy(ctx context.Context, v *models.ContentVersion) ([]models.CdnResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.deployed = append(f.deployed, v)
	return f.results, nil
}

type titleChange struct {
	version  *models.ContentVersion
	oldTitle string
	oldPath  string
}

type fakeRedirects struct {
	mu    sync.Mutex
	calls []titleChange
	err   error
}

func (f *fakeRedirects) HandleTitleChange(ctx context.Context, v *models.ContentVersion, oldTitle, oldPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, titleChange{version: v, oldTitle: oldTitle, oldPath: oldPath})
	return nil
}

type fakeTemplates struct {
	template *models.Template
	design   *models.DesignVersion

	savedTemplates  []*models.Template
	publishedStamps []int64

	markErr error
	saveErr error
}

func (f *fakeTemplates) GetTemplate(ctx context.Context, id int64) (*models.Template, error) {
	if f.template == nil || f.template.ID != id {
		return nil, common.ErrNotFound
	}
	cp := *f.template
	return &cp, nil
}

func (f *fakeTemplates) SaveTemplate(ctx context.Context, t *models.Template) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *t
	f.savedTemplates = append(f.savedTemplates, &cp)
	f.template = &cp
	return nil
}

func (f *fakeTemplates) GetDesignVersion(ctx context.Context, id int64) (*models.DesignVersion, error) {
	if f.design == nil || f.design.ID != id {
		return nil, common.ErrNotFound
	}
	cp := *f.design
	return &cp, nil
}

func (f *fakeTemplates) MarkDesignPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.publishedStamps = append(f.publishedStamps, id)
	return nil
}

type fakeCatalog struct {
	entries []*models.CatalogEntry
	listErr error
}

func (f *fakeCatalog) Get(ctx context.Context, n int64) (*models.CatalogEntry, error) {
	for _, e := range f.entries {
		if e.ContentNumber == n {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeCatalog) Replace(ctx context.Context, e *models.CatalogEntry) error { return nil }

func (f *fakeCatalog) Delete(ctx context.Context, n int64) error { return nil }

func (f *fakeCatalog) ListByTemplate(ctx context.Context, id int64) ([]*models.CatalogEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.CatalogEntry
	for _, e := range f.entries {
		if e.TemplateID != nil && *e.TemplateID == id {
			out = append(out, e)
		}
	}
	return out, nil
}
