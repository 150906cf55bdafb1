// Package testdoubles provides test doubles (spies, stubs, dummies) for the
// domain collaborator interfaces. These are hand-crafted implementations, no
// mock frameworks.
package testdoubles

import (
	"context"
	"time"

	"github.com/rios0rios0/autorelease/domain"
)

// ---------------------------------------------------------------------------
// SpyProjectReader
// ---------------------------------------------------------------------------

// SpyProjectReader implements domain.ProjectReader as a configurable spy.
// Configure Definitions (and ListErr) for the run your test exercises, then
// inspect ListCalls to verify behavior.
type SpyProjectReader struct {
	Definitions []domain.ModuleDefinition
	ListErr     error

	// spy: number of ListModules invocations
	ListCalls int
}

var _ domain.ProjectReader = (*SpyProjectReader)(nil)

func (r *SpyProjectReader) ListModules(_ context.Context) ([]domain.ModuleDefinition, error) {
	r.ListCalls++
	return r.Definitions, r.ListErr
}

// ---------------------------------------------------------------------------
// SpyHistoryProvider
// ---------------------------------------------------------------------------

// SpyHistoryProvider implements domain.HistoryProvider as a configurable spy.
// Commits are keyed by module directory; release pointers by module name.
type SpyHistoryProvider struct {
	// --- LastReleaseFor ---
	Pointers       map[string]*domain.ReleasePointer // module name -> pointer
	LastReleaseErr error
	// spy: module names requested
	PointerRequests []string

	// --- CommitsSince ---
	Commits    map[string][]string // dir -> commit subjects
	CommitsErr map[string]error    // dir -> error for that module only
	// spy: dirs requested
	CommitRequests []string
}

var _ domain.HistoryProvider = (*SpyHistoryProvider)(nil)

func (h *SpyHistoryProvider) LastReleaseFor(
	_ context.Context,
	module *domain.Module,
) (*domain.ReleasePointer, error) {
	h.PointerRequests = append(h.PointerRequests, module.Name)
	if h.LastReleaseErr != nil {
		return nil, h.LastReleaseErr
	}
	if h.Pointers == nil {
		return nil, nil
	}
	return h.Pointers[module.Name], nil
}

func (h *SpyHistoryProvider) CommitsSince(
	_ context.Context,
	dir string,
	_ *domain.ReleasePointer,
) ([]string, error) {
	h.CommitRequests = append(h.CommitRequests, dir)
	if h.CommitsErr != nil {
		if err, ok := h.CommitsErr[dir]; ok {
			return nil, err
		}
	}
	if h.Commits == nil {
		return nil, nil
	}
	return h.Commits[dir], nil
}

// ---------------------------------------------------------------------------
// SpyWriter
// ---------------------------------------------------------------------------

// PersistedVersion records a single PersistVersion invocation.
type PersistedVersion struct {
	Dir     string
	Version domain.Version
}

// ChangelogUpdate records a single UpdateChangelog invocation.
type ChangelogUpdate struct {
	Dir     string
	Version domain.Version
	Date    time.Time
}

// SpyWriter implements domain.Writer as a configurable spy.
type SpyWriter struct {
	PersistErr   error
	ChangelogErr error

	// spy: calls received
	Persisted        []PersistedVersion
	ChangelogUpdates []ChangelogUpdate
}

var _ domain.Writer = (*SpyWriter)(nil)

func (w *SpyWriter) PersistVersion(
	_ context.Context,
	dir string,
	version domain.Version,
) error {
	w.Persisted = append(w.Persisted, PersistedVersion{Dir: dir, Version: version})
	return w.PersistErr
}

func (w *SpyWriter) UpdateChangelog(
	_ context.Context,
	dir string,
	version domain.Version,
	date time.Time,
) error {
	w.ChangelogUpdates = append(
		w.ChangelogUpdates,
		ChangelogUpdate{Dir: dir, Version: version, Date: date},
	)
	return w.ChangelogErr
}

// ---------------------------------------------------------------------------
// SpyPublisher
// ---------------------------------------------------------------------------

// CreatedTag records a single CreateTag invocation.
type CreatedTag struct {
	Tag    string
	Target *domain.ReleasePointer
}

// BatchCall records a single RecordBatchChange invocation.
type BatchCall struct {
	Dirs    []string
	Message string
}

// SpyPublisher implements domain.Publisher as a configurable spy. Tags
// created through it are added to ExistingTags, so a second run against the
// same spy sees them as already published.
type SpyPublisher struct {
	ExistingTags map[string]bool
	TagExistsErr error
	CreateTagErr error

	BatchPointer *domain.ReleasePointer
	BatchErr     error

	// spy: calls received
	CheckedTags []string
	CreatedTags []CreatedTag
	BatchCalls  []BatchCall
}

var _ domain.Publisher = (*SpyPublisher)(nil)

func (p *SpyPublisher) TagExists(_ context.Context, tag string) (bool, error) {
	p.CheckedTags = append(p.CheckedTags, tag)
	if p.TagExistsErr != nil {
		return false, p.TagExistsErr
	}
	return p.ExistingTags[tag], nil
}

func (p *SpyPublisher) CreateTag(
	_ context.Context,
	tag string,
	target *domain.ReleasePointer,
) error {
	p.CreatedTags = append(p.CreatedTags, CreatedTag{Tag: tag, Target: target})
	if p.CreateTagErr != nil {
		return p.CreateTagErr
	}
	if p.ExistingTags == nil {
		p.ExistingTags = make(map[string]bool)
	}
	p.ExistingTags[tag] = true
	return nil
}

func (p *SpyPublisher) RecordBatchChange(
	_ context.Context,
	dirs []string,
	message string,
) (*domain.ReleasePointer, error) {
	p.BatchCalls = append(p.BatchCalls, BatchCall{Dirs: dirs, Message: message})
	if p.BatchErr != nil {
		return nil, p.BatchErr
	}
	if p.BatchPointer != nil {
		return p.BatchPointer, nil
	}
	return &domain.ReleasePointer{Hash: "deadbeef"}, nil
}

// ---------------------------------------------------------------------------
// Dummies: satisfy the interfaces but do nothing (for compile checks)
// ---------------------------------------------------------------------------

// DummyProjectReader is a no-op implementation of domain.ProjectReader.
type DummyProjectReader struct{}

var _ domain.ProjectReader = (*DummyProjectReader)(nil)

func (d *DummyProjectReader) ListModules(_ context.Context) ([]domain.ModuleDefinition, error) {
	return nil, nil
}

// DummyHistoryProvider is a no-op implementation of domain.HistoryProvider.
type DummyHistoryProvider struct{}

var _ domain.HistoryProvider = (*DummyHistoryProvider)(nil)

func (d *DummyHistoryProvider) LastReleaseFor(
	_ context.Context,
	_ *domain.Module,
) (*domain.ReleasePointer, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}

func (d *DummyHistoryProvider) CommitsSince(
	_ context.Context,
	_ string,
	_ *domain.ReleasePointer,
) ([]string, error) {
	return nil, nil
}

// DummyWriter is a no-op implementation of domain.Writer.
type DummyWriter struct{}

var _ domain.Writer = (*DummyWriter)(nil)

func (d *DummyWriter) PersistVersion(_ context.Context, _ string, _ domain.Version) error {
	return nil
}

func (d *DummyWriter) UpdateChangelog(
	_ context.Context,
	_ string,
	_ domain.Version,
	_ time.Time,
) error {
	return nil
}

// DummyPublisher is a no-op implementation of domain.Publisher.
type DummyPublisher struct{}

var _ domain.Publisher = (*DummyPublisher)(nil)

func (d *DummyPublisher) TagExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (d *DummyPublisher) CreateTag(_ context.Context, _ string, _ *domain.ReleasePointer) error {
	return nil
}

func (d *DummyPublisher) RecordBatchChange(
	_ context.Context,
	_ []string,
	_ string,
) (*domain.ReleasePointer, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}
