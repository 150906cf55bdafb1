package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/domain"
)

// ReleaseService orchestrates the full release flow:
// read modules -> build graph -> classify history -> calculate versions ->
// report or apply.
type ReleaseService struct {
	reader    domain.ProjectReader
	history   domain.HistoryProvider
	writer    domain.Writer
	publisher domain.Publisher
}

// NewReleaseService creates a new service with the given collaborators.
func NewReleaseService(
	reader domain.ProjectReader,
	history domain.HistoryProvider,
	writer domain.Writer,
	publisher domain.Publisher,
) *ReleaseService {
	return &ReleaseService{
		reader:    reader,
		history:   history,
		writer:    writer,
		publisher: publisher,
	}
}

// ReleaseOptions holds runtime options for a single run.
type ReleaseOptions struct {
	Apply   bool // false computes and reports without mutating anything
	Verbose bool
}

// ReleaseResult is the outcome of one run, with modules in the order they
// were processed (dependencies before dependents).
type ReleaseResult struct {
	Modules []*domain.Module
	Changed int
	Tagged  int
}

// Run executes the release cycle as a single pass with no rollback.
// Structural problems (duplicate modules, cycles, malformed versions) abort
// the run; a module whose history cannot be read degrades to "no changes".
func (s *ReleaseService) Run(ctx context.Context, opts ReleaseOptions) (*ReleaseResult, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	definitions, err := s.reader.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	if len(definitions) == 0 {
		logger.Warn("[release] No modules found, nothing to do")
		return &ReleaseResult{}, nil
	}

	graph, err := domain.BuildGraph(definitions)
	if err != nil {
		return nil, fmt.Errorf("failed to build module graph: %w", err)
	}
	if cycleErr := graph.DetectCycles(); cycleErr != nil {
		return nil, cycleErr
	}
	ordered, err := graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	s.classify(ctx, ordered)
	domain.Calculate(ordered)

	result := &ReleaseResult{Modules: ordered}
	for _, m := range ordered {
		if m.Changed() {
			result.Changed++
		}
	}

	logger.Infof(
		"[release] %d modules processed, %d version changes",
		len(ordered), result.Changed,
	)

	if !opts.Apply {
		return result, nil
	}

	if applyErr := s.apply(ctx, ordered, result); applyErr != nil {
		return nil, applyErr
	}
	return result, nil
}

// classify derives every module's severity from the commits since its last
// release. History failures degrade to zero commits for that module only.
func (s *ReleaseService) classify(ctx context.Context, ordered []*domain.Module) {
	for _, m := range ordered {
		commits, err := s.commitsFor(ctx, m)
		if err != nil {
			logger.Warnf(
				"[release] No usable history for %s, assuming no changes: %v",
				m.Name, err,
			)
			m.Severity = domain.SeverityNone
			continue
		}

		m.Severity = domain.Classify(commits)
		logger.Debugf(
			"[release] %s: %d commits since last release, severity %s",
			m.Name, len(commits), m.Severity,
		)
	}
}

// commitsFor fetches the commit subjects for one module since its last
// release, or the full history when the module was never released.
func (s *ReleaseService) commitsFor(ctx context.Context, m *domain.Module) ([]string, error) {
	last, err := s.history.LastReleaseFor(ctx, m)
	if err != nil {
		return nil, err
	}
	return s.history.CommitsSince(ctx, m.Dir, last)
}

// apply persists changed versions and changelogs, records them as one
// batched change, then tags every module's calculated version. Existing
// tags are skipped, so re-running on unchanged state is a no-op.
func (s *ReleaseService) apply(
	ctx context.Context,
	ordered []*domain.Module,
	result *ReleaseResult,
) error {
	now := time.Now()

	var changedDirs []string
	var released []string
	for _, m := range ordered {
		if !m.Changed() {
			continue
		}

		if err := s.writer.PersistVersion(ctx, m.Dir, *m.NewVersion); err != nil {
			return fmt.Errorf("failed to persist version for %s: %w", m.Name, err)
		}
		if err := s.writer.UpdateChangelog(ctx, m.Dir, *m.NewVersion, now); err != nil {
			return fmt.Errorf("failed to update changelog for %s: %w", m.Name, err)
		}

		changedDirs = append(changedDirs, m.Dir)
		released = append(released, fmt.Sprintf("%s %s", m.Name, m.NewVersion))
	}

	var target *domain.ReleasePointer
	if len(changedDirs) > 0 {
		message := "chore(release): " + strings.Join(released, ", ")
		pointer, err := s.publisher.RecordBatchChange(ctx, changedDirs, message)
		if err != nil {
			return fmt.Errorf("failed to record release change: %w", err)
		}
		target = pointer
	}

	for _, m := range ordered {
		if m.NewVersion == nil {
			continue
		}

		tag := m.ReleaseTag(*m.NewVersion)
		exists, err := s.publisher.TagExists(ctx, tag)
		if err != nil {
			return fmt.Errorf("failed to check tag %s: %w", tag, err)
		}
		if exists {
			logger.Debugf("[release] Tag %s already exists, skipping", tag)
			continue
		}

		if createErr := s.publisher.CreateTag(ctx, tag, target); createErr != nil {
			var conflict *domain.PublishConflictError
			if errors.As(createErr, &conflict) {
				logger.Debugf("[release] Tag %s already exists, skipping", tag)
				continue
			}
			return fmt.Errorf("failed to create tag %s: %w", tag, createErr)
		}

		result.Tagged++
		logger.Infof("[release] Tagged %s", tag)
	}

	return nil
}
