package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/domain"
)

const changelogFilename = "CHANGELOG.md"

// Writer rewrites module manifests and changelogs in place.
type Writer struct {
	root    string
	formats *Registry
}

// NewWriter creates a writer rooted at the given directory, using the
// built-in manifest formats.
func NewWriter(root string) *Writer {
	return &Writer{
		root:    root,
		formats: DefaultRegistry(),
	}
}

// PersistVersion rewrites the version line of the manifest in dir. Only the
// version value changes; every other byte of the manifest survives.
func (w *Writer) PersistVersion(_ context.Context, dir string, version domain.Version) error {
	for _, filename := range w.formats.Filenames() {
		path := filepath.Join(w.root, dir, filename)

		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read manifest %s: %w", path, err)
		}

		updated, err := w.formats.Get(filename).SetVersion(data, version)
		if err != nil {
			return fmt.Errorf("failed to update manifest %s: %w", path, err)
		}

		if err := overwriteFile(path, updated); err != nil {
			return err
		}

		logger.Debugf("[project] Persisted version %s in %s", version, path)
		return nil
	}

	return fmt.Errorf("no module manifest found in %s", filepath.Join(w.root, dir))
}

// UpdateChangelog promotes the Unreleased section of the module changelog to
// the released version. Modules without a CHANGELOG.md are skipped; an empty
// Unreleased section gets a dependency-bump entry first so the release still
// leaves a trace.
func (w *Writer) UpdateChangelog(_ context.Context, dir string, version domain.Version, date time.Time) error {
	path := filepath.Join(w.root, dir, changelogFilename)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debugf("[project] No changelog at %s, skipping", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read changelog %s: %w", path, err)
	}

	content := string(data)
	if !domain.HasUnreleasedContent(content) {
		entry := fmt.Sprintf("Bumped the module version to `%s` to release updated dependencies", version)
		content = domain.InsertUnreleasedEntries(content, "Changed", []string{entry})
	}

	promoted, ok := domain.PromoteUnreleased(content, version, date)
	if !ok {
		logger.Warnf("[project] Changelog %s has no Unreleased section, skipping", path)
		return nil
	}

	if err := overwriteFile(path, []byte(promoted)); err != nil {
		return err
	}

	logger.Debugf("[project] Promoted changelog %s to %s", path, version)
	return nil
}

// overwriteFile rewrites path preserving its current permission bits.
func overwriteFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, info.Mode()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
