package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/domain"
)

const sampleChangelog = `# Changelog

All notable changes to this project will be documented in this file.

## [Unreleased]

### Added

- Support for nested module manifests.

## [1.0.0] - 2024-05-10

### Added

- Initial release.
`

func TestPromoteUnreleased(t *testing.T) {
	t.Parallel()

	t.Run("should promote the unreleased section with the release date", func(t *testing.T) {
		t.Parallel()

		// given
		version := domain.Version{Major: 1, Minor: 2, Patch: 3}
		date := time.Date(2026, time.August, 21, 10, 0, 0, 0, time.UTC)

		// when
		promoted, ok := domain.PromoteUnreleased(sampleChangelog, version, date)

		// then
		require.True(t, ok)
		assert.Contains(t, promoted, "## [1.2.3] - 2026-08-21")
		assert.Contains(t, promoted, "- Support for nested module manifests.")
	})

	t.Run("should leave a fresh unreleased heading above the new release", func(t *testing.T) {
		t.Parallel()

		// given
		version := domain.Version{Major: 1, Minor: 2, Patch: 3}
		date := time.Date(2026, time.August, 21, 10, 0, 0, 0, time.UTC)

		// when
		promoted, ok := domain.PromoteUnreleased(sampleChangelog, version, date)

		// then
		require.True(t, ok)
		unreleasedIdx := strings.Index(promoted, "## [Unreleased]")
		releaseIdx := strings.Index(promoted, "## [1.2.3] - 2026-08-21")
		require.GreaterOrEqual(t, unreleasedIdx, 0)
		require.GreaterOrEqual(t, releaseIdx, 0)
		assert.Less(t, unreleasedIdx, releaseIdx)
		assert.Equal(t, 1, strings.Count(promoted, "## [Unreleased]"))
	})

	t.Run("should keep previous releases intact", func(t *testing.T) {
		t.Parallel()

		// given
		version := domain.Version{Major: 1, Minor: 1, Patch: 0}
		date := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

		// when
		promoted, ok := domain.PromoteUnreleased(sampleChangelog, version, date)

		// then
		require.True(t, ok)
		assert.Contains(t, promoted, "## [1.0.0] - 2024-05-10")
		assert.Contains(t, promoted, "- Initial release.")
	})

	t.Run("should keep content without an unreleased heading untouched", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [1.0.0] - 2024-05-10\n\n- Initial release.\n"
		version := domain.Version{Major: 2, Minor: 0, Patch: 0}

		// when
		promoted, ok := domain.PromoteUnreleased(content, version, time.Now())

		// then
		assert.False(t, ok)
		assert.Equal(t, content, promoted)
	})
}

func TestHasUnreleasedContent(t *testing.T) {
	t.Parallel()

	t.Run("should detect bullet entries under the unreleased heading", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasUnreleasedContent(sampleChangelog))
	})

	t.Run("should report an empty unreleased section", func(t *testing.T) {
		t.Parallel()

		// given: bullets exist, but only under a released section
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2024-05-10\n\n### Added\n\n- Initial release.\n"

		// then
		assert.False(t, domain.HasUnreleasedContent(content))
	})

	t.Run("should report a document without an unreleased heading", func(t *testing.T) {
		t.Parallel()
		assert.False(t, domain.HasUnreleasedContent("# Changelog\n\n## [1.0.0] - 2024-05-10\n"))
	})
}

func TestInsertUnreleasedEntries(t *testing.T) {
	t.Parallel()

	t.Run("should create the subsection right below the unreleased heading", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2024-05-10\n\n### Added\n\n- Initial release.\n"

		// when
		updated := domain.InsertUnreleasedEntries(content, "Changed", []string{"Update internal dependency versions."})

		// then
		assert.Contains(t, updated, "### Changed")
		assert.Contains(t, updated, "- Update internal dependency versions.")
		sectionIdx := strings.Index(updated, "### Changed")
		releaseIdx := strings.Index(updated, "## [1.0.0]")
		assert.Less(t, sectionIdx, releaseIdx)
	})

	t.Run("should append after the last bullet of an existing subsection", func(t *testing.T) {
		t.Parallel()

		// given
		content := "## [Unreleased]\n\n### Changed\n\n- First entry.\n\n## [1.0.0] - 2024-05-10\n"

		// when
		updated := domain.InsertUnreleasedEntries(content, "Changed", []string{"Second entry."})

		// then
		firstIdx := strings.Index(updated, "- First entry.")
		secondIdx := strings.Index(updated, "- Second entry.")
		require.GreaterOrEqual(t, firstIdx, 0)
		require.GreaterOrEqual(t, secondIdx, 0)
		assert.Less(t, firstIdx, secondIdx)
		assert.Equal(t, 1, strings.Count(updated, "### Changed"))
	})

	t.Run("should not duplicate the bullet prefix", func(t *testing.T) {
		t.Parallel()

		// given
		content := "## [Unreleased]\n"

		// when
		updated := domain.InsertUnreleasedEntries(content, "Fixed", []string{"- Already a bullet."})

		// then
		assert.Contains(t, updated, "- Already a bullet.")
		assert.NotContains(t, updated, "- - Already a bullet.")
	})

	t.Run("should keep content without an unreleased heading untouched", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [1.0.0] - 2024-05-10\n"

		// when
		updated := domain.InsertUnreleasedEntries(content, "Changed", []string{"Anything."})

		// then
		assert.Equal(t, content, updated)
	})

	t.Run("should keep content untouched when there are no entries", func(t *testing.T) {
		t.Parallel()

		// when
		updated := domain.InsertUnreleasedEntries(sampleChangelog, "Changed", nil)

		// then
		assert.Equal(t, sampleChangelog, updated)
	})
}
