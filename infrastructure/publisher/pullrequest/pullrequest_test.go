package pullrequest //nolint:testpackage // tests unexported functions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("should start with tagging active", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := config.PublisherConfig{
			Mode:       config.ModePR,
			Token:      "ghp_secret",
			Owner:      "rios0rios0",
			Repository: "monorepo",
			BaseBranch: "main",
		}

		// when
		pub, err := New("/work/repo", cfg)

		// then
		require.NoError(t, err)
		p, ok := pub.(*Publisher)
		require.True(t, ok)
		assert.Equal(t, "/work/repo", p.root)
		assert.Equal(t, "main", p.base)
		assert.False(t, p.prCreated)
		assert.NotNil(t, p.Publisher)
	})
}

func TestCreateTag(t *testing.T) {
	t.Parallel()

	t.Run("should defer tagging while the release pull request is open", func(t *testing.T) {
		t.Parallel()

		// given
		p := &Publisher{prCreated: true}

		// when
		err := p.CreateTag(context.Background(), "core/v2.0.0", nil)

		// then
		assert.NoError(t, err)
	})
}

func TestReleaseDescription(t *testing.T) {
	t.Parallel()

	t.Run("should list every released module directory", func(t *testing.T) {
		t.Parallel()

		// when
		description := releaseDescription([]string{"core", "services/app"})

		// then
		assert.Contains(t, description, "- `core`\n")
		assert.Contains(t, description, "- `services/app`\n")
		assert.Contains(t, description, "Tags for this release are created on the next run after the merge.")
	})
}
