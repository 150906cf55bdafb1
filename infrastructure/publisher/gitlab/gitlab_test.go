package gitlab //nolint:testpackage // tests unexported functions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("should wire the project path from owner and repository", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := config.PublisherConfig{
			Mode:       config.ModeGitLab,
			Token:      "glpat-secret",
			Owner:      "group",
			Repository: "project",
			BaseBranch: "main",
		}

		// when
		pub, err := New("/work/repo", cfg)

		// then
		require.NoError(t, err)
		p, ok := pub.(*Publisher)
		require.True(t, ok)
		assert.Equal(t, "group/project", p.pid)
		assert.Equal(t, "/work/repo", p.root)
		assert.Equal(t, "main", p.base)
		assert.NotNil(t, p.client)
	})
}

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "should match the duplicate tag message",
			err:      errors.New("POST https://gitlab.com/api/v4: 400 {message: Tag core/v2.0.0 already exists}"),
			expected: true,
		},
		{
			name:     "should match regardless of casing",
			err:      errors.New("Tag Already Exists"),
			expected: true,
		},
		{
			name:     "should not match other API failures",
			err:      errors.New("401 Unauthorized"),
			expected: false,
		},
		{
			name:     "should not match a nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, isAlreadyExists(tt.err))
		})
	}
}
