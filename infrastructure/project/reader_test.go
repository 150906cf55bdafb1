package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/project"
)

// --- helpers ---

func writeTreeFile(t *testing.T, root string, parts ...string) {
	t.Helper()

	content := parts[len(parts)-1]
	path := filepath.Join(append([]string{root}, parts[:len(parts)-1]...)...)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func definitionsByName(defs []domain.ModuleDefinition) map[string]domain.ModuleDefinition {
	byName := make(map[string]domain.ModuleDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return byName
}

// --- tests ---

func TestReader_ListModules(t *testing.T) {
	t.Parallel()

	t.Run("should discover manifests of every format with their directories", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "module.yaml", "name: \":root\"\nversion: \"0.1.0\"\n")
		writeTreeFile(t, root, "core", "module.toml", "name = \":core\"\nversion = \"1.4.9\"\n")
		writeTreeFile(t, root, "services", "app", "module.hcl",
			"module {\n  name    = \":app\"\n  version = \"2.1.3\"\n\n  dependencies = [\":core\"]\n}\n")
		writeTreeFile(t, root, "docs", "readme.txt", "not a manifest")

		// when
		defs, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, defs, 3)

		byName := definitionsByName(defs)
		assert.Equal(t, ".", byName[":root"].Dir)
		assert.Equal(t, "0.1.0", byName[":root"].Version)
		assert.Equal(t, "core", byName[":core"].Dir)
		assert.Equal(t, "1.4.9", byName[":core"].Version)
		assert.Equal(t, "services/app", byName[":app"].Dir)
		assert.Equal(t, []string{":core"}, byName[":app"].Dependencies)
	})

	t.Run("should skip the git directory and hidden directories", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "core", "module.yaml", "name: \":core\"\nversion: \"1.0.0\"\n")
		writeTreeFile(t, root, ".git", "module.yaml", "name: \":ghost\"\nversion: \"9.9.9\"\n")
		writeTreeFile(t, root, ".cache", "module.yaml", "name: \":cached\"\nversion: \"9.9.9\"\n")

		// when
		defs, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.Equal(t, ":core", defs[0].Name)
	})

	t.Run("should fail when a manifest is missing the module name", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "broken", "module.yaml", "version: \"1.0.0\"\n")

		// when
		_, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing a module name")
	})

	t.Run("should fail when a manifest is missing the version", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "broken", "module.yaml", "name: \":broken\"\n")

		// when
		_, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing a version")
	})

	t.Run("should fail when a manifest cannot be parsed", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "broken", "module.yaml", "{{{{not yaml")

		// when
		_, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse manifest")
	})

	t.Run("should fail when a directory carries two manifest flavors", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "core", "module.yaml", "name: \":core\"\nversion: \"1.0.0\"\n")
		writeTreeFile(t, root, "core", "module.toml", "name = \":core\"\nversion = \"1.0.0\"\n")

		// when
		_, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple module manifests")
	})

	t.Run("should stop when the context is canceled", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeTreeFile(t, root, "core", "module.yaml", "name: \":core\"\nversion: \"1.0.0\"\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		_, err := project.NewReader(root).ListModules(ctx)

		// then
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should return no definitions for an empty tree", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()

		// when
		defs, err := project.NewReader(root).ListModules(context.Background())

		// then
		require.NoError(t, err)
		assert.Empty(t, defs)
	})
}
