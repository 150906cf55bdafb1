package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/project"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should register every built-in manifest format", func(t *testing.T) {
		t.Parallel()

		// given
		registry := project.DefaultRegistry()

		// when
		filenames := registry.Filenames()

		// then
		assert.Equal(t, []string{"module.hcl", "module.toml", "module.yaml"}, filenames)
	})

	t.Run("should return nil for unknown filenames", func(t *testing.T) {
		t.Parallel()

		// given
		registry := project.DefaultRegistry()

		// when
		format := registry.Get("Makefile")

		// then
		assert.Nil(t, format)
	})
}

func TestYAMLFormat(t *testing.T) {
	t.Parallel()

	t.Run("should parse name, version, and dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("name: \":core\"\nversion: \"1.4.9\"\ndependencies:\n  - \":lib\"\n  - \":util\"\n")

		// when
		def, err := project.NewYAMLFormat().Parse(manifest)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":core", def.Name)
		assert.Equal(t, "1.4.9", def.Version)
		assert.Equal(t, []string{":lib", ":util"}, def.Dependencies)
	})

	t.Run("should fail on malformed content", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("{{{{not yaml")

		// when
		_, err := project.NewYAMLFormat().Parse(manifest)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "module.yaml")
	})

	t.Run("should rewrite only the version value", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("# managed module\nname: \":core\"\nversion: \"1.4.9\" # current release\ndependencies:\n  - \":lib\"\n")

		// when
		updated, err := project.NewYAMLFormat().SetVersion(manifest, domain.Version{Major: 2})

		// then
		require.NoError(t, err)
		assert.Equal(t,
			"# managed module\nname: \":core\"\nversion: \"2.0.0\" # current release\ndependencies:\n  - \":lib\"\n",
			string(updated))
	})

	t.Run("should rewrite unquoted version values", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("name: \":app\"\nversion: 2.1.3\n")

		// when
		updated, err := project.NewYAMLFormat().SetVersion(manifest, domain.Version{Major: 2, Minor: 2})

		// then
		require.NoError(t, err)
		assert.Equal(t, "name: \":app\"\nversion: 2.2.0\n", string(updated))
	})

	t.Run("should fail when no version entry exists", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("name: \":core\"\n")

		// when
		_, err := project.NewYAMLFormat().SetVersion(manifest, domain.Version{Major: 1})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no version entry found")
	})
}

func TestTOMLFormat(t *testing.T) {
	t.Parallel()

	t.Run("should parse name, version, and dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("name = \":app\"\nversion = \"2.1.3\"\ndependencies = [\":core\"]\n")

		// when
		def, err := project.NewTOMLFormat().Parse(manifest)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":app", def.Name)
		assert.Equal(t, "2.1.3", def.Version)
		assert.Equal(t, []string{":core"}, def.Dependencies)
	})

	t.Run("should fail on malformed content", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("version = unquoted")

		// when
		_, err := project.NewTOMLFormat().Parse(manifest)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "module.toml")
	})

	t.Run("should rewrite only the version value", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("# release metadata\nname = \":app\"\nversion = \"2.1.3\"  # pinned\ndependencies = [\":core\"]\n")

		// when
		updated, err := project.NewTOMLFormat().SetVersion(manifest, domain.Version{Major: 2, Minor: 2})

		// then
		require.NoError(t, err)
		assert.Equal(t,
			"# release metadata\nname = \":app\"\nversion = \"2.2.0\"  # pinned\ndependencies = [\":core\"]\n",
			string(updated))
	})

	t.Run("should fail when no version entry exists", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("name = \":app\"\n")

		// when
		_, err := project.NewTOMLFormat().SetVersion(manifest, domain.Version{Major: 1})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no version entry found")
	})
}

func TestHCLFormat(t *testing.T) {
	t.Parallel()

	t.Run("should parse a module block", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("module {\n  name    = \":core\"\n  version = \"1.4.9\"\n\n  dependencies = [\":lib\", \":util\"]\n}\n")

		// when
		def, err := project.NewHCLFormat().Parse(manifest)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":core", def.Name)
		assert.Equal(t, "1.4.9", def.Version)
		assert.Equal(t, []string{":lib", ":util"}, def.Dependencies)
	})

	t.Run("should parse a module block without dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("module {\n  name    = \":lib\"\n  version = \"0.0.7\"\n}\n")

		// when
		def, err := project.NewHCLFormat().Parse(manifest)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":lib", def.Name)
		assert.Equal(t, "0.0.7", def.Version)
		assert.Empty(t, def.Dependencies)
	})

	t.Run("should fall back to regex parsing when HCL parsing fails", func(t *testing.T) {
		t.Parallel()

		// given: the closing brace is missing, which the HCL parser rejects
		manifest := []byte("module {\n  name    = \":broken\"\n  version = \"0.1.0\"\n  dependencies = [\":dep\"]\n")

		// when
		def, err := project.NewHCLFormat().Parse(manifest)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":broken", def.Name)
		assert.Equal(t, "0.1.0", def.Version)
		assert.Equal(t, []string{":dep"}, def.Dependencies)
	})

	t.Run("should fail when no module block exists", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("locals {\n  owner = \"platform\"\n}\n")

		// when
		_, err := project.NewHCLFormat().Parse(manifest)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no module block found")
	})

	t.Run("should rewrite only the version value", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("module {\n  name    = \":app\" # service\n  version = \"2.1.3\"\n}\n")

		// when
		updated, err := project.NewHCLFormat().SetVersion(manifest, domain.Version{Major: 2, Minor: 2})

		// then
		require.NoError(t, err)
		assert.Equal(t, "module {\n  name    = \":app\" # service\n  version = \"2.2.0\"\n}\n", string(updated))
	})

	t.Run("should fail when no version attribute exists", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte("module {\n  name = \":app\"\n}\n")

		// when
		_, err := project.NewHCLFormat().SetVersion(manifest, domain.Version{Major: 1})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no version attribute found")
	})
}
