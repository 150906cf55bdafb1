package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autorelease/domain"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ModuleDefinitionBuilder helps create test module definitions with a fluent
// interface.
type ModuleDefinitionBuilder struct {
	*testkit.BaseBuilder
	name         string
	version      string
	dependencies []string
	dir          string
}

// NewModuleDefinitionBuilder creates a new builder with sensible defaults.
func NewModuleDefinitionBuilder() *ModuleDefinitionBuilder {
	return &ModuleDefinitionBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		name:         ":core",
		version:      "1.0.0",
		dependencies: nil,
		dir:          "core",
	}
}

// WithName sets the module name.
func (b *ModuleDefinitionBuilder) WithName(name string) *ModuleDefinitionBuilder {
	b.name = name
	return b
}

// WithVersion sets the current version string.
func (b *ModuleDefinitionBuilder) WithVersion(version string) *ModuleDefinitionBuilder {
	b.version = version
	return b
}

// WithDependencies sets the declared dependency names.
func (b *ModuleDefinitionBuilder) WithDependencies(names ...string) *ModuleDefinitionBuilder {
	b.dependencies = names
	return b
}

// WithDir sets the manifest directory.
func (b *ModuleDefinitionBuilder) WithDir(dir string) *ModuleDefinitionBuilder {
	b.dir = dir
	return b
}

// Build creates the definition (satisfies testkit.Builder interface).
func (b *ModuleDefinitionBuilder) Build() interface{} {
	return b.BuildDefinition()
}

// BuildDefinition creates the definition with a concrete return type.
func (b *ModuleDefinitionBuilder) BuildDefinition() domain.ModuleDefinition {
	return domain.ModuleDefinition{
		Name:         b.name,
		Version:      b.version,
		Dependencies: b.dependencies,
		Dir:          b.dir,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ModuleDefinitionBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = ":core"
	b.version = "1.0.0"
	b.dependencies = nil
	b.dir = "core"
	return b
}

// Clone creates a deep copy of the ModuleDefinitionBuilder.
func (b *ModuleDefinitionBuilder) Clone() testkit.Builder {
	dependencies := make([]string, len(b.dependencies))
	copy(dependencies, b.dependencies)

	return &ModuleDefinitionBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:         b.name,
		version:      b.version,
		dependencies: dependencies,
		dir:          b.dir,
	}
}
