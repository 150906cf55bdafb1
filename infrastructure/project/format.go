// Package project reads and writes the per-module manifests of a monorepo.
// Every managed module carries one manifest (module.yaml, module.toml, or
// module.hcl) declaring its name, current version, and internal dependencies.
package project

import (
	"regexp"
	"sort"

	"github.com/rios0rios0/autorelease/domain"
)

// Format parses and rewrites one module manifest dialect.
type Format interface {
	// Filename returns the manifest file name this format owns,
	// e.g. "module.yaml".
	Filename() string

	// Parse extracts the module definition from manifest content.
	Parse(data []byte) (domain.ModuleDefinition, error)

	// SetVersion rewrites the manifest's version value in place, leaving
	// every other byte (comments, ordering, spacing) untouched.
	SetVersion(data []byte, version domain.Version) ([]byte, error)
}

// Registry manages all registered manifest format implementations.
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format under its manifest filename.
func (r *Registry) Register(f Format) {
	r.formats[f.Filename()] = f
}

// Get returns the format owning the given manifest filename, or nil if no
// format is registered for it.
func (r *Registry) Get(filename string) Format {
	return r.formats[filename]
}

// Filenames returns the sorted list of registered manifest filenames.
func (r *Registry) Filenames() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with every built-in format registered.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewYAMLFormat())
	reg.Register(NewTOMLFormat())
	reg.Register(NewHCLFormat())
	return reg
}

// replaceVersionValue swaps the version value matched by pattern for the new
// version, touching no other byte of the manifest. The pattern must capture
// the text before the value as group 1 and the text after it as group 2.
// It reports false when the pattern does not match.
func replaceVersionValue(pattern *regexp.Regexp, data []byte, version domain.Version) ([]byte, bool) {
	idx := pattern.FindSubmatchIndex(data)
	if idx == nil {
		return nil, false
	}

	updated := make([]byte, 0, len(data)+len(version.String()))
	updated = append(updated, data[:idx[3]]...)
	updated = append(updated, version.String()...)
	updated = append(updated, data[idx[4]:]...)
	return updated, true
}
