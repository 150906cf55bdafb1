package domain

import "strings"

// Module is an independently versioned unit of the managed project.
// Modules are created once during graph construction and only mutated
// (severity, new version) while the release is calculated.
type Module struct {
	Name           string
	Dir            string // directory of the module manifest, opaque to the core
	CurrentVersion Version
	NewVersion     *Version // nil until calculated
	Severity       Severity

	Dependencies []*Module
	Dependents   []*Module
}

// Changed reports whether the calculated version differs from the current one.
func (m *Module) Changed() bool {
	return m.NewVersion != nil && *m.NewVersion != m.CurrentVersion
}

// TagPrefix returns the tag namespace for this module. Colons are not legal
// in git ref names, so ":core" maps to "core/v" and "group:sub" to
// "group/sub/v".
func (m *Module) TagPrefix() string {
	name := strings.TrimPrefix(m.Name, ":")
	name = strings.ReplaceAll(name, ":", "/")
	return name + "/v"
}

// ReleaseTag returns the tag name marking the given version of this module.
func (m *Module) ReleaseTag(version Version) string {
	return m.TagPrefix() + version.String()
}

// ModuleDefinition is a raw module declaration as produced by a
// ProjectReader, before graph construction resolves dependency names.
type ModuleDefinition struct {
	Name         string
	Version      string
	Dependencies []string
	Dir          string
}

// ReleasePointer identifies a released state of the repository: a tag and
// the commit it resolves to. A nil pointer means "no release yet".
type ReleasePointer struct {
	Tag  string
	Hash string
}
