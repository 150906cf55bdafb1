package domain

import "context"

// ProjectReader discovers the modules managed in a project tree.
type ProjectReader interface {
	// ListModules returns every managed module with its declared dependency
	// names, current version string, and manifest directory. Modules not
	// returned are not managed.
	ListModules(ctx context.Context) ([]ModuleDefinition, error)
}
