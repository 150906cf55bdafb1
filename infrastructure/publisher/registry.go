// Package publisher selects and supports the backends that record releases:
// the local clone, the GitHub API, the GitLab API, or a release pull request.
package publisher

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/domain"
)

// Registry manages all registered publisher implementations.
type Registry struct {
	factories map[string]Factory
}

// Factory is a constructor that creates a Publisher for the project at root.
type Factory func(root string, cfg config.PublisherConfig) (domain.Publisher, error)

// NewRegistry creates an empty publisher registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a publisher factory under the given mode (e.g. "git").
func (r *Registry) Register(mode string, factory Factory) {
	r.factories[mode] = factory
}

// Get returns a configured publisher for the mode named in cfg.
func (r *Registry) Get(root string, cfg config.PublisherConfig) (domain.Publisher, error) {
	factory, ok := r.factories[cfg.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown publisher mode: %q", cfg.Mode)
	}
	return factory(root, cfg)
}

// Names returns the sorted list of registered publisher modes.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for mode := range r.factories {
		names = append(names, mode)
	}
	sort.Strings(names)
	return names
}
