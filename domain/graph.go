package domain

import "errors"

// Graph owns every module of a run, keyed by unique name, together with the
// dependency edges between them. Modules are also kept in insertion order so
// iteration is deterministic for identical input.
type Graph struct {
	modules map[string]*Module
	order   []*Module
}

// NewGraph returns an empty module graph.
func NewGraph() *Graph {
	return &Graph{modules: make(map[string]*Module)}
}

// BuildGraph constructs a graph from raw module definitions: every module is
// inserted first, then the dependency edges, so declaration order does not
// matter and dangling names resolve consistently.
func BuildGraph(definitions []ModuleDefinition) (*Graph, error) {
	graph := NewGraph()

	for _, def := range definitions {
		if _, err := graph.AddModule(def.Name, def.Version, def.Dir); err != nil {
			return nil, err
		}
	}

	for _, def := range definitions {
		for _, depName := range def.Dependencies {
			graph.AddDependency(def.Name, depName)
		}
	}

	return graph, nil
}

// AddModule inserts a new module with its current version. Reusing a name
// fails with DuplicateModuleError; the version string must parse as
// major.minor.patch.
func (g *Graph) AddModule(name, version, dir string) (*Module, error) {
	if _, exists := g.modules[name]; exists {
		return nil, &DuplicateModuleError{Name: name}
	}

	current, err := ParseVersion(version)
	if err != nil {
		var invalid *InvalidVersionError
		if errors.As(err, &invalid) {
			invalid.Module = name
		}
		return nil, err
	}

	module := &Module{Name: name, Dir: dir, CurrentVersion: current}
	g.modules[name] = module
	g.order = append(g.order, module)
	return module, nil
}

// AddDependency records that fromName depends on toName, keeping the
// dependent list on the target as the mirror of the edge. Names that do not
// resolve to a known module are ignored: declarations may reference modules
// outside the managed set.
func (g *Graph) AddDependency(fromName, toName string) {
	from, ok := g.modules[fromName]
	if !ok {
		return
	}
	to, ok := g.modules[toName]
	if !ok {
		return
	}

	for _, dep := range from.Dependencies {
		if dep == to {
			return
		}
	}

	from.Dependencies = append(from.Dependencies, to)
	to.Dependents = append(to.Dependents, from)
}

// Module returns the module with the given name, or nil when unknown.
func (g *Graph) Module(name string) *Module {
	return g.modules[name]
}

// Modules returns all modules in insertion order.
func (g *Graph) Modules() []*Module {
	out := make([]*Module, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// DetectCycles walks the dependency edges depth-first and reports the first
// cycle found as a CyclicDependencyError. The current path is a single
// shared slice, pushed on entry and popped on the way out. Must run before
// ordering or calculation; graphs are not self-healing.
func (g *Graph) DetectCycles() error {
	visited := make(map[*Module]bool, len(g.order))
	onPath := make(map[*Module]bool, len(g.order))
	path := make([]*Module, 0, len(g.order))

	var walk func(m *Module) *CyclicDependencyError
	walk = func(m *Module) *CyclicDependencyError {
		visited[m] = true
		onPath[m] = true
		path = append(path, m)

		for _, dep := range m.Dependencies {
			if onPath[dep] {
				return cycleFrom(path, dep)
			}
			if visited[dep] {
				continue
			}
			if cycleErr := walk(dep); cycleErr != nil {
				return cycleErr
			}
		}

		path = path[:len(path)-1]
		onPath[m] = false
		return nil
	}

	for _, m := range g.order {
		if visited[m] {
			continue
		}
		if cycleErr := walk(m); cycleErr != nil {
			return cycleErr
		}
	}

	return nil
}

// TopologicalOrder returns the modules arranged so that every module appears
// after all of its dependencies, via post-order depth-first traversal from
// each unvisited root. Ordering a graph that still contains a cycle is
// refused with a CyclicDependencyError.
func (g *Graph) TopologicalOrder() ([]*Module, error) {
	visited := make(map[*Module]bool, len(g.order))
	onPath := make(map[*Module]bool, len(g.order))
	path := make([]*Module, 0, len(g.order))
	ordered := make([]*Module, 0, len(g.order))

	var visit func(m *Module) *CyclicDependencyError
	visit = func(m *Module) *CyclicDependencyError {
		visited[m] = true
		onPath[m] = true
		path = append(path, m)

		for _, dep := range m.Dependencies {
			if onPath[dep] {
				return cycleFrom(path, dep)
			}
			if visited[dep] {
				continue
			}
			if cycleErr := visit(dep); cycleErr != nil {
				return cycleErr
			}
		}

		path = path[:len(path)-1]
		onPath[m] = false
		ordered = append(ordered, m)
		return nil
	}

	for _, m := range g.order {
		if visited[m] {
			continue
		}
		if cycleErr := visit(m); cycleErr != nil {
			return nil, cycleErr
		}
	}

	return ordered, nil
}

// cycleFrom extracts the suffix of path starting at the first occurrence of
// start and closes it with start itself.
func cycleFrom(path []*Module, start *Module) *CyclicDependencyError {
	for i, m := range path {
		if m == start {
			path = path[i:]
			break
		}
	}

	names := make([]string, 0, len(path)+1)
	for _, m := range path {
		names = append(names, m.Name)
	}
	names = append(names, start.Name)

	return &CyclicDependencyError{Cycle: names}
}
