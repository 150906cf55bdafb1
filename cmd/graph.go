package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/project"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var graphOutput string

//nolint:gochecknoglobals // required by cobra CLI pattern
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the module dependency graph",
	Long: `Read the module manifests and print the dependency graph, either as a
text listing (dependencies before dependents) or in DOT format for
rendering with Graphviz.

The graph is validated the same way a release run validates it, so this
is also the quickest way to locate a dependency cycle.`,
	RunE: runGraph,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	graphCmd.Flags().StringVar(&graphOutput, "output", "tree",
		"Output format: tree or dot")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	definitions, err := project.NewReader(cfg.Root).ListModules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list modules: %w", err)
	}
	if len(definitions) == 0 {
		fmt.Println("No modules found.")
		return nil
	}

	graph, err := domain.BuildGraph(definitions)
	if err != nil {
		return fmt.Errorf("failed to build module graph: %w", err)
	}
	if cycleErr := graph.DetectCycles(); cycleErr != nil {
		return cycleErr
	}
	ordered, err := graph.TopologicalOrder()
	if err != nil {
		return err
	}

	if graphOutput == "dot" {
		fmt.Print(renderDOT(ordered))
		return nil
	}
	fmt.Print(renderTree(ordered))

	return nil
}

// renderTree lists every module with its direct dependencies, dependencies
// first.
func renderTree(ordered []*domain.Module) string {
	var b strings.Builder
	for _, m := range ordered {
		fmt.Fprintf(&b, "%s (%s)\n", m.Name, m.CurrentVersion)
		for i, dep := range m.Dependencies {
			connector := "├─"
			if i == len(m.Dependencies)-1 {
				connector = "└─"
			}
			fmt.Fprintf(&b, "  %s %s\n", connector, dep.Name)
		}
	}
	return b.String()
}

// renderDOT renders the graph in DOT format, one edge per declared
// dependency.
func renderDOT(ordered []*domain.Module) string {
	var b strings.Builder
	b.WriteString("digraph modules {\n")
	for _, m := range ordered {
		fmt.Fprintf(&b, "  %q [label=\"%s\\n%s\"];\n", m.Name, m.Name, m.CurrentVersion)
	}
	for _, m := range ordered {
		for _, dep := range m.Dependencies {
			fmt.Fprintf(&b, "  %q -> %q;\n", m.Name, dep.Name)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
