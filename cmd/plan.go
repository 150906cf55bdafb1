package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/autorelease/domain"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	outputFormat string
	moduleFilter string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the next version of every module without changing anything",
	Long: `Compute the release plan: read the module manifests, classify the commits
since each module's last release tag, propagate breaking changes through
the dependency graph, and report the resulting versions.

Nothing is written. This is the dry-run counterpart of 'release'.`,
	RunE: runPlan,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	planCmd.Flags().StringVar(&outputFormat, "output", "table",
		"Output format: table, json, or markdown")
	planCmd.Flags().StringVar(&moduleFilter, "modules", "",
		"Only report these modules, comma-separated (the plan is still computed for all)")
	rootCmd.AddCommand(planCmd)
}

// planRow is one module of the release plan, shaped for reporting.
type planRow struct {
	Module   string `json:"module"`
	Current  string `json:"current"`
	Next     string `json:"next"`
	Severity string `json:"severity"`
	Changed  bool   `json:"changed"`
}

func runPlan(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if outputFormat == "table" {
		fmt.Println("🔍 Computing release plan...")
		fmt.Println()
	}

	result, err := executeRelease(ctx, false)
	if err != nil {
		return err
	}

	rows := buildRows(result.Modules, moduleFilter)
	if len(rows) == 0 {
		fmt.Println("No modules found.")
		return nil
	}

	switch outputFormat {
	case "json":
		return printJSON(rows)
	case "markdown":
		printMarkdown(rows)
	default:
		printTable(rows)
	}

	return nil
}

// buildRows shapes the calculated modules for reporting. The filter narrows
// the report only: the plan itself is always computed over the whole graph
// so propagation stays correct.
func buildRows(modules []*domain.Module, filter string) []planRow {
	wanted := make(map[string]bool)
	for _, name := range strings.Split(filter, ",") {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = true
		}
	}

	var rows []planRow
	for _, m := range modules {
		if len(wanted) > 0 && !wanted[m.Name] {
			continue
		}

		next := m.CurrentVersion
		if m.NewVersion != nil {
			next = *m.NewVersion
		}

		rows = append(rows, planRow{
			Module:   m.Name,
			Current:  m.CurrentVersion.String(),
			Next:     next.String(),
			Severity: m.Severity.String(),
			Changed:  m.Changed(),
		})
	}

	return rows
}

func printTable(rows []planRow) {
	moduleW := len("Module")
	currentW := len("Current")
	nextW := len("Next")
	severityW := len("Severity")

	for _, r := range rows {
		if len(r.Module) > moduleW {
			moduleW = len(r.Module)
		}
		if len(r.Current) > currentW {
			currentW = len(r.Current)
		}
		if len(r.Next) > nextW {
			nextW = len(r.Next)
		}
		if len(r.Severity) > severityW {
			severityW = len(r.Severity)
		}
	}

	if moduleW > 40 {
		moduleW = 40
	}

	fmt.Printf("%-*s  %-*s  %-*s  %-*s  %s\n",
		moduleW, "Module",
		currentW, "Current",
		nextW, "Next",
		severityW, "Severity",
		"Status")

	fmt.Println(strings.Repeat("-", moduleW+currentW+nextW+severityW+len("Status")+8))

	for _, r := range rows {
		fmt.Printf("%-*s  %-*s  %-*s  %-*s  %s\n",
			moduleW, truncate(r.Module, moduleW),
			currentW, r.Current,
			nextW, r.Next,
			severityW, r.Severity,
			rowStatus(r))
	}

	changed := 0
	for _, r := range rows {
		if r.Changed {
			changed++
		}
	}

	fmt.Println()
	fmt.Printf("Total: %d modules, %d to release\n", len(rows), changed)
}

func printMarkdown(rows []planRow) {
	fmt.Println("| Module | Current | Next | Severity | Status |")
	fmt.Println("|--------|---------|------|----------|--------|")

	for _, r := range rows {
		fmt.Printf("| %s | %s | %s | %s | %s |\n",
			r.Module, r.Current, r.Next, r.Severity, rowStatus(r))
	}
}

func printJSON(rows []planRow) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render plan as json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func rowStatus(r planRow) string {
	if !r.Changed {
		return "✅ Up to date"
	}

	switch r.Severity {
	case "major":
		return "🔴 Major bump"
	case "patch":
		return "🟢 Patch bump"
	default:
		// Minor covers both own features and bumps forced by a dependency.
		return "🟡 Minor bump"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
