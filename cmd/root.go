package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath   string
	rootOverride string
	modeOverride string
	verbose      bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "autorelease",
	Short: "Semantic release engine for monorepo modules",
	Long: `A CLI tool that computes the next semantic version of every module in a
monorepo from the conventional commits since each module's last release,
and propagates breaking changes through the module dependency graph.

Modules declare their name, version, and in-repo dependencies in a
module.yaml, module.toml, or module.hcl manifest. A breaking change in a
dependency raises every transitive dependent to at least a minor bump.

Usage modes:
  autorelease plan     Report the computed versions without changing anything
  autorelease release  Apply the release: manifests, changelogs, commit, tags
  autorelease graph    Inspect the module dependency graph`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVarP(&rootOverride, "root", "r", "",
		"Project root to scan for module manifests (overrides the config file)")
	rootCmd.PersistentFlags().StringVarP(&modeOverride, "mode", "m", "",
		"Publisher mode: git, github, gitlab, or pr (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}
