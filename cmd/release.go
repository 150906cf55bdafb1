package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Apply the computed release to the repository",
	Long: `Compute the release plan and apply it: rewrite the version in every
changed module manifest, promote the Unreleased section of each changelog,
record everything as one release commit, and tag every module.

Tags that already exist are skipped, so re-running on unchanged state is
a no-op. How the commit and tags are recorded depends on publisher.mode:
directly in the local clone (git), through the hosting API (github,
gitlab), or as a release pull request with tags deferred until the merge
lands (pr).`,
	RunE: runRelease,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	fmt.Println("🚀 Applying release...")
	fmt.Println()

	result, err := executeRelease(ctx, true)
	if err != nil {
		return err
	}

	fmt.Println()
	if result.Changed == 0 && result.Tagged == 0 {
		fmt.Println("✅ Everything is up to date, nothing to release.")
		return nil
	}

	fmt.Printf("✅ Applied %d version changes, created %d tags\n", result.Changed, result.Tagged)
	return nil
}
