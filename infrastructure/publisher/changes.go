package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// CollectChanges gathers the uncommitted edits under the given module
// directories, content included, for publishers that record the release
// batch through a remote API instead of the local worktree.
func CollectChanges(root string, dirs []string) ([]FileChange, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", root, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}

	var changes []FileChange
	for path, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		if !underAny(path, dirs) {
			continue
		}

		data, readErr := os.ReadFile(filepath.Join(root, path))
		if readErr != nil {
			if os.IsNotExist(readErr) {
				// Deletions are never part of a release batch.
				continue
			}
			return nil, fmt.Errorf("failed to read changed file %s: %w", path, readErr)
		}

		changeType := "edit"
		if st.Worktree == git.Untracked {
			changeType = "add"
		}

		changes = append(changes, FileChange{
			Path:       path,
			Content:    string(data),
			ChangeType: changeType,
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// underAny reports whether path belongs to one of the module directories.
// The root module (".") owns every path.
func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if dir == "." || dir == "" {
			return true
		}
		if strings.HasPrefix(path, dir+"/") {
			return true
		}
	}
	return false
}
