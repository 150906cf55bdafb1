// Package history reads module release history from the local git clone.
package history

import (
	"context"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/autorelease/domain"
)

// GitProvider implements domain.HistoryProvider on top of a local clone.
type GitProvider struct {
	root string
}

// New creates a history provider reading the repository at root.
func New(root string) domain.HistoryProvider {
	return &GitProvider{root: root}
}

// LastReleaseFor finds the highest release tag in the module's tag namespace
// and resolves it to the commit it marks. Annotated tags are peeled to their
// target commit. A module with no tags has never been released.
func (p *GitProvider) LastReleaseFor(ctx context.Context, module *domain.Module) (*domain.ReleasePointer, error) {
	repo, err := git.PlainOpen(p.root)
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: module.Name, Err: err}
	}

	tags, err := repo.Tags()
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: module.Name, Err: err}
	}

	prefix := module.TagPrefix()
	targets := make(map[string]plumbing.Hash)
	var names []string

	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := ref.Name().Short()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		// "core/v" must not swallow tags of nested namespaces like
		// "core/vendored/v1.0.0", so the remainder has to be a version.
		if !semver.IsValid(normalizeVersion(strings.TrimPrefix(name, prefix))) {
			return nil
		}

		targets[name] = resolveTagTarget(repo, ref)
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: module.Name, Err: err}
	}

	if len(names) == 0 {
		return nil, nil //nolint:nilnil // absence of a release is not an error
	}

	sortTagsDescending(names, prefix)
	latest := names[0]
	logger.Debugf("[history] Last release of %s is %s", module.Name, latest)

	return &domain.ReleasePointer{Tag: latest, Hash: targets[latest].String()}, nil
}

// CommitsSince returns the subject lines of the commits touching dir since
// the given release, oldest first. A nil pointer walks the full history.
func (p *GitProvider) CommitsSince(ctx context.Context, dir string, since *domain.ReleasePointer) ([]string, error) {
	repo, err := git.PlainOpen(p.root)
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: dir, Err: err}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: dir, Err: err}
	}

	released, err := releasedAncestors(ctx, repo, since)
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: dir, Err: err}
	}

	iter, err := repo.Log(&git.LogOptions{
		From:       head.Hash(),
		PathFilter: pathFilterFor(dir),
	})
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: dir, Err: err}
	}

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if released[c.Hash] {
			return nil
		}
		subjects = append(subjects, commitSubject(c.Message))
		return nil
	})
	if err != nil {
		return nil, &domain.HistoryUnavailableError{Module: dir, Err: err}
	}

	reverse(subjects)
	logger.Debugf("[history] Found %d commits touching %s", len(subjects), dir)

	return subjects, nil
}

// releasedAncestors collects every commit reachable from the last release so
// the filtered walk can drop them. Filtering alone is not enough: the release
// commit may never have touched the module directory, in which case the
// path-filtered log would walk straight past it.
func releasedAncestors(
	ctx context.Context,
	repo *git.Repository,
	since *domain.ReleasePointer,
) (map[plumbing.Hash]bool, error) {
	if since == nil {
		return nil, nil
	}

	iter, err := repo.Log(&git.LogOptions{From: plumbing.NewHash(since.Hash)})
	if err != nil {
		return nil, err
	}

	released := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		released[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return released, nil
}

// resolveTagTarget peels an annotated tag to the commit it points at.
func resolveTagTarget(repo *git.Repository, ref *plumbing.Reference) plumbing.Hash {
	tagObj, err := repo.TagObject(ref.Hash())
	if err != nil {
		// Not an annotated tag; the ref points straight at the commit.
		return ref.Hash()
	}
	return tagObj.Target
}

// pathFilterFor matches paths under the module directory. The root module
// (".") owns every path.
func pathFilterFor(dir string) func(string) bool {
	if dir == "." || dir == "" {
		return func(string) bool { return true }
	}

	prefix := dir + "/"
	return func(path string) bool {
		return strings.HasPrefix(path, prefix)
	}
}

func commitSubject(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}

func reverse(items []string) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// --- version sorting ---

func sortTagsDescending(names []string, prefix string) {
	sort.Slice(names, func(i, j int) bool {
		v1 := normalizeVersion(strings.TrimPrefix(names[i], prefix))
		v2 := normalizeVersion(strings.TrimPrefix(names[j], prefix))
		if semver.IsValid(v1) && semver.IsValid(v2) {
			return semver.Compare(v1, v2) > 0
		}
		return names[i] > names[j]
	})
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
