// Package github publishes releases through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/publisher"
)

const (
	perPage  = 100
	blobMode = "100644"
	blobType = "blob"
)

// Publisher implements domain.Publisher against a GitHub repository.
type Publisher struct {
	client *gh.Client
	root   string
	owner  string
	repo   string
	base   string

	tags map[string]bool // remote tags, fetched once per run
}

// New creates a GitHub publisher from the publisher configuration.
func New(root string, cfg config.PublisherConfig) (domain.Publisher, error) {
	return NewPublisher(root, cfg), nil
}

// NewPublisher creates the concrete GitHub publisher. The pull-request mode
// embeds it for its tag and commit plumbing.
func NewPublisher(root string, cfg config.PublisherConfig) *Publisher {
	return &Publisher{
		client: gh.NewClient(nil).WithAuthToken(cfg.Token),
		root:   root,
		owner:  cfg.Owner,
		repo:   cfg.Repository,
		base:   cfg.BaseBranch,
	}
}

// TagExists checks the remote tag list, fetched once and cached for the run.
func (p *Publisher) TagExists(ctx context.Context, tag string) (bool, error) {
	if err := p.loadTags(ctx); err != nil {
		return false, err
	}
	return p.tags[tag], nil
}

// CreateTag creates a lightweight tag ref pointing at the target commit, or
// at the base branch head when the pointer is nil.
func (p *Publisher) CreateTag(ctx context.Context, tag string, target *domain.ReleasePointer) error {
	sha, err := p.targetSHA(ctx, target)
	if err != nil {
		return err
	}

	refName := "refs/tags/" + tag
	_, _, err = p.client.Git.CreateRef(ctx, p.owner, p.repo, &gh.Reference{
		Ref:    &refName,
		Object: &gh.GitObject{SHA: &sha},
	})
	if isAlreadyExists(err) {
		return &domain.PublishConflictError{Tag: tag}
	}
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}

	if p.tags != nil {
		p.tags[tag] = true
	}
	logger.Debugf("[publisher] Created tag %s at %s", tag, sha)

	return nil
}

// RecordBatchChange commits the local release edits onto the base branch
// through the Git Data API.
func (p *Publisher) RecordBatchChange(ctx context.Context, dirs []string, message string) (*domain.ReleasePointer, error) {
	changes, err := publisher.CollectChanges(p.root, dirs)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errors.New("no changed files to record")
	}

	newCommit, err := p.CommitChanges(ctx, p.base, changes, message)
	if err != nil {
		return nil, err
	}

	refName := "refs/heads/" + p.base
	_, _, err = p.client.Git.UpdateRef(ctx, p.owner, p.repo, &gh.Reference{
		Ref:    &refName,
		Object: &gh.GitObject{SHA: newCommit.SHA},
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to update branch %s: %w", p.base, err)
	}

	logger.Infof("[publisher] Recorded release change %s on %s", newCommit.GetSHA(), p.base)
	return &domain.ReleasePointer{Hash: newCommit.GetSHA()}, nil
}

// CommitChanges builds one commit carrying the given changes on top of the
// branch head and returns it. The branch ref itself is not moved.
func (p *Publisher) CommitChanges(
	ctx context.Context,
	branch string,
	changes []publisher.FileChange,
	message string,
) (*gh.Commit, error) {
	baseRef, _, err := p.client.Git.GetRef(ctx, p.owner, p.repo, "refs/heads/"+branch)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch ref %s: %w", branch, err)
	}
	baseSHA := baseRef.Object.GetSHA()

	baseCommit, _, err := p.client.Git.GetCommit(ctx, p.owner, p.repo, baseSHA)
	if err != nil {
		return nil, fmt.Errorf("failed to get base commit: %w", err)
	}

	var entries []*gh.TreeEntry
	for _, change := range changes {
		content := change.Content
		path := strings.TrimPrefix(change.Path, "/")
		mode := blobMode
		entryType := blobType
		entries = append(entries, &gh.TreeEntry{
			Path:    &path,
			Mode:    &mode,
			Type:    &entryType,
			Content: &content,
		})
	}

	newTree, _, err := p.client.Git.CreateTree(ctx, p.owner, p.repo, baseCommit.Tree.GetSHA(), entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	newCommit, _, err := p.client.Git.CreateCommit(ctx, p.owner, p.repo, &gh.Commit{
		Message: &message,
		Tree:    newTree,
		Parents: []*gh.Commit{{SHA: &baseSHA}},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create commit: %w", err)
	}

	return newCommit, nil
}

// CreateBranch creates a branch ref at the given commit SHA.
func (p *Publisher) CreateBranch(ctx context.Context, branch, sha string) error {
	refName := "refs/heads/" + branch
	_, _, err := p.client.Git.CreateRef(ctx, p.owner, p.repo, &gh.Reference{
		Ref:    &refName,
		Object: &gh.GitObject{SHA: &sha},
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

// OpenPullRequest opens a pull request and returns its identifying data.
func (p *Publisher) OpenPullRequest(
	ctx context.Context,
	input publisher.PullRequestInput,
) (*publisher.PullRequest, error) {
	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(ctx, p.owner, p.repo, &gh.NewPullRequest{
		Title:               &input.Title,
		Head:                &input.SourceBranch,
		Base:                &input.TargetBranch,
		Body:                &input.Description,
		MaintainerCanModify: &maintainerCanModify,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &publisher.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

// FindOpenPullRequest returns the open pull request from the given source
// branch, or nil when none exists.
func (p *Publisher) FindOpenPullRequest(
	ctx context.Context,
	sourceBranch string,
) (*publisher.PullRequest, error) {
	prs, _, err := p.client.PullRequests.List(ctx, p.owner, p.repo, &gh.PullRequestListOptions{
		Head:  p.owner + ":" + sourceBranch,
		State: "open",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil //nolint:nilnil // absence of a pull request is not an error
	}

	pr := prs[0]
	return &publisher.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

func (p *Publisher) loadTags(ctx context.Context) error {
	if p.tags != nil {
		return nil
	}

	tags := make(map[string]bool)
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		list, resp, err := p.client.Repositories.ListTags(ctx, p.owner, p.repo, opts)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		for _, t := range list {
			tags[t.GetName()] = true
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	p.tags = tags
	return nil
}

func (p *Publisher) targetSHA(ctx context.Context, target *domain.ReleasePointer) (string, error) {
	if target != nil && target.Hash != "" {
		return target.Hash, nil
	}

	ref, _, err := p.client.Git.GetRef(ctx, p.owner, p.repo, "refs/heads/"+p.base)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch %s: %w", p.base, err)
	}
	return ref.Object.GetSHA(), nil
}

// isAlreadyExists matches the 422 GitHub returns for a ref that is already
// present.
func isAlreadyExists(err error) bool {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}
	return ghErr.Response.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(ghErr.Message), "already exists")
}
