// Package pullrequest publishes releases as a pull request against the base
// branch instead of committing to it directly.
package pullrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/publisher"
	"github.com/rios0rios0/autorelease/infrastructure/publisher/github"
)

const branchPrefix = "autorelease/"

// Publisher records the batched release change as a pull request. Tagging is
// deferred while the pull request is open: the bumped manifests are not on
// the base branch yet, so the next run after the merge creates the tags.
type Publisher struct {
	*github.Publisher

	root      string
	base      string
	prCreated bool
}

// New creates a pull-request publisher from the publisher configuration.
func New(root string, cfg config.PublisherConfig) (domain.Publisher, error) {
	return &Publisher{
		Publisher: github.NewPublisher(root, cfg),
		root:      root,
		base:      cfg.BaseBranch,
	}, nil
}

// RecordBatchChange commits the local release edits onto a release branch and
// opens a pull request for it. A release pull request already open for the
// same branch is reused, so re-running before the merge is a no-op.
func (p *Publisher) RecordBatchChange(ctx context.Context, dirs []string, message string) (*domain.ReleasePointer, error) {
	branch := branchPrefix + time.Now().Format("2006-01-02")

	existing, err := p.FindOpenPullRequest(ctx, branch)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Infof(
			"[publisher] Release pull request #%d is already open: %s",
			existing.ID, existing.URL,
		)
		p.prCreated = true
		return &domain.ReleasePointer{}, nil
	}

	changes, err := publisher.CollectChanges(p.root, dirs)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errors.New("no changed files to record")
	}

	commit, err := p.CommitChanges(ctx, p.base, changes, message)
	if err != nil {
		return nil, err
	}
	if err = p.CreateBranch(ctx, branch, commit.GetSHA()); err != nil {
		return nil, err
	}

	pr, err := p.OpenPullRequest(ctx, publisher.PullRequestInput{
		SourceBranch: branch,
		TargetBranch: p.base,
		Title:        message,
		Description:  releaseDescription(dirs),
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[publisher] Opened release pull request #%d: %s", pr.ID, pr.URL)
	p.prCreated = true

	return &domain.ReleasePointer{Hash: commit.GetSHA()}, nil
}

// CreateTag defers tagging while the release pull request from this run is
// open, and otherwise tags through the regular GitHub flow.
func (p *Publisher) CreateTag(ctx context.Context, tag string, target *domain.ReleasePointer) error {
	if p.prCreated {
		logger.Debugf("[publisher] Deferring tag %s until the release pull request merges", tag)
		return nil
	}
	return p.Publisher.CreateTag(ctx, tag, target)
}

func releaseDescription(dirs []string) string {
	var b strings.Builder
	b.WriteString("Automated release of the modules below.\n\nUpdated modules:\n")
	for _, dir := range dirs {
		fmt.Fprintf(&b, "- `%s`\n", dir)
	}
	b.WriteString("\nTags for this release are created on the next run after the merge.\n")
	return b.String()
}
