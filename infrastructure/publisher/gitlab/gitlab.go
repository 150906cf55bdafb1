// Package gitlab publishes releases through the GitLab API.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/publisher"
)

const perPage = 100

// Publisher implements domain.Publisher against a GitLab project.
type Publisher struct {
	client *gl.Client
	root   string
	pid    string // project path, "group/project"
	base   string

	tags map[string]bool // remote tags, fetched once per run
}

// New creates a GitLab publisher from the publisher configuration.
func New(root string, cfg config.PublisherConfig) (domain.Publisher, error) {
	client, err := gl.NewClient(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}

	return &Publisher{
		client: client,
		root:   root,
		pid:    cfg.Owner + "/" + cfg.Repository,
		base:   cfg.BaseBranch,
	}, nil
}

// TagExists checks the remote tag list, fetched once and cached for the run.
func (p *Publisher) TagExists(ctx context.Context, tag string) (bool, error) {
	if err := p.loadTags(ctx); err != nil {
		return false, err
	}
	return p.tags[tag], nil
}

// CreateTag creates the tag at the target commit, or at the base branch head
// when the pointer is nil.
func (p *Publisher) CreateTag(ctx context.Context, tag string, target *domain.ReleasePointer) error {
	ref := p.base
	if target != nil && target.Hash != "" {
		ref = target.Hash
	}

	_, _, err := p.client.Tags.CreateTag(p.pid, &gl.CreateTagOptions{
		TagName: gl.Ptr(tag),
		Ref:     gl.Ptr(ref),
	}, gl.WithContext(ctx))
	if isAlreadyExists(err) {
		return &domain.PublishConflictError{Tag: tag}
	}
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}

	if p.tags != nil {
		p.tags[tag] = true
	}
	logger.Debugf("[publisher] Created tag %s at %s", tag, ref)

	return nil
}

// RecordBatchChange commits the local release edits onto the base branch
// through the Commits API.
func (p *Publisher) RecordBatchChange(ctx context.Context, dirs []string, message string) (*domain.ReleasePointer, error) {
	changes, err := publisher.CollectChanges(p.root, dirs)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, errors.New("no changed files to record")
	}

	var actions []*gl.CommitActionOptions
	for _, change := range changes {
		action := gl.FileUpdate
		switch change.ChangeType {
		case "add":
			action = gl.FileCreate
		case "delete":
			action = gl.FileDelete
		}
		filePath := strings.TrimPrefix(change.Path, "/")
		content := change.Content
		actions = append(actions, &gl.CommitActionOptions{
			Action:   &action,
			FilePath: &filePath,
			Content:  &content,
		})
	}

	commit, _, err := p.client.Commits.CreateCommit(p.pid, &gl.CreateCommitOptions{
		Branch:        gl.Ptr(p.base),
		CommitMessage: gl.Ptr(message),
		Actions:       actions,
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create commit: %w", err)
	}

	logger.Infof("[publisher] Recorded release change %s on %s", commit.ID, p.base)
	return &domain.ReleasePointer{Hash: commit.ID}, nil
}

func (p *Publisher) loadTags(ctx context.Context) error {
	if p.tags != nil {
		return nil
	}

	tags := make(map[string]bool)
	opts := &gl.ListTagsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}
	for {
		list, resp, err := p.client.Tags.ListTags(p.pid, opts, gl.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		for _, t := range list {
			tags[t.Name] = true
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	p.tags = tags
	return nil
}

// isAlreadyExists matches the 400 GitLab returns for a tag that is already
// present.
func isAlreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}
