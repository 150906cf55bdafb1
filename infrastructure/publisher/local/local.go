// Package local publishes releases by committing and tagging the local clone.
package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/domain"
)

const (
	committerName  = "autorelease"
	committerEmail = "autorelease[bot]@users.noreply.github.com"
)

// Publisher implements domain.Publisher against the local clone.
type Publisher struct {
	root   string
	remote string
	token  string
	push   bool
}

// New creates a local git publisher for the clone at root.
func New(root string, cfg config.PublisherConfig) (domain.Publisher, error) {
	return &Publisher{
		root:   root,
		remote: cfg.Remote,
		token:  cfg.Token,
		push:   cfg.Push,
	}, nil
}

func (p *Publisher) TagExists(_ context.Context, tag string) (bool, error) {
	repo, err := git.PlainOpen(p.root)
	if err != nil {
		return false, fmt.Errorf("failed to open repository at %s: %w", p.root, err)
	}

	_, err = repo.Tag(tag)
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up tag %s: %w", tag, err)
	}

	return true, nil
}

// CreateTag creates an annotated tag at the target pointer, or at the current
// head when the pointer is nil.
func (p *Publisher) CreateTag(ctx context.Context, tag string, target *domain.ReleasePointer) error {
	repo, err := git.PlainOpen(p.root)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", p.root, err)
	}

	hash, err := targetHash(repo, target)
	if err != nil {
		return err
	}

	_, err = repo.CreateTag(tag, hash, &git.CreateTagOptions{
		Tagger:  signature(),
		Message: tag,
	})
	if errors.Is(err, git.ErrTagExists) {
		return &domain.PublishConflictError{Tag: tag}
	}
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	logger.Debugf("[publisher] Created tag %s at %s", tag, hash)

	if p.push {
		return p.pushRefSpec(ctx, repo, "refs/tags/"+tag+":refs/tags/"+tag)
	}
	return nil
}

// RecordBatchChange stages the changed module directories and commits them as
// one release commit.
func (p *Publisher) RecordBatchChange(ctx context.Context, dirs []string, message string) (*domain.ReleasePointer, error) {
	repo, err := git.PlainOpen(p.root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", p.root, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}

	for _, dir := range dirs {
		if _, addErr := wt.Add(dir); addErr != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", dir, addErr)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: signature()})
	if err != nil {
		return nil, fmt.Errorf("failed to commit release change: %w", err)
	}
	logger.Infof("[publisher] Recorded release change %s", hash)

	if p.push {
		head, headErr := repo.Head()
		if headErr != nil {
			return nil, fmt.Errorf("failed to resolve head: %w", headErr)
		}
		spec := fmt.Sprintf("%s:%s", head.Name(), head.Name())
		if pushErr := p.pushRefSpec(ctx, repo, spec); pushErr != nil {
			return nil, pushErr
		}
	}

	return &domain.ReleasePointer{Hash: hash.String()}, nil
}

func (p *Publisher) pushRefSpec(ctx context.Context, repo *git.Repository, spec string) error {
	err := repo.PushContext(ctx, &git.PushOptions{
		RemoteName: p.remote,
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(spec)},
		Auth:       p.auth(),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", spec, p.remote, err)
	}

	logger.Debugf("[publisher] Pushed %s to %s", spec, p.remote)
	return nil
}

// auth builds basic auth from the configured token. Without a token the push
// runs anonymously, which covers local and ssh-agent remotes.
func (p *Publisher) auth() transport.AuthMethod {
	if p.token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: p.token}
}

func targetHash(repo *git.Repository, target *domain.ReleasePointer) (plumbing.Hash, error) {
	if target != nil && target.Hash != "" {
		return plumbing.NewHash(target.Hash), nil
	}

	head, err := repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve head: %w", err)
	}
	return head.Hash(), nil
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  committerName,
		Email: committerEmail,
		When:  time.Now(),
	}
}
