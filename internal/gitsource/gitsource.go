// Package gitsource keeps a local copy of a git-hosted vault up to date
// before a scan runs.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"
)

// Sync clones the repository at url into localPath if nothing exists there
// yet, or pulls the latest changes from origin if it does.
func Sync(ctx context.Context, url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		return clone(ctx, url, localPath)
	case err != nil:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}
	return pull(ctx, localPath)
}

func clone(ctx context.Context, url, localPath string) error {
	slog.Info("cloning vault repository", "url", url, "path", localPath)
	_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repo %s: %w", url, err)
	}
	return nil
}

func pull(ctx context.Context, localPath string) error {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
	}

	slog.Info("pulling vault repository", "path", localPath)
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
	}
	return nil
}
