// Package gitinfo resolves per-file last-commit times from an enclosing git
// repository. Everything here is best effort: a directory outside any
// repository, or a file with no history yet, simply yields no date.
package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository marks a scan directory that is not inside a git worktree.
var ErrNotRepository = errors.New("gitinfo: not a git repository")

// Resolver answers last-updated queries against one repository.
type Resolver struct {
	repo *git.Repository
	root string
}

// Open locates the repository enclosing dir (walking up like git does).
func Open(dir string) (*Resolver, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}

	return &Resolver{repo: repo, root: wt.Filesystem.Root()}, nil
}

// LastUpdated returns the committer time of the most recent commit touching
// path. The boolean is false when the file has no committed history.
func (r *Resolver) LastUpdated(path string) (time.Time, bool) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	iter, err := r.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		// io.EOF: no commits touch the file (untracked or just added).
		return time.Time{}, false
	}
	return commit.Committer.When, true
}
