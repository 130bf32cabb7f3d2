// Package vcs answers the git questions the analyzer asks: whether a
// directory is versioned, how often files changed, and what changed since a
// base ref.
package vcs

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ludo-technologies/codopsy/domain"
)

// Provider implements domain.ChurnProvider on top of go-git
type Provider struct{}

var _ domain.ChurnProvider = Provider{}

// ChurnStats delegates to the package-level ChurnStats
func (Provider) ChurnStats(ctx context.Context, dir string, since time.Time) map[string]domain.Churn {
	return ChurnStats(ctx, dir, since)
}

func open(dir string) (*git.Repository, string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", err
	}
	return repo, wt.Filesystem.Root(), nil
}

// IsRepository reports whether dir is inside a git work tree
func IsRepository(dir string) bool {
	_, _, err := open(dir)
	return err == nil
}

// ChurnStats counts, for every file touched since the given time, the commits
// that changed it and the distinct author emails behind them. Keys are
// slash-separated paths relative to dir; files outside dir are ignored. Any
// failure yields an empty map.
func ChurnStats(ctx context.Context, dir string, since time.Time) map[string]domain.Churn {
	stats := make(map[string]domain.Churn)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return stats
	}
	repo, root, err := open(abs)
	if err != nil {
		return stats
	}
	prefix, err := filepath.Rel(root, abs)
	if err != nil {
		return stats
	}
	prefix = filepath.ToSlash(prefix)

	head, err := repo.Head()
	if err != nil {
		return stats
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Since: &since})
	if err != nil {
		return stats
	}
	defer iter.Close()

	commits := make(map[string]int)
	authors := make(map[string]map[string]struct{})

	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		paths, err := changedPaths(ctx, c)
		if err != nil {
			return err
		}
		for _, p := range paths {
			rel, ok := underPrefix(p, prefix)
			if !ok {
				continue
			}
			commits[rel]++
			if authors[rel] == nil {
				authors[rel] = make(map[string]struct{})
			}
			authors[rel][c.Author.Email] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return make(map[string]domain.Churn)
	}

	for file, n := range commits {
		stats[file] = domain.Churn{Commits: n, Authors: len(authors[file])}
	}
	return stats
}

// changedPaths lists the files a commit touched relative to its first
// parent. Root commits are diffed against the empty tree.
func changedPaths(ctx context.Context, c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, nil)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(changes))
	paths := make([]string, 0, len(changes))
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		paths = append(paths, name)
	}
	return paths, nil
}

func underPrefix(p, prefix string) (string, bool) {
	if prefix == "." || prefix == "" {
		return p, true
	}
	if !strings.HasPrefix(p, prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, prefix+"/"), true
}

// ChangedFiles lists the files added, copied, modified or renamed since the
// merge base of base and HEAD, including uncommitted changes to tracked
// files. Paths are absolute, rooted at the repository top level, and sorted.
// Any failure yields an empty list.
func ChangedFiles(dir, base string) []string {
	repo, root, err := open(dir)
	if err != nil {
		return []string{}
	}
	changed, err := changedSinceMergeBase(repo, base)
	if err != nil {
		return []string{}
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			for path, s := range status {
				switch {
				case s.Worktree == git.Deleted || s.Staging == git.Deleted:
					delete(changed, path)
				case isChange(s.Worktree) || isChange(s.Staging):
					changed[path] = struct{}{}
				}
			}
		}
	}

	files := make([]string, 0, len(changed))
	for path := range changed {
		files = append(files, filepath.Join(root, filepath.FromSlash(path)))
	}
	sort.Strings(files)
	return files
}

func isChange(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Copied, git.Modified, git.Renamed:
		return true
	default:
		return false
	}
}

func changedSinceMergeBase(repo *git.Repository, base string) (map[string]struct{}, error) {
	baseHash, err := repo.ResolveRevision(plumbing.Revision(base))
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, err
	}
	baseCommit, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, err
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}
	bases, err := baseCommit.MergeBase(headCommit)
	if err != nil {
		return nil, err
	}
	if len(bases) == 0 {
		return nil, plumbing.ErrObjectNotFound
	}

	from, err := bases[0].Tree()
	if err != nil {
		return nil, err
	}
	to, err := headCommit.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTreeWithOptions(context.Background(), from, to, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, err
	}

	changed := make(map[string]struct{}, len(changes))
	for _, ch := range changes {
		// deletions have no destination name
		if ch.To.Name == "" {
			continue
		}
		changed[ch.To.Name] = struct{}{}
	}
	return changed, nil
}
