package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codopsy/domain"
)

type testRepo struct {
	t    *testing.T
	root string
	repo *git.Repository
	wt   *git.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, root: root, repo: repo, wt: wt}
}

func (r *testRepo) write(path, content string) {
	r.t.Helper()
	full := filepath.Join(r.root, filepath.FromSlash(path))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
}

func (r *testRepo) commit(email string, files map[string]string) plumbing.Hash {
	r.t.Helper()
	for path, content := range files {
		r.write(path, content)
		_, err := r.wt.Add(path)
		require.NoError(r.t, err)
	}
	hash, err := r.wt.Commit("change", &git.CommitOptions{
		Author: &object.Signature{Name: email, Email: email, When: time.Now()},
	})
	require.NoError(r.t, err)
	return hash
}

func TestIsRepository(t *testing.T) {
	r := newTestRepo(t)
	r.write("sub/a.js", "x\n")

	assert.True(t, IsRepository(r.root))
	assert.True(t, IsRepository(filepath.Join(r.root, "sub")))
	assert.False(t, IsRepository(t.TempDir()))
}

func TestChurnStats(t *testing.T) {
	r := newTestRepo(t)
	r.commit("alice@example.com", map[string]string{"a.js": "1\n", "lib/c.ts": "1\n"})
	r.commit("bob@example.com", map[string]string{"a.js": "2\n"})
	r.commit("alice@example.com", map[string]string{"a.js": "3\n", "b.js": "1\n"})

	since := time.Now().AddDate(0, -6, 0)

	t.Run("repository root", func(t *testing.T) {
		stats := ChurnStats(context.Background(), r.root, since)
		assert.Equal(t, map[string]domain.Churn{
			"a.js":     {Commits: 3, Authors: 2},
			"b.js":     {Commits: 1, Authors: 1},
			"lib/c.ts": {Commits: 1, Authors: 1},
		}, stats)
	})

	t.Run("subdirectory keys are relative to it", func(t *testing.T) {
		stats := Provider{}.ChurnStats(context.Background(), filepath.Join(r.root, "lib"), since)
		assert.Equal(t, map[string]domain.Churn{"c.ts": {Commits: 1, Authors: 1}}, stats)
	})

	t.Run("window excludes older commits", func(t *testing.T) {
		stats := ChurnStats(context.Background(), r.root, time.Now().Add(time.Hour))
		assert.Empty(t, stats)
	})
}

func TestChurnStatsOutsideRepository(t *testing.T) {
	stats := ChurnStats(context.Background(), t.TempDir(), time.Now().AddDate(-1, 0, 0))
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestChangedFiles(t *testing.T) {
	r := newTestRepo(t)
	base := r.commit("alice@example.com", map[string]string{
		"a.js": "1\n", "c.js": "1\n", "gone.js": "1\n",
	})
	r.commit("alice@example.com", map[string]string{"a.js": "2\n", "src/b.ts": "1\n"})
	_, err := r.wt.Remove("gone.js")
	require.NoError(t, err)
	_, err = r.wt.Commit("remove", &git.CommitOptions{
		Author: &object.Signature{Name: "a", Email: "a@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	// uncommitted edit to a tracked file, plus an untracked file
	r.write("c.js", "changed\n")
	r.write("untracked.js", "1\n")

	files := ChangedFiles(r.root, base.String())

	assert.Equal(t, []string{
		filepath.Join(r.root, "a.js"),
		filepath.Join(r.root, "c.js"),
		filepath.Join(r.root, "src", "b.ts"),
	}, files)
}

func TestChangedFilesFailures(t *testing.T) {
	r := newTestRepo(t)
	r.commit("alice@example.com", map[string]string{"a.js": "1\n"})

	assert.Empty(t, ChangedFiles(r.root, "no-such-ref"))
	assert.Empty(t, ChangedFiles(t.TempDir(), "HEAD"))
}
