package walker

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/nao1215/dupscan/internal/ignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates files relative to root and returns root.
func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestWalkerWalk(t *testing.T) {
	t.Parallel()

	t.Run("yields regular files recursively", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{
			"a.txt":         "hello",
			"sub/b.txt":     "hello",
			"sub/deep/c.md": "world",
		})
		require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o750))

		paths, err := New().Collect(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/deep/c.md"}, relAll(t, root, paths))
	})

	t.Run("skips symlinks", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{
			"real.txt":      "x",
			"dir/inner.txt": "y",
		})
		require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))
		require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dirlink")))
		require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "dangling")))

		paths, err := New().Collect(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"dir/inner.txt", "real.txt"}, relAll(t, root, paths))
	})

	t.Run("empty directory yields nothing", func(t *testing.T) {
		t.Parallel()
		paths, err := New().Collect(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("stopping early halts traversal", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{
			"1": "a", "2": "b", "3": "c", "4": "d",
		})
		seq, err := New().Walk(root)
		require.NoError(t, err)

		count := 0
		for range seq {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})

	t.Run("applies ignore matcher", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{
			"keep.txt":        "k",
			"drop.tmp":        "d",
			"cache/blob.bin":  "c",
			"nested/keep.bin": "n",
		})
		m, err := ignore.NewMatcher(ignore.Options{
			RootDir:  root,
			Patterns: []string{"*.tmp", "cache"},
		})
		require.NoError(t, err)

		paths, err := New(WithMatcher(m)).Collect(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep.txt", "nested/keep.bin"}, relAll(t, root, paths))
	})

	t.Run("unreadable subtree is skipped", func(t *testing.T) {
		t.Parallel()
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}
		root := buildTree(t, map[string]string{
			"ok.txt":         "fine",
			"locked/hid.txt": "hidden",
		})
		locked := filepath.Join(root, "locked")
		require.NoError(t, os.Chmod(locked, 0o000))
		t.Cleanup(func() { _ = os.Chmod(locked, 0o750) }) //nolint:errcheck // best effort

		paths, err := New().Collect(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"ok.txt"}, relAll(t, root, paths))
	})

	t.Run("symlinked root is resolved", func(t *testing.T) {
		t.Parallel()
		target := buildTree(t, map[string]string{"f.txt": "x", "sub/g.txt": "y"})
		link := filepath.Join(t.TempDir(), "root-link")
		require.NoError(t, os.Symlink(target, link))

		paths, err := New().Collect(link)
		require.NoError(t, err)
		sort.Strings(paths)
		assert.Equal(t, []string{
			filepath.Join(link, "f.txt"),
			filepath.Join(link, "sub", "g.txt"),
		}, paths)
	})
}

func TestWalkerFatalRoot(t *testing.T) {
	t.Parallel()

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := New().Walk(filepath.Join(t.TempDir(), "does-not-exist"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEnumeration))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("root is a file", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{"file.txt": "x"})
		_, err := New().Walk(filepath.Join(root, "file.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEnumeration))
		assert.True(t, errors.Is(err, ErrNotDirectory))
	})

	t.Run("empty root path", func(t *testing.T) {
		t.Parallel()
		_, err := New().Collect("")
		assert.ErrorIs(t, err, ErrEnumeration)
	})

	t.Run("unlistable root", func(t *testing.T) {
		t.Parallel()
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}
		root := t.TempDir()
		locked := filepath.Join(root, "locked")
		require.NoError(t, os.Mkdir(locked, 0o000))
		t.Cleanup(func() { _ = os.Chmod(locked, 0o750) }) //nolint:errcheck // best effort

		_, err := New().Walk(locked)
		assert.ErrorIs(t, err, ErrEnumeration)
	})
}
