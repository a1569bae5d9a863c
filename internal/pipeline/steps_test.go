package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/dupscan/internal/fingerprint"
	"github.com/nao1215/dupscan/internal/model"
	"github.com/nao1215/dupscan/internal/scanner"
	"github.com/nao1215/dupscan/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sha256Hello = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	sha256World = "486ea46224d1bb4fb680f34f7c9ad96a8f24ec88be73ea8e5a6c65260e9cb8a7"
)

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

func newScanner(opts ...scanner.Option) *scanner.Scanner {
	return scanner.New(append([]scanner.Option{scanner.WithLogger(quietLogger())}, opts...)...)
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(newScanner())
	assert.Equal(t, []string{"enumerate", "fingerprint", "aggregate"}, p.StepNames())
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("hello world scenario", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{
			"a.txt": "hello",
			"b.txt": "hello",
			"c.txt": "world",
		})

		result, err := Run(context.Background(), root, "sha256", newScanner(), WithLogger(quietLogger()))
		require.NoError(t, err)
		require.Len(t, result.Groups, 2)

		assert.Equal(t, model.Fingerprint(sha256Hello), result.Groups[0].Fingerprint)
		assert.Equal(t, 2, result.Groups[0].Count())
		assert.Equal(t, filepath.Join(root, "a.txt"), result.Groups[0].Representative().Path)
		assert.Equal(t, model.Fingerprint(sha256World), result.Groups[1].Fingerprint)
		assert.Equal(t, 1, result.Groups[1].Count())

		assert.Equal(t, 3, result.Candidates)
		assert.Zero(t, result.Failed)
		assert.Nil(t, result.Entries(), "intermediate state is released")
	})

	t.Run("completeness over nested tree", func(t *testing.T) {
		t.Parallel()
		files := map[string]string{
			"x/1": "a", "x/2": "b", "x/y/3": "a", "z/4": "c", "5": "",
			"6": "", "deep/er/still/7": "b",
		}
		root := buildTree(t, files)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "dir"), 0o750))

		result, err := Run(context.Background(), root, "sha256", newScanner(), WithLogger(quietLogger()))
		require.NoError(t, err)

		assert.Equal(t, len(files), result.TotalFiles())
		assert.Equal(t, len(files), result.Candidates)
		for i := 1; i < len(result.Groups); i++ {
			assert.GreaterOrEqual(t, result.Groups[i-1].Count(), result.Groups[i].Count())
		}
	})

	t.Run("missing root fails with no result", func(t *testing.T) {
		t.Parallel()
		result, err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), "sha256",
			newScanner(), WithLogger(quietLogger()))
		require.Error(t, err)
		assert.ErrorIs(t, err, walker.ErrEnumeration)
		assert.Nil(t, result)
	})

	t.Run("one unreadable file is dropped with one diagnostic", func(t *testing.T) {
		t.Parallel()
		if os.Geteuid() == 0 {
			t.Skip("root ignores file permissions")
		}
		root := buildTree(t, map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"})
		require.NoError(t, os.Chmod(filepath.Join(root, "c"), 0o000))

		var diags []model.Diagnostic
		s := newScanner(scanner.WithDiagnostics(func(d model.Diagnostic) { diags = append(diags, d) }))

		result, err := Run(context.Background(), root, "sha256", s, WithLogger(quietLogger()))
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalFiles())
		assert.Equal(t, 1, result.Failed)
		require.Len(t, diags, 1)
		assert.Equal(t, filepath.Join(root, "c"), diags[0].Path)
	})

	t.Run("repeated runs are identical", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{
			"p/1": "dup", "p/2": "dup", "q/3": "dup", "r/4": "solo", "r/5": "pair", "s/6": "pair",
		})

		first, err := Run(context.Background(), root, "sha256", newScanner(scanner.WithWorkers(4)), WithLogger(quietLogger()))
		require.NoError(t, err)
		second, err := Run(context.Background(), root, "sha256", newScanner(scanner.WithWorkers(1)), WithLogger(quietLogger()))
		require.NoError(t, err)

		assert.Equal(t, first.Groups, second.Groups)
	})

	t.Run("alternate algorithm groups identically", func(t *testing.T) {
		t.Parallel()
		root := buildTree(t, map[string]string{"a": "same", "b": "same", "c": "diff"})
		alg, err := fingerprint.LookupAlgorithm("blake2b-256")
		require.NoError(t, err)

		s := newScanner(scanner.WithHasher(fingerprint.New(fingerprint.WithAlgorithm(alg))))
		result, err := Run(context.Background(), root, alg.Name, s, WithLogger(quietLogger()))
		require.NoError(t, err)

		require.Len(t, result.Groups, 2)
		assert.Equal(t, 2, result.Groups[0].Count())
		assert.Equal(t, "blake2b-256", result.Algorithm)
	})
}
