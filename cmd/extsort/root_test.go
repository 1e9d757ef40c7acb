package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extsort/internal/config"
	appErrors "extsort/internal/errors"
	"extsort/internal/infra/lock"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestRunCopiesIntoBuckets(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, map[string]string{
		"a.txt":           "alpha",
		"sub/b.JPG":       "bravo",
		"sub/deep/README": "readme",
	})

	cfg := config.Default()
	cfg.SourceDir = src
	cfg.TargetDir = dst
	cfg.Jobs = 2
	require.NoError(t, run(context.Background(), cfg))

	for rel, want := range map[string]string{
		"txt/a.txt":           "alpha",
		"JPG/b.JPG":           "bravo",
		"no_extension/README": "readme",
	} {
		got, err := os.ReadFile(filepath.Join(dst, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, want, string(got))
	}
}

func TestRunDryRunLeavesDestinationAlone(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, map[string]string{"a.txt": "alpha"})

	cfg := config.Default()
	cfg.SourceDir = src
	cfg.TargetDir = dst
	cfg.DryRun = true
	require.NoError(t, run(context.Background(), cfg))

	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
}

func TestRunRejectsMissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out")

	cfg := config.Default()
	cfg.SourceDir = filepath.Join(t.TempDir(), "missing")
	cfg.TargetDir = dst
	err := run(context.Background(), cfg)

	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.Validation))
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))

	lockPath, err := lock.PathFor(dst)
	require.NoError(t, err)
	assert.NoFileExists(t, lockPath)
}

func TestRootCommandRequiresBothPaths(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{t.TempDir()})
	cmd.SetOut(new(discard))
	cmd.SetErr(new(discard))

	t.Setenv("EXTSORT_TARGET_DIR", "")
	t.Setenv("EXTSORT_CONFIG", "")
	err := cmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.InvalidConfig))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
