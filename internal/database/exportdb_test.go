package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/dupscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a fresh export database for testing.
func setupTestDB(t *testing.T) *ExportDB {
	t.Helper()

	db, err := Create(filepath.Join(t.TempDir(), "scan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func createTestResult() *model.ScanResult {
	result := model.NewScanResult("/data", "sha256")
	result.Elapsed = 2 * time.Second
	result.Candidates = 4
	result.Failed = 1
	result.Groups = []model.Group{
		{Fingerprint: "aa", Members: []model.FileRecord{{Path: "/data/a", Size: 3}, {Path: "/data/b", Size: 3}}},
		{Fingerprint: "bb", Members: []model.FileRecord{{Path: "/data/c", Size: 9}}},
	}
	return result
}

// TestCreate tests database creation.
func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "newdir", "subdir", "scan.db")
		db, err := Create(path)
		require.NoError(t, err)
		defer db.Close()

		assert.FileExists(t, path)
		assert.Equal(t, path, db.Path())
	})

	t.Run("refuses existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "scan.db")
		require.NoError(t, os.WriteFile(path, []byte("keep me"), 0600))

		_, err := Create(path)
		require.ErrorIs(t, err, ErrExists)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "keep me", string(data))
	})
}

// TestSaveScanResult tests exporting a scan result.
func TestSaveScanResult(t *testing.T) {
	t.Parallel()

	t.Run("writes scan, groups and files", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		id, err := db.SaveScanResult(ctx, createTestResult())
		require.NoError(t, err)
		assert.Positive(t, id)

		var root string
		var elapsedMS int64
		var candidates, failed, groups, dupGroups int
		var reclaimable int64
		require.NoError(t, db.db.QueryRowContext(ctx,
			`SELECT root, elapsed_ms, candidates, failed, group_count, duplicate_groups, reclaimable_bytes FROM scans WHERE id = ?`, id).
			Scan(&root, &elapsedMS, &candidates, &failed, &groups, &dupGroups, &reclaimable))
		assert.Equal(t, "/data", root)
		assert.Equal(t, int64(2000), elapsedMS)
		assert.Equal(t, 4, candidates)
		assert.Equal(t, 1, failed)
		assert.Equal(t, 2, groups)
		assert.Equal(t, 1, dupGroups)
		assert.Equal(t, int64(3), reclaimable)

		var fp, rep string
		var count int
		require.NoError(t, db.db.QueryRowContext(ctx,
			`SELECT fingerprint, member_count, representative FROM hash_groups WHERE scan_id = ? AND rank = 1`, id).
			Scan(&fp, &count, &rep))
		assert.Equal(t, "aa", fp)
		assert.Equal(t, 2, count)
		assert.Equal(t, "/data/a", rep)

		var files int
		require.NoError(t, db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&files))
		assert.Equal(t, 3, files)
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		_, err := db.SaveScanResult(context.Background(), model.NewScanResult("/empty", "sha256"))
		assert.NoError(t, err)
	})

	t.Run("canceled context rolls back", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := db.SaveScanResult(ctx, createTestResult())
		require.Error(t, err)

		var scans int
		require.NoError(t, db.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM scans`).Scan(&scans))
		assert.Zero(t, scans)
	})
}
