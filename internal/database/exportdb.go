package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/dupscan/internal/model"
)

// ErrExists is returned by Create when the target file already exists.
var ErrExists = errors.New("database file already exists")

// ExportDB is a SQLite database holding exported scan results.
type ExportDB struct {
	db     *sql.DB
	dbPath string
}

// Create makes a new database file at path and creates the schema.
// Parent directories are created as needed. An existing file is never
// reused or overwritten.
func Create(path string) (*ExportDB, error) {
	if _, err := os.Lstat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	edb := &ExportDB{
		db:     db,
		dbPath: path,
	}

	if err := edb.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return edb, nil
}

// Path returns the database file path.
func (edb *ExportDB) Path() string {
	return edb.dbPath
}

// Close closes the database connection.
func (edb *ExportDB) Close() error {
	return edb.db.Close()
}

func (edb *ExportDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		scanned_at DATETIME NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		candidates INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		group_count INTEGER NOT NULL,
		duplicate_groups INTEGER NOT NULL,
		reclaimable_bytes INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hash_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scans(id),
		rank INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		member_count INTEGER NOT NULL,
		size INTEGER NOT NULL,
		representative TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_groups_scan ON hash_groups(scan_id);
	CREATE INDEX IF NOT EXISTS idx_groups_fingerprint ON hash_groups(fingerprint);

	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL REFERENCES hash_groups(id),
		path TEXT NOT NULL,
		size INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_files_group ON files(group_id);
	CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
	`

	_, err := edb.db.ExecContext(ctx, schema)
	return err
}

// SaveScanResult writes result into the database in one transaction and
// returns the new scan id. Groups keep their rank order; rank starts at 1.
func (edb *ExportDB) SaveScanResult(ctx context.Context, result *model.ScanResult) (id int64, err error) {
	tx, err := edb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO scans (root, algorithm, scanned_at, elapsed_ms, candidates, failed,
		group_count, duplicate_groups, reclaimable_bytes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Root,
		result.Algorithm,
		result.DateScanned.UTC(),
		result.Elapsed.Milliseconds(),
		result.Candidates,
		result.Failed,
		len(result.Groups),
		result.DuplicateGroups(),
		result.ReclaimableBytes(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	groupStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO hash_groups (scan_id, rank, fingerprint, member_count, size, representative)
	VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare group insert: %w", err)
	}
	defer groupStmt.Close()

	fileStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO files (group_id, path, size) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer fileStmt.Close()

	for i, g := range result.Groups {
		res, err := groupStmt.ExecContext(ctx,
			scanID, i+1, g.Fingerprint.String(), g.Count(), g.Size(), g.Representative().Path)
		if err != nil {
			return 0, fmt.Errorf("failed to insert group %s: %w", g.Fingerprint, err)
		}
		groupID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get group id: %w", err)
		}

		for _, m := range g.Members {
			if _, err := fileStmt.ExecContext(ctx, groupID, m.Path, m.Size); err != nil {
				return 0, fmt.Errorf("failed to insert file %s: %w", m.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return scanID, nil
}
