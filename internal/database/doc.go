// Package database exports scan results into a SQLite file.
//
// ExportDB writes one model.ScanResult into a fresh database with three
// tables:
//   - scans: one row per exported scan (root, algorithm, totals)
//   - hash_groups: one row per fingerprint group, in rank order
//   - files: one row per member file
//
// The file is meant for ad-hoc SQL queries by the user; dupscan never
// reads it back. SQLite is provided by modernc.org/sqlite, which needs no
// cgo.
package database
