// Package model defines the core data structures used throughout dupscan.
//
// This package contains the following main types:
//   - FileRecord: A successfully fingerprinted file (path and size)
//   - Fingerprint: The lowercase hexadecimal content digest used as a grouping key
//   - Entry: The (Fingerprint, FileRecord) tuple produced by the scanner
//   - Group: All files sharing one Fingerprint
//   - ScanResult: The ranked set of Groups produced by one run
//   - Diagnostic: A per-file fingerprinting failure
//
// Exported fields carry JSON tags for report output. Intermediate pipeline
// state held by ScanResult is unexported and never serialized.
package model
