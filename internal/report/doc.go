// Package report renders a model.ScanResult for humans and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: one block per group (Hash, First Instance, Count, Size)
//     followed by a short summary, for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: tables and alerts for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
