// Package log provides the slog based logger used across dupscan.
//
// File names are attacker controlled input: a directory may contain entries
// whose names embed newlines, carriage returns or terminal escape sequences.
// SafeHandler wraps any slog.Handler and escapes control characters in the
// message and in string and error attributes before they reach the output,
// so a crafted file name can neither forge extra log lines nor drive the
// terminal.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("failed to fingerprint file", "path", path, "error", err)
//
// In non-verbose mode only warnings and errors are emitted.
package log
