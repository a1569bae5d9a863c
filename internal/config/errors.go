package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoRoot is returned when no directory to scan was given.
	ErrNoRoot = errors.New("no root specified: provide a directory to scan")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidBufferSize is returned when the read buffer size is not
	// positive, cannot be parsed, or exceeds MaxBufferSize.
	ErrInvalidBufferSize = errors.New("invalid buffer size: must be between 1B and 64MiB")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidTop is returned when the group limit is negative.
	// Use 0 to show every group.
	ErrInvalidTop = errors.New("invalid top: must be non-negative")

	// ErrUnsupportedAlgorithm is returned for unknown digest algorithm names.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
