package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/nao1215/dupscan/internal/fingerprint"
)

// Default configuration values.
const (
	// DefaultAlgorithm is the digest used for fingerprints.
	DefaultAlgorithm = fingerprint.DefaultAlgorithm

	// DefaultBufferSize is the per-worker read buffer. 256KiB keeps the
	// number of read syscalls low without noticeable memory cost even with
	// many workers.
	DefaultBufferSize = fingerprint.DefaultBufferSize

	// MaxBufferSize caps the read buffer. Every worker keeps one.
	MaxBufferSize = 64 << 20

	// AppName is the application name used for XDG directory paths.
	AppName = "dupscan"
)

// DefaultWorkers returns the default worker count: one per available CPU.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Config holds all configuration options for dupscan.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept in global state.
type Config struct {
	// Root is the directory to scan.
	Root string

	// Algorithm is the digest algorithm name (see fingerprint.AlgorithmNames).
	Algorithm string

	// Workers is the maximum number of files fingerprinted concurrently.
	Workers int

	// BufferSize is the read buffer size in bytes used while hashing.
	BufferSize int

	// Exclude holds doublestar glob patterns for paths to skip.
	Exclude []string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicitly requested configuration file.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// SQLiteFile is an optional path to export the result into.
	SQLiteFile string

	// DuplicatesOnly hides groups with a single member from the report.
	DuplicatesOnly bool

	// Top limits the report to the first N groups. 0 shows all groups.
	Top int

	// Members lists every path of a duplicate group in the text report.
	Members bool

	// Progress enables the live progress indicator on a terminal.
	Progress bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Algorithm:  DefaultAlgorithm,
		Workers:    DefaultWorkers(),
		BufferSize: DefaultBufferSize,
		Progress:   true,
	}
}

// XDGConfigDir returns the XDG config directory for dupscan.
// On Linux: ~/.config/dupscan
// On macOS: ~/Library/Application Support/dupscan
// On Windows: %APPDATA%\dupscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the configuration file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error (possibly wrapped).
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrNoRoot
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.BufferSize <= 0 || c.BufferSize > MaxBufferSize {
		return ErrInvalidBufferSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Top < 0 {
		return ErrInvalidTop
	}

	if _, err := fingerprint.LookupAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.Algorithm)
	}

	return nil
}
