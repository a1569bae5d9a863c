package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".dupscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .dupscan configuration file.
// Every field is optional; zero values leave the defaults untouched.
type File struct {
	// Algorithm is the digest algorithm name.
	Algorithm string `yaml:"algorithm,omitempty"`

	// Workers is the number of concurrent fingerprinting workers.
	Workers int `yaml:"workers,omitempty"`

	// BufferSize is a human readable size such as "256KiB" or "1MB".
	BufferSize string `yaml:"bufferSize,omitempty"`

	// Exclude holds doublestar glob patterns for paths to skip.
	Exclude []string `yaml:"exclude,omitempty"`

	// DuplicatesOnly hides single-member groups from reports.
	DuplicatesOnly bool `yaml:"duplicatesOnly,omitempty"`

	// Top limits reports to the first N groups.
	Top int `yaml:"top,omitempty"`

	// Members lists every path of a duplicate group in the text report.
	Members bool `yaml:"members,omitempty"`
}

// ParseBufferSize parses a human readable size such as "256KiB" and
// checks it against MaxBufferSize.
func ParseBufferSize(raw string) (int, error) {
	size, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidBufferSize, raw, err)
	}
	if size == 0 || size > MaxBufferSize {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBufferSize, raw)
	}
	return int(size), nil
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the non-zero values of the file onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.Algorithm != "" {
		cfg.Algorithm = cf.Algorithm
	}
	if cf.Workers != 0 {
		cfg.Workers = cf.Workers
	}
	if cf.BufferSize != "" {
		size, err := ParseBufferSize(cf.BufferSize)
		if err != nil {
			return err
		}
		cfg.BufferSize = size
	}
	if len(cf.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, cf.Exclude...)
	}
	if cf.DuplicatesOnly {
		cfg.DuplicatesOnly = true
	}
	if cf.Top != 0 {
		cfg.Top = cf.Top
	}
	if cf.Members {
		cfg.Members = true
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .dupscan in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .dupscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if xdgConfig := XDGConfigFile(); fileExists(xdgConfig) {
		return xdgConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
