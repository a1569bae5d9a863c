// Package ignore decides which paths are excluded from a scan.
//
// Nothing is excluded by default. Exclusions come from two optional sources:
// doublestar glob patterns supplied on the command line or in the
// configuration file, and a gitignore-syntax file (.dupscanignore) at the
// scan root.
package ignore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultIgnoreFile is the gitignore-syntax file read from the scan root.
const DefaultIgnoreFile = ".dupscanignore"

// ErrInvalidPattern is returned when an exclude pattern is not a valid glob.
var ErrInvalidPattern = errors.New("invalid exclude pattern")

// Matcher determines whether a path below the scan root is excluded.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	rootDir    string
	patterns   []string
	ignoreFile gitignore.GitIgnore
}

// Options configures a Matcher.
type Options struct {
	// RootDir is the scan root; paths are matched relative to it.
	RootDir string

	// Patterns are doublestar globs. A pattern without a slash matches
	// the base name at any depth; otherwise it matches the relative path.
	Patterns []string

	// IgnoreFile is the name of a gitignore-syntax file in RootDir.
	// Empty means DefaultIgnoreFile. A missing file is not an error.
	IgnoreFile string
}

// NewMatcher validates the patterns and loads the ignore file.
func NewMatcher(opts Options) (*Matcher, error) {
	m := &Matcher{rootDir: opts.RootDir}

	for _, p := range opts.Patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
		m.patterns = append(m.patterns, p)
	}

	name := opts.IgnoreFile
	if name == "" {
		name = DefaultIgnoreFile
	}
	if opts.RootDir != "" {
		m.ignoreFile = loadIgnoreFile(filepath.Join(opts.RootDir, name), opts.RootDir)
	}

	return m, nil
}

// Empty reports whether the matcher can never exclude anything.
func (m *Matcher) Empty() bool {
	return m == nil || (len(m.patterns) == 0 && m.ignoreFile == nil)
}

// Patterns returns the validated glob patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}

// ShouldIgnore reports whether the path is excluded. The path may be
// absolute or relative to the root directory.
func (m *Matcher) ShouldIgnore(p string, isDir bool) bool {
	if m.Empty() {
		return false
	}

	rel := p
	if filepath.IsAbs(p) && m.rootDir != "" {
		if r, err := filepath.Rel(m.rootDir, p); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}

	if m.matchesPatterns(rel) {
		return true
	}

	if m.ignoreFile != nil {
		if match := m.ignoreFile.Relative(rel, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return false
}

// matchesPatterns checks the relative path against the glob patterns.
func (m *Matcher) matchesPatterns(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range m.patterns {
		target := rel
		if !strings.Contains(pattern, "/") {
			target = base
		}
		if ok, err := doublestar.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads a gitignore-syntax file. It returns nil when the
// file does not exist or cannot be read.
func loadIgnoreFile(filePath, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath) //nolint:gosec // path is built from the scan root
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
