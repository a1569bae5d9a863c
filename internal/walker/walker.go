// Package walker enumerates candidate files below a root directory.
//
// Only regular files are yielded. Directories are descended into,
// symbolic links are never followed, and every other entry type is
// skipped. Errors on individual entries are swallowed so one unreadable
// subtree cannot abort a scan; only a root that cannot be listed at all
// is reported as an error.
package walker

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/karrick/godirwalk"
	"github.com/nao1215/dupscan/internal/ignore"
)

var (
	// ErrEnumeration marks a fatal failure to begin enumerating the root.
	ErrEnumeration = errors.New("cannot enumerate root")

	// ErrNotDirectory is returned when the root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// errStopWalk aborts godirwalk when the consumer stops iterating.
	errStopWalk = errors.New("walk stopped by consumer")
)

// Walker enumerates regular files below a root directory.
type Walker struct {
	matcher *ignore.Matcher
	logger  *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithMatcher excludes paths matched by m. Excluded directories are not
// descended into.
func WithMatcher(m *ignore.Matcher) Option {
	return func(w *Walker) {
		w.matcher = m
	}
}

// WithLogger sets the logger used for skipped-entry debug messages.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker.
func New(opts ...Option) *Walker {
	w := &Walker{}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Walk checks that root can be enumerated and returns a lazy sequence of
// regular file paths below it. The directory tree is only read while the
// sequence is being consumed; stopping early stops the traversal.
// Yielded paths always start with root as given, even when root is a
// symbolic link to the directory that is actually read.
//
// The returned error wraps ErrEnumeration and is the only error Walk ever
// reports. Order follows the directory traversal and is not stable across
// platforms.
func (w *Walker) Walk(root string) (iter.Seq[string], error) {
	start, err := checkRoot(root)
	if err != nil {
		return nil, err
	}
	base := filepath.Clean(root)

	return func(yield func(string) bool) {
		err := godirwalk.Walk(start, &godirwalk.Options{
			Unsorted:            true,
			FollowSymbolicLinks: false,
			Callback: func(osPathname string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					if osPathname != start && w.matcher.ShouldIgnore(w.relative(start, osPathname), true) {
						return godirwalk.SkipThis
					}
					return nil
				}
				if !de.IsRegular() {
					return nil
				}
				rel := w.relative(start, osPathname)
				if w.matcher.ShouldIgnore(rel, false) {
					return nil
				}
				path := osPathname
				if base != start {
					path = filepath.Join(base, rel)
				}
				if !yield(path) {
					return errStopWalk
				}
				return nil
			},
			ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
				if errors.Is(err, errStopWalk) {
					return godirwalk.Halt
				}
				w.logger.Debug("skipping unreadable entry",
					"path", osPathname,
					"error", err,
				)
				return godirwalk.SkipNode
			},
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			w.logger.Debug("walk ended early", "root", start, "error", err)
		}
	}, nil
}

// Collect materializes every candidate below root.
func (w *Walker) Collect(root string) ([]string, error) {
	seq, err := w.Walk(root)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// relative returns p relative to root for ignore matching.
func (w *Walker) relative(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return rel
}

// checkRoot verifies that root exists, is a directory, and can be listed.
// A root that is itself a symbolic link is resolved once so the tree it
// points at can be walked.
func checkRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: empty path", ErrEnumeration)
	}
	start := filepath.Clean(root)

	info, err := os.Lstat(start)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEnumeration, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(start)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrEnumeration, err)
		}
		start = resolved
		if info, err = os.Stat(start); err != nil {
			return "", fmt.Errorf("%w: %w", ErrEnumeration, err)
		}
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s: %w", ErrEnumeration, root, ErrNotDirectory)
	}

	dir, err := os.Open(start) //nolint:gosec // scanning arbitrary user paths is the purpose
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEnumeration, err)
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %w", ErrEnumeration, err)
	}

	return start, nil
}
