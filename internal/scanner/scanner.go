package scanner

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/dupscan/internal/fingerprint"
	"github.com/nao1215/dupscan/internal/model"
	"github.com/nao1215/dupscan/internal/walker"
	"golang.org/x/sync/errgroup"
)

// Enumerator produces the candidate list for a root.
// *walker.Walker implements it.
type Enumerator interface {
	Collect(root string) ([]string, error)
}

// Hasher fingerprints one file and returns the digest and content size.
// *fingerprint.Fingerprinter implements it.
type Hasher interface {
	Fingerprint(path string) (model.Fingerprint, int64, error)
}

// DiagnosticFunc receives per-file failures as they occur.
// Calls are serialized by the Scanner.
type DiagnosticFunc func(model.Diagnostic)

// Scanner drives enumeration and the parallel fingerprinting fan-out.
type Scanner struct {
	enumerator  Enumerator
	hasher      Hasher
	workers     int
	logger      *slog.Logger
	observer    Observer
	diagnostics DiagnosticFunc
	diagMu      sync.Mutex
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithEnumerator replaces the default walker.
func WithEnumerator(e Enumerator) Option {
	return func(s *Scanner) {
		if e != nil {
			s.enumerator = e
		}
	}
}

// WithHasher replaces the default sha256 fingerprinter.
func WithHasher(h Hasher) Option {
	return func(s *Scanner) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithWorkers sets the maximum number of files fingerprinted concurrently.
// Default is runtime.NumCPU(). Non-positive values keep the default.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger used for scan-level messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(s *Scanner) {
		s.observer = o
	}
}

// WithProgress sets a callback invoked once per processed candidate.
func WithProgress(f func()) Option {
	return func(s *Scanner) {
		if f != nil {
			s.observer = ProgressFunc(f)
		}
	}
}

// WithDiagnostics sets the sink for per-file failures.
// Without it, failures are logged as warnings.
func WithDiagnostics(f DiagnosticFunc) Option {
	return func(s *Scanner) {
		s.diagnostics = f
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.enumerator == nil {
		s.enumerator = walker.New(walker.WithLogger(s.logger))
	}
	if s.hasher == nil {
		s.hasher = fingerprint.New()
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.diagnostics == nil {
		logger := s.logger
		s.diagnostics = func(d model.Diagnostic) {
			logger.Warn("failed to fingerprint file",
				"path", d.Path,
				"error", d.Err,
			)
		}
	}

	return s
}

// Workers returns the configured worker count.
func (s *Scanner) Workers() int {
	return s.workers
}

// Scan enumerates root and fingerprints every candidate.
// The returned error is either an enumeration failure (wrapping
// walker.ErrEnumeration) or the context error after cancellation.
// Entry order is not meaningful.
func (s *Scanner) Scan(ctx context.Context, root string) ([]model.Entry, error) {
	candidates, err := s.Enumerate(root)
	if err != nil {
		return nil, err
	}
	entries, _, err := s.Fingerprint(ctx, candidates)
	return entries, err
}

// Enumerate materializes the full candidate list for root.
func (s *Scanner) Enumerate(root string) ([]string, error) {
	start := time.Now()

	candidates, err := s.enumerator.Collect(root)
	if err != nil {
		s.logger.Error("enumeration failed", "root", root, "error", err)
		return nil, err
	}

	s.logger.Info("enumeration complete",
		"root", root,
		"candidates", len(candidates),
		"elapsed", time.Since(start),
	)
	return candidates, nil
}

// Fingerprint processes candidates concurrently and returns the entries for
// every file that was fingerprinted, plus the number of failures.
//
// Per-file failures are sent to the diagnostics sink and never abort the
// run. Cancellation is checked between files, never in the middle of a
// read; once the context is done, no new file is started and the context
// error is returned with no entries.
func (s *Scanner) Fingerprint(ctx context.Context, candidates []string) ([]model.Entry, int, error) {
	s.logger.Info("starting fingerprinting",
		"candidates", len(candidates),
		"workers", s.workers,
	)
	start := time.Now()

	// One slot per candidate. A slot with an empty fingerprint means the
	// candidate failed or was never started.
	slots := make([]model.Entry, len(candidates))
	var failed atomic.Int64

	s.observer.Start(len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range candidates {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fp, size, err := s.hasher.Fingerprint(path)
			if err != nil {
				failed.Add(1)
				s.report(model.Diagnostic{Path: path, Err: err})
			} else {
				slots[i] = model.NewEntry(fp, path, size)
			}

			s.observer.Advance()
			return nil
		})
	}

	waitErr := g.Wait()
	s.observer.Finish()

	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if waitErr != nil {
		s.logger.Warn("fingerprinting cancelled", "reason", waitErr)
		return nil, int(failed.Load()), waitErr
	}

	entries := make([]model.Entry, 0, len(candidates)-int(failed.Load()))
	for _, e := range slots {
		if e.Fingerprint != "" {
			entries = append(entries, e)
		}
	}

	s.logger.Info("fingerprinting complete",
		"fingerprinted", len(entries),
		"failed", failed.Load(),
		"elapsed", time.Since(start),
	)

	return entries, int(failed.Load()), nil
}

// report forwards a diagnostic to the sink, one at a time.
func (s *Scanner) report(d model.Diagnostic) {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()
	s.diagnostics(d)
}
