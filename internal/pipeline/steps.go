package pipeline

import (
	"context"

	"github.com/nao1215/dupscan/internal/aggregate"
	"github.com/nao1215/dupscan/internal/model"
	"github.com/nao1215/dupscan/internal/scanner"
)

// EnumerateStep materializes the candidate list for the result's root.
// A failure here is fatal for the whole run.
type EnumerateStep struct {
	scanner *scanner.Scanner
}

// NewEnumerateStep creates an enumeration step backed by s.
func NewEnumerateStep(s *scanner.Scanner) *EnumerateStep {
	return &EnumerateStep{scanner: s}
}

// Name returns the step name.
func (s *EnumerateStep) Name() string {
	return "enumerate"
}

// Do executes the enumeration step.
func (s *EnumerateStep) Do(_ context.Context, result *model.ScanResult) error {
	candidates, err := s.scanner.Enumerate(result.Root)
	if err != nil {
		return err
	}
	result.SetCandidates(candidates)
	return nil
}

// FingerprintStep fingerprints the enumerated candidates in parallel.
type FingerprintStep struct {
	scanner *scanner.Scanner
}

// NewFingerprintStep creates a fingerprinting step backed by s.
func NewFingerprintStep(s *scanner.Scanner) *FingerprintStep {
	return &FingerprintStep{scanner: s}
}

// Name returns the step name.
func (s *FingerprintStep) Name() string {
	return "fingerprint"
}

// Do executes the fingerprinting step.
func (s *FingerprintStep) Do(ctx context.Context, result *model.ScanResult) error {
	entries, failed, err := s.scanner.Fingerprint(ctx, result.CandidatePaths())
	if err != nil {
		return err
	}
	result.SetEntries(entries, failed)
	return nil
}

// AggregateStep groups entries by fingerprint and ranks the groups.
type AggregateStep struct{}

// NewAggregateStep creates an aggregation step.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregation step and releases intermediate state.
func (s *AggregateStep) Do(_ context.Context, result *model.ScanResult) error {
	aggregate.Into(result)
	result.ReleaseIntermediate()
	return nil
}

// DefaultPipeline creates the standard enumerate, fingerprint, aggregate
// pipeline around the given scanner.
func DefaultPipeline(s *scanner.Scanner, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewEnumerateStep(s),
		NewFingerprintStep(s),
		NewAggregateStep(),
	)
	return p
}

// Run scans root with the default pipeline and returns the ranked result.
// On error no partial result is returned.
func Run(ctx context.Context, root, algorithm string, s *scanner.Scanner, opts ...Option) (*model.ScanResult, error) {
	result := model.NewScanResult(root, algorithm)
	if err := DefaultPipeline(s, opts...).Execute(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}
