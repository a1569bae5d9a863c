package fingerprint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/nao1215/dupscan/internal/model"
)

// DefaultBufferSize is the read buffer used while streaming file content.
const DefaultBufferSize = 256 * 1024

// ErrFingerprint marks failures to open or read a candidate file.
// The wrapped error chain also contains the underlying os error, so
// errors.Is(err, fs.ErrPermission) keeps working.
var ErrFingerprint = errors.New("fingerprint failed")

// Fingerprinter computes content fingerprints.
// It is safe for concurrent use; each call uses its own hash state and
// borrows a read buffer from an internal pool.
type Fingerprinter struct {
	algorithm  Algorithm
	bufferSize int
	buffers    sync.Pool
}

// Option configures a Fingerprinter.
type Option func(*Fingerprinter)

// WithAlgorithm selects the digest algorithm.
func WithAlgorithm(alg Algorithm) Option {
	return func(f *Fingerprinter) {
		if alg.New != nil {
			f.algorithm = alg
		}
	}
}

// WithBufferSize sets the streaming buffer size in bytes.
// Non-positive values keep the default.
func WithBufferSize(n int) Option {
	return func(f *Fingerprinter) {
		if n > 0 {
			f.bufferSize = n
		}
	}
}

// New creates a Fingerprinter. The default algorithm is sha256.
func New(opts ...Option) *Fingerprinter {
	f := &Fingerprinter{
		algorithm:  algorithms[DefaultAlgorithm],
		bufferSize: DefaultBufferSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	size := f.bufferSize
	f.buffers.New = func() any {
		buf := make([]byte, size)
		return &buf
	}

	return f
}

// Algorithm returns the configured algorithm.
func (f *Fingerprinter) Algorithm() Algorithm {
	return f.algorithm
}

// Fingerprint streams the file at path through the digest and returns the
// fingerprint together with the number of bytes read.
// It never modifies the file and does not retry on failure.
func (f *Fingerprinter) Fingerprint(path string) (model.Fingerprint, int64, error) {
	file, err := os.Open(path) //nolint:gosec // scanning arbitrary user paths is the purpose
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrFingerprint, err)
	}
	defer file.Close()

	fp, n, err := f.Sum(file)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrFingerprint, err)
	}
	return fp, n, nil
}

// Sum digests everything readable from r.
func (f *Fingerprinter) Sum(r io.Reader) (model.Fingerprint, int64, error) {
	bufp, ok := f.buffers.Get().(*[]byte)
	if !ok {
		b := make([]byte, f.bufferSize)
		bufp = &b
	}
	defer f.buffers.Put(bufp)

	hasher := f.algorithm.New()
	n, err := io.CopyBuffer(hasher, onlyReader{r}, *bufp)
	if err != nil {
		return "", n, err
	}
	return model.Fingerprint(hex.EncodeToString(hasher.Sum(nil))), n, nil
}

// onlyReader hides WriterTo/ReaderFrom so io.CopyBuffer uses our buffer.
type onlyReader struct {
	io.Reader
}
