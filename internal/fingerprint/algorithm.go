package fingerprint

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is the algorithm used when none is configured.
const DefaultAlgorithm = "sha256"

// ErrUnsupportedAlgorithm is returned for unknown algorithm names.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// Algorithm describes a digest algorithm usable for fingerprints.
type Algorithm struct {
	// Name is the canonical lowercase name.
	Name string

	// Size is the digest length in bytes.
	Size int

	// New returns a fresh hash state.
	New func() hash.Hash
}

var algorithms = map[string]Algorithm{
	"sha256": {
		Name: "sha256",
		Size: sha256.Size,
		New:  sha256.New,
	},
	"sha512-256": {
		Name: "sha512-256",
		Size: sha512.Size256,
		New:  sha512.New512_256,
	},
	"sha3-256": {
		Name: "sha3-256",
		Size: 32,
		New:  sha3.New256,
	},
	"blake2b-256": {
		Name: "blake2b-256",
		Size: blake2b.Size256,
		New: func() hash.Hash {
			// New256 only fails for keys longer than 64 bytes.
			h, _ := blake2b.New256(nil) //nolint:errcheck // nil key never fails
			return h
		},
	},
}

// LookupAlgorithm returns the algorithm registered under name.
// Matching is case-insensitive and ignores surrounding whitespace.
func LookupAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultAlgorithm
	}
	alg, ok := algorithms[key]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedAlgorithm, name, strings.Join(AlgorithmNames(), ", "))
	}
	return alg, nil
}

// AlgorithmNames returns the names of all supported algorithms, sorted.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
