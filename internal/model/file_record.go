package model

// Fingerprint is the lowercase hexadecimal digest of a file's full content.
// Two files with equal Fingerprints are treated as duplicates; digest
// collisions are accepted as negligible.
type Fingerprint string

// String returns the fingerprint as a plain string.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns the first n characters of the fingerprint.
// If n is not positive or exceeds the fingerprint length, the whole
// fingerprint is returned.
func (f Fingerprint) Short(n int) string {
	if n <= 0 || n >= len(f) {
		return string(f)
	}
	return string(f[:n])
}

// FileRecord describes one successfully fingerprinted file.
// It is created once by the scanner and never modified afterwards.
type FileRecord struct {
	// Path is the filesystem path as produced by enumeration.
	Path string `json:"path"`

	// Size is the number of content bytes that were digested.
	Size int64 `json:"size"`
}

// Entry is a single scanner output: the fingerprint of a file and its record.
type Entry struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Record      FileRecord  `json:"record"`
}

// NewEntry creates an Entry for the given fingerprint, path, and size.
func NewEntry(fp Fingerprint, path string, size int64) Entry {
	return Entry{
		Fingerprint: fp,
		Record: FileRecord{
			Path: path,
			Size: size,
		},
	}
}
