package model

import "fmt"

// Diagnostic describes a file that could not be fingerprinted.
// The file is dropped from the results; the scan continues.
type Diagnostic struct {
	// Path is the candidate that failed.
	Path string

	// Err is the underlying I/O error.
	Err error
}

// String renders the diagnostic as a single line for an error stream.
func (d Diagnostic) String() string {
	return fmt.Sprintf("Failed to hash file %s: %v", d.Path, d.Err)
}

// Error implements the error interface so a Diagnostic can be wrapped or joined.
func (d Diagnostic) Error() string {
	return d.String()
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}
