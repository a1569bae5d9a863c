// Package fingerprint computes content fingerprints for files.
//
// A fingerprint is the lowercase hexadecimal rendering of a 256-bit class
// cryptographic digest over the full file content. The content is streamed
// through a fixed-size buffer, so peak memory does not depend on file size.
//
// Supported algorithms:
//   - sha256 (default)
//   - sha512-256
//   - sha3-256
//   - blake2b-256
package fingerprint
