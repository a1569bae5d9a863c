// Package main provides the entry point for the dupscan CLI.
//
// dupscan walks a directory tree, fingerprints every regular file by
// content and reports which files share the same content.
//
// Usage:
//
//	dupscan scan <root>
//	dupscan scan --duplicates-only --json <root>
//
// See --help for all available options.
package main

// main is the entry point for dupscan.
func main() {
	Execute()
}
