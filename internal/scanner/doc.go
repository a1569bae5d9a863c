// Package scanner coordinates a scan: it materializes the candidate list
// from the walker and fans it out across a bounded pool of workers that
// fingerprint each file independently.
//
// A file that cannot be fingerprinted is reported to the diagnostics sink
// and dropped; it never aborts the scan. The only fatal condition is a
// root that cannot be enumerated, which is reported before any worker
// starts.
//
// The worker pool is an errgroup bounded with SetLimit. Each candidate owns
// one pre-allocated result slot; the only other shared state is the failure
// counter and the progress observer.
package scanner
