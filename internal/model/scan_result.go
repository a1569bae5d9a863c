package model

import "time"

// ScanResult is the outcome of one scan of a directory tree.
// It is filled in step by step by the pipeline: candidates first, then
// entries, then the ranked groups.
type ScanResult struct {
	// Root is the directory that was scanned.
	Root string `json:"root"`

	// Algorithm is the name of the digest algorithm used for fingerprints.
	Algorithm string `json:"algorithm"`

	// DateScanned is when the scan started.
	DateScanned time.Time `json:"date_scanned"`

	// Elapsed is the wall-clock duration of the scan. Reports carry it in
	// their own unit, so it is not part of the JSON encoding.
	Elapsed time.Duration `json:"-"`

	// Candidates is the number of regular files found by enumeration.
	Candidates int `json:"candidates"`

	// Failed is the number of candidates that could not be fingerprinted.
	Failed int `json:"failed"`

	// Groups is ordered by descending member count, ties by fingerprint.
	Groups []Group `json:"groups"`

	// HiddenGroups is the number of groups dropped by Filter.
	HiddenGroups int `json:"hidden_groups,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// candidates and entries hold intermediate pipeline state.
	// They are never serialized.
	candidates []string
	entries    []Entry
}

// NewScanResult creates an empty result for the given root.
func NewScanResult(root, algorithm string) *ScanResult {
	return &ScanResult{
		Root:        root,
		Algorithm:   algorithm,
		DateScanned: time.Now(),
		Groups:      make([]Group, 0),
	}
}

// SetCandidates records the enumerated candidate paths.
func (r *ScanResult) SetCandidates(paths []string) {
	r.candidates = paths
	r.Candidates = len(paths)
}

// CandidatePaths returns the enumerated candidate paths.
func (r *ScanResult) CandidatePaths() []string {
	return r.candidates
}

// SetEntries records the fingerprinting output and the failure count.
func (r *ScanResult) SetEntries(entries []Entry, failed int) {
	r.entries = entries
	r.Failed = failed
}

// Entries returns the fingerprinting output.
func (r *ScanResult) Entries() []Entry {
	return r.entries
}

// ReleaseIntermediate drops the candidate and entry slices once groups exist.
func (r *ScanResult) ReleaseIntermediate() {
	r.candidates = nil
	r.entries = nil
}

// TotalFiles returns the number of fingerprinted files across all groups.
func (r *ScanResult) TotalFiles() int {
	total := 0
	for _, g := range r.Groups {
		total += g.Count()
	}
	return total
}

// TotalBytes returns the summed size of every fingerprinted file.
func (r *ScanResult) TotalBytes() int64 {
	var total int64
	for _, g := range r.Groups {
		total += int64(g.Count()) * g.Size()
	}
	return total
}

// DuplicateGroups returns the number of groups with more than one member.
func (r *ScanResult) DuplicateGroups() int {
	count := 0
	for _, g := range r.Groups {
		if g.IsDuplicate() {
			count++
		}
	}
	return count
}

// DuplicateFiles returns the number of files that are redundant copies,
// i.e. every member of a duplicate group except its representative.
func (r *ScanResult) DuplicateFiles() int {
	count := 0
	for _, g := range r.Groups {
		if g.IsDuplicate() {
			count += g.Count() - 1
		}
	}
	return count
}

// ReclaimableBytes returns the bytes held by redundant copies.
func (r *ScanResult) ReclaimableBytes() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.WastedBytes()
	}
	return total
}

// HasDuplicates reports whether any group has more than one member.
func (r *ScanResult) HasDuplicates() bool {
	return r.DuplicateGroups() > 0
}

// Summaries returns the reporter view of every group, in rank order.
func (r *ScanResult) Summaries() []Summary {
	summaries := make([]Summary, len(r.Groups))
	for i, g := range r.Groups {
		summaries[i] = g.Summary()
	}
	return summaries
}

// Filter returns a shallow copy of the result whose groups are restricted
// to duplicates (when onlyDuplicates is set) and truncated to the first
// top groups (when top is positive). Rank order is preserved.
func (r *ScanResult) Filter(onlyDuplicates bool, top int) *ScanResult {
	filtered := *r
	groups := make([]Group, 0, len(r.Groups))
	for _, g := range r.Groups {
		if onlyDuplicates && !g.IsDuplicate() {
			continue
		}
		groups = append(groups, g)
	}
	if top > 0 && len(groups) > top {
		groups = groups[:top]
	}
	filtered.Groups = groups
	filtered.HiddenGroups = r.HiddenGroups + len(r.Groups) - len(groups)
	return &filtered
}
