package model

// Group is the set of all FileRecords sharing one Fingerprint.
//
// Members is never empty: a Group is only created when its fingerprint is
// first observed. The first member is the representative shown in reports.
type Group struct {
	// Fingerprint is the digest shared by every member.
	Fingerprint Fingerprint `json:"fingerprint"`

	// Members holds every file with this fingerprint.
	Members []FileRecord `json:"members"`
}

// Representative returns the record chosen for display.
func (g Group) Representative() FileRecord {
	if len(g.Members) == 0 {
		return FileRecord{}
	}
	return g.Members[0]
}

// Count returns the number of files in the group.
func (g Group) Count() int {
	return len(g.Members)
}

// Size returns the content size of the representative in bytes.
// All members share the same content, so any member would do.
func (g Group) Size() int64 {
	return g.Representative().Size
}

// IsDuplicate reports whether more than one file shares this fingerprint.
func (g Group) IsDuplicate() bool {
	return len(g.Members) > 1
}

// WastedBytes returns the bytes that would be freed by keeping one copy.
func (g Group) WastedBytes() int64 {
	if len(g.Members) < 2 {
		return 0
	}
	return int64(len(g.Members)-1) * g.Size()
}

// Paths returns the paths of all members in order.
func (g Group) Paths() []string {
	paths := make([]string, len(g.Members))
	for i, m := range g.Members {
		paths[i] = m.Path
	}
	return paths
}

// Summary returns the reporter view of the group.
func (g Group) Summary() Summary {
	rep := g.Representative()
	return Summary{
		Fingerprint:        g.Fingerprint,
		RepresentativePath: rep.Path,
		Count:              g.Count(),
		Size:               rep.Size,
	}
}

// Summary is the per-group view handed to reporters.
type Summary struct {
	Fingerprint        Fingerprint `json:"fingerprint"`
	RepresentativePath string      `json:"representative"`
	Count              int         `json:"count"`
	Size               int64       `json:"size"`
}
