// Package aggregate groups scanner entries by fingerprint and ranks the
// groups for reporting.
//
// Ordering rules:
//   - Members of a group are sorted by path, so the representative is the
//     lexicographically smallest path. This makes reports identical across
//     runs even though workers finish in a different order every time.
//   - Groups are sorted by descending member count; ties are broken by
//     ascending fingerprint.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/nao1215/dupscan/internal/model"
)

// Aggregate groups entries by fingerprint and returns the ranked groups.
// It performs no I/O and does not retain entries.
func Aggregate(entries []model.Entry) []model.Group {
	index := make(map[model.Fingerprint]int, len(entries))
	groups := make([]model.Group, 0)

	for _, e := range entries {
		i, ok := index[e.Fingerprint]
		if !ok {
			i = len(groups)
			index[e.Fingerprint] = i
			groups = append(groups, model.Group{Fingerprint: e.Fingerprint})
		}
		groups[i].Members = append(groups[i].Members, e.Record)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Members, func(a, b model.FileRecord) int {
			return cmp.Compare(a.Path, b.Path)
		})
	}

	Rank(groups)
	return groups
}

// Rank sorts groups in place by descending member count, then ascending
// fingerprint.
func Rank(groups []model.Group) {
	slices.SortStableFunc(groups, func(a, b model.Group) int {
		if c := cmp.Compare(b.Count(), a.Count()); c != 0 {
			return c
		}
		return cmp.Compare(a.Fingerprint, b.Fingerprint)
	})
}

// Into aggregates the entries held by result and stores the ranked groups.
func Into(result *model.ScanResult) {
	result.Groups = Aggregate(result.Entries())
}
