package matcher

import (
	"sort"

	"github.com/scanforge/multiscan/pkg/types"
)

// sortMatches orders matches by (start, end, kind, pattern id) — the
// order §4.4 and §8's testable property 5 require within a single
// Match/Feed call.
func sortMatches(matches []types.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return types.Less(matches[i], matches[j])
	})
}
