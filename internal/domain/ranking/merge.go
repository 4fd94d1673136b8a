// Package ranking holds the pure merge and scoring rules shared by the agents
// and the coordinator.
package ranking

// MergeRanked combines two ranked id lists into one without duplicates.
// Every id from recommended comes first in its original order, followed by the
// ids of vectorMatches not seen yet. The engines produce incomparable scores,
// so no fusion is attempted: recommended order always wins.
// The result is truncated to limit entries; a non-positive limit yields an empty list.
func MergeRanked(recommended, vectorMatches []string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	merged := make([]string, 0, min(limit, len(recommended)+len(vectorMatches)))
	seen := make(map[string]struct{}, len(recommended)+len(vectorMatches))

	for _, list := range [][]string{recommended, vectorMatches} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
			if len(merged) == limit {
				return merged
			}
		}
	}

	return merged
}
