package ranking

import "math"

// ScoreRelevance maps a vector distance onto [0,1].
// Upstream cosine distances live in [0,2]; anything outside is clamped.
// A missing distance is treated as a trusted exact match; NaN, which the
// store reports for zero vectors, as the farthest possible one.
func ScoreRelevance(distance *float64) float64 {
	if distance == nil {
		return 1.0
	}
	if math.IsNaN(*distance) {
		return 0.0
	}
	relevance := 1.0 - *distance/2.0
	relevance = max(0.0, min(1.0, relevance))
	return math.Round(relevance*100) / 100
}
