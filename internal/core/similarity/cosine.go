// Package similarity compares embedding vectors and holds the fixed thresholds used
// for deduplication and document routing.
package similarity

import "math"

const (
	// DuplicateThreshold is exclusive: a score must exceed it to count as a duplicate.
	DuplicateThreshold   = 0.88
	HighMatchThreshold   = 0.55
	MediumMatchThreshold = 0.40

	epsilon = 1e-8
)

// Cosine returns dot(a, b) / (|a|*|b| + 1e-8). Vectors of different length score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + epsilon)
}

func IsDuplicate(score float64) bool {
	return score > DuplicateThreshold
}

// Percent renders a score as a rounded whole percentage.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}
