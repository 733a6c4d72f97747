package match

import "math"

// mean computes the elementwise mean of the provided vectors. All vectors
// are expected to share the embedding model's fixed dimension.
func mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, vec := range vectors {
		for i := 0; i < dim && i < len(vec); i++ {
			sum[i] += float64(vec[i])
		}
	}

	out := make([]float32, dim)
	for i, v := range sum {
		out[i] = float32(v / float64(len(vectors)))
	}
	return out
}

// cosine returns the cosine similarity of two vectors. A zero-norm vector on
// either side yields 0 rather than dividing by zero.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// scaleSimilarity converts a cosine similarity to an integer fit score:
// round(100 x similarity) clamped to [0, 100].
func scaleSimilarity(similarity float64) int {
	score := int(math.Round(100 * similarity))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
