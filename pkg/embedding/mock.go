package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

/*
Mock is a deterministic bag-of-words embedder for tests and offline
development. Identical texts get identical vectors, and texts sharing
words get a positive cosine similarity.
*/
type Mock struct {
	Dimensions int
}

func NewMock(dimensions int) *Mock {
	if dimensions <= 0 {
		dimensions = 64
	}

	return &Mock{Dimensions: dimensions}
}

func (m *Mock) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	vector := make([]float32, m.Dimensions)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()…")

		if word == "" {
			continue
		}

		h := fnv.New32a()
		h.Write([]byte(word))
		vector[h.Sum32()%uint32(m.Dimensions)]++
	}

	var norm float64

	for _, v := range vector {
		norm += float64(v * v)
	}

	if norm == 0 {
		return vector, nil
	}

	norm = math.Sqrt(norm)

	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}

	return vector, nil
}

// Cosine is the similarity the excerpt_embedding index is built with.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
