package ml

import (
	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns a·b / (|a||b|). Zero-magnitude vectors and
// vectors of different length score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(a, b) / (normA * normB)
}

// Centroid returns the element-wise mean of vectors.
func Centroid(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}

	centroid := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		floats.Add(centroid, v)
	}
	floats.Scale(1/float64(len(vectors)), centroid)

	return centroid
}
