package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrEmptyEmbedding = errors.New("empty embedding")

// CosineSimilarity returns dot(a,b) / (|a|*|b|). A zero-norm vector has no
// direction and scores 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyEmbedding
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, fmt.Errorf("similarity is not a finite number: %v", sim)
	}
	return sim, nil
}

// MatchScore scales a similarity to a percentage rounded to 2 decimal places.
// The value is not clamped, so negative similarities give negative scores.
func MatchScore(similarity float64) float64 {
	return roundTo(similarity*100, 2)
}

// roundTo rounds the exact binary value half-to-even via strconv.
func roundTo(v float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
