package services

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float32
		want    float64
		wantErr bool
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "scaled copies", a: []float32{1, 2, 3}, b: []float32{2, 4, 6}, want: 1},
		{name: "orthogonal", a: []float32{1, 0, 0}, b: []float32{0, 1, 0}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "diagonal", a: []float32{1, 0}, b: []float32{1, 1}, want: 1 / math.Sqrt2},
		{name: "zero norm scores zero", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "empty", a: []float32{}, b: []float32{}, wantErr: true},
		{name: "dimension mismatch", a: []float32{1, 0, 0}, b: []float32{1, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got similarity %f", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}

	if _, err := CosineSimilarity(nil, []float32{1}); !errors.Is(err, ErrEmptyEmbedding) {
		t.Errorf("nil vector: expected ErrEmptyEmbedding, got %v", err)
	}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		want       float64
	}{
		{name: "perfect", similarity: 1, want: 100},
		{name: "float noise above one", similarity: 1.0000000596, want: 100},
		{name: "rounds to two places", similarity: 1 / math.Sqrt2, want: 70.71},
		{name: "zero", similarity: 0, want: 0},
		{name: "negative is not clamped", similarity: -0.5, want: -50},
		{name: "small negative", similarity: -0.123456, want: -12.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchScore(tt.similarity); got != tt.want {
				t.Errorf("MatchScore(%v) = %v, want %v", tt.similarity, got, tt.want)
			}
		})
	}
}

func TestRoundToUsesExactBinaryValue(t *testing.T) {
	// 2.675 is stored as 2.67499999..., and 0.125 is an exact tie
	if got := roundTo(2.675, 2); got != 2.67 {
		t.Errorf("roundTo(2.675, 2) = %v, want 2.67", got)
	}
	if got := roundTo(0.125, 2); got != 0.12 {
		t.Errorf("roundTo(0.125, 2) = %v, want 0.12", got)
	}
}
