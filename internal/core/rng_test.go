package core

import (
	"math"
	"testing"
)

func TestFillWeightedExtremes(t *testing.T) {
	buf := make([]CellState, 500)
	r := NewRNG(7)

	r.FillWeighted(buf, 1, 0)
	for i, c := range buf {
		if c != Alive {
			t.Fatalf("cell %d dead with weights (1,0)", i)
		}
	}
	r.FillWeighted(buf, 0, 1)
	for i, c := range buf {
		if c != Dead {
			t.Fatalf("cell %d alive with weights (0,1)", i)
		}
	}
	r.FillWeighted(buf, 0, 0)
	for i, c := range buf {
		if c != Dead {
			t.Fatalf("cell %d alive with weights (0,0)", i)
		}
	}
}

func TestFillWeightedFraction(t *testing.T) {
	buf := make([]CellState, 200*200)
	NewRNG(42).FillWeighted(buf, 1, 3)
	alive := 0
	for _, c := range buf {
		if c == Alive {
			alive++
		}
	}
	frac := float64(alive) / float64(len(buf))
	if math.Abs(frac-0.25) > 0.02 {
		t.Fatalf("alive fraction %.3f, want ~0.25", frac)
	}
}

func TestNewRNGDeterministic(t *testing.T) {
	a := make([]CellState, 64)
	b := make([]CellState, 64)
	NewRNG(3).FillWeighted(a, 1, 1)
	NewRNG(3).FillWeighted(b, 1, 1)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded fills diverge at %d", i)
		}
	}
}
