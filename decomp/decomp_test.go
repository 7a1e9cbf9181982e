package decomp

import (
	"math"
	"testing"

	"github.com/ionspark/vela2d/vector"
)

// concavePentagon is the S6 scenario fixture from spec.md §8.
func concavePentagon() []vector.Vector {
	return []vector.Vector{
		{-1, 1}, {-1, 0}, {1, 0}, {1, 1}, {0.5, 0.5},
	}
}

func sumArea(pieces [][]vector.Vector) float64 {
	total := 0.0
	for _, p := range pieces {
		total += PolygonArea(p)
	}
	return total
}

func TestQuickDecompConcavePentagon(t *testing.T) {
	poly := concavePentagon()
	inputArea := PolygonArea(poly)

	pieces := QuickDecomp(poly, nil)
	if len(pieces) != 2 {
		t.Fatalf("QuickDecomp() returned %d pieces, want 2", len(pieces))
	}

	for i, piece := range pieces {
		if got := IsConvexPiece(piece); !got {
			t.Errorf("piece %d is not convex: %v", i, piece)
		}
	}

	if got := sumArea(pieces); math.Abs(got-inputArea) > 1e-9 {
		t.Errorf("sumArea(pieces) = %v, want %v", got, inputArea)
	}
}

func TestDecompConcavePentagonAreaPreserved(t *testing.T) {
	poly := concavePentagon()
	inputArea := PolygonArea(poly)

	pieces := Decomp(poly, nil)
	if len(pieces) == 0 {
		t.Fatalf("Decomp() returned no pieces")
	}
	for i, piece := range pieces {
		if !IsConvexPiece(piece) {
			t.Errorf("piece %d is not convex: %v", i, piece)
		}
	}
	if got := sumArea(pieces); math.Abs(got-inputArea) > 1e-9 {
		t.Errorf("sumArea(pieces) = %v, want %v", got, inputArea)
	}
}

func TestQuickDecompConvexInputIsUnchanged(t *testing.T) {
	square := []vector.Vector{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	pieces := QuickDecomp(square, nil)
	if len(pieces) != 1 {
		t.Fatalf("QuickDecomp() of a convex square returned %d pieces, want 1", len(pieces))
	}
}

func TestConvexFallsBackToHullOnNonSimplePolygon(t *testing.T) {
	// A self-intersecting "bowtie".
	bowtie := []vector.Vector{{0, 0}, {10, 10}, {10, 0}, {0, 10}}
	var warned bool
	pieces := Convex(bowtie, func(string) { warned = true })
	if !warned {
		t.Errorf("expected a warning for a non-simple polygon")
	}
	if len(pieces) != 1 {
		t.Fatalf("fallback should return a single hull piece, got %d", len(pieces))
	}
}

func TestRemoveDuplicates(t *testing.T) {
	poly := []vector.Vector{{0, 0}, {0, 0.0001}, {10, 0}, {10, 10}, {0, 10}}
	cleaned := RemoveDuplicates(poly, 0.01)
	if len(cleaned) != 4 {
		t.Fatalf("RemoveDuplicates() = %d points, want 4", len(cleaned))
	}
}

func TestRemoveCollinear(t *testing.T) {
	poly := []vector.Vector{{0, 0}, {5, 0}, {10, 0}, {10, 10}, {0, 10}}
	cleaned := RemoveCollinear(poly, 0.01)
	if len(cleaned) != 4 {
		t.Fatalf("RemoveCollinear() = %d points, want 4 (midpoint on straight edge dropped)", len(cleaned))
	}
}

func TestIsSimple(t *testing.T) {
	tests := []struct {
		name string
		poly []vector.Vector
		want bool
	}{
		{"square", []vector.Vector{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
		{"bowtie", []vector.Vector{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSimple(tt.poly); got != tt.want {
				t.Errorf("IsSimple() = %v, want %v", got, tt.want)
			}
		})
	}
}

// IsConvexPiece is a small local wrapper so decomp tests don't need to
// import geometry directly for a one-line signed-cross check.
func IsConvexPiece(poly []vector.Vector) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	sawPos, sawNeg := false, false
	for i := 0; i < n; i++ {
		c := cross3(at(poly, i), at(poly, i+1), at(poly, i+2))
		if c > 1e-9 {
			sawPos = true
		} else if c < -1e-9 {
			sawNeg = true
		}
	}
	return !(sawPos && sawNeg)
}
