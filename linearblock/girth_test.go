package linearblock

import (
	"context"
	"strconv"
	"testing"
)

func graphOf(t testing.TB, rows, cols int, values ...int) *ConstraintGraph {
	g, err := NewConstraintGraph(rows, cols)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	for i, v := range values {
		if v == 0 {
			continue
		}
		if err := g.Set(i/cols, i%cols, true); err != nil {
			t.Fatalf("expected no error but found: %v", err)
		}
	}
	return g
}

func identity(t testing.TB, size int) *ConstraintGraph {
	g, err := NewConstraintGraph(size, size+1)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	for i := 0; i < size; i++ {
		g.Set(i, i, true)
	}
	return g
}

func TestCalculateGirthLowerBound(t *testing.T) {
	tests := []struct {
		h        *ConstraintGraph
		minGirth int
		expected int
	}{
		{identity(t, 500), -1, -1},
		{identity(t, 500), 4, -1},
		{graphOf(t, 2, 3, 1, 1, 0, 1, 1, 0), -1, 4},
		{graphOf(t, 2, 3, 1, 1, 0, 1, 1, 0), 6, 4},
		{graphOf(t, 2, 3, 1, 0, 0, 0, 1, 0), -1, -1},
		{graphOf(t, 2, 3, 1, 0, 0, 0, 1, 0), 4, -1},
		{graphOf(t, 4, 8, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1), -1, 8},
		{graphOf(t, 3, 6, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1), -1, 6},
		{graphOf(t, 3, 6, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1), 6, 6},
		{graphOf(t, 3, 6, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1), 4, -1},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := CalculateGirthLowerBound(context.Background(), test.h, test.minGirth, 0)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestCalculateCycleLowerBound(t *testing.T) {
	tests := []struct {
		h          *ConstraintGraph
		checkIndex int
		minGirth   int
		expected   int
	}{
		{graphOf(t, 2, 3, 1, 1, 0, 1, 1, 0), 0, -1, 4},
		{graphOf(t, 2, 3, 1, 1, 0, 1, 1, 0), 0, 6, 4},
		{graphOf(t, 2, 3, 1, 0, 0, 0, 1, 0), 0, -1, -1},
		{graphOf(t, 2, 3, 1, 0, 0, 0, 1, 0), 0, 4, -1},
		{graphOf(t, 2, 3, 1, 0, 0, 1, 0, 0), 0, -1, -1},
		{graphOf(t, 2, 3, 1, 0, 0, 1, 0, 0), 0, 4, -1},
		{identity(t, 500), 0, -1, -1},
		{identity(t, 500), 0, 4, -1},
		{graphOf(t, 4, 8, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1), 0, -1, 8},
		{graphOf(t, 3, 6, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1), 0, -1, 6},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := CalculateCycleLowerBound(test.h, test.checkIndex, test.minGirth)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestHasGirthSmallerThan(t *testing.T) {
	h := graphOf(t, 3, 6, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1)
	if HasGirthSmallerThan(context.Background(), h, 6, 0) {
		t.Fatalf("expected no cycle smaller than 6")
	}
	if !HasGirthSmallerThan(context.Background(), h, 8, 0) {
		t.Fatalf("expected a cycle smaller than 8")
	}
}

func BenchmarkCalculateGirthLowerBound(b *testing.B) {
	h := graphOf(b, 2, 3, 1, 1, 0, 1, 1, 0)
	for i := 0; i < b.N; i++ {
		CalculateGirthLowerBound(context.Background(), h, -1, 1)
	}
}

func BenchmarkCalculateGirthLowerBound2(b *testing.B) {
	h := identity(b, 10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CalculateGirthLowerBound(context.Background(), h, -1, 0)
	}
}
