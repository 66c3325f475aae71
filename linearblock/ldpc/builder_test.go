package ldpc

import (
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/stretchr/testify/require"
)

func TestUniform(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		t.Run(strconv.Itoa(int(seed)), func(t *testing.T) {
			b := &Builder{Rand: rand.New(rand.NewSource(seed)), MaxRepairPasses: 100}
			g, err := b.Uniform(20, 10, 6, 3)
			require.NoError(t, err)

			rows, cols := g.Dims()
			require.Equal(t, 10, rows)
			require.Equal(t, 20, cols)
			require.Equal(t, 60, g.Edges())
			for i := 0; i < rows; i++ {
				require.Equal(t, 6, g.RowRank(i))
			}
			for j := 0; j < cols; j++ {
				require.Equal(t, 3, g.ColRank(j))
			}
			require.True(t, g.Validate())
		})
	}
}

func TestBuild_IrregularDegrees(t *testing.T) {
	rowDegrees := []int{4, 5, 3, 6, 2, 4}
	colDegrees := []int{2, 1, 3, 2, 2, 1, 2, 2, 1, 2, 2, 1, 3}
	b := &Builder{Rand: rand.New(rand.NewSource(42)), MaxRepairPasses: 100}

	g, err := b.Build(13, 7, rowDegrees, colDegrees)
	require.NoError(t, err)
	for i, d := range rowDegrees {
		require.Equal(t, d, g.RowRank(i), "row %v", i)
		require.Len(t, g.Row(i), d)
	}
	for j, d := range colDegrees {
		require.Equal(t, d, g.ColRank(j), "column %v", j)
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	tests := []struct {
		n, k       int
		rowDegrees []int
		colDegrees []int
		expected   error
	}{
		{4, 0, []int{1, 1, 1, 1}, []int{1, 1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 4, []int{}, []int{1, 1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 2, []int{2}, []int{1, 1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 2, []int{2, 2}, []int{1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 2, []int{0, 4}, []int{1, 1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 2, []int{5, 2}, []int{1, 1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 2, []int{2, 2}, []int{3, 1, 1, 1}, linearblock.ErrInvalidInput},
		{4, 2, []int{2, 3}, []int{1, 1, 1, 1}, linearblock.ErrDegreeSequenceMismatch},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := Build(rand.New(rand.NewSource(0)), test.n, test.k, test.rowDegrees, test.colDegrees)
			if !errors.Is(err, test.expected) {
				t.Fatalf("expected %v but found %v", test.expected, err)
			}
		})
	}
}

func TestUniform_Boundaries(t *testing.T) {
	tests := []struct {
		n, k, row, col int
		expected       error
	}{
		{20, 10, 1, 3, linearblock.ErrInvalidInput},
		{20, 10, 6, 1, linearblock.ErrInvalidInput},
		{20, 10, 10, 5, linearblock.ErrInvalidInput},
		{20, 10, 6, 5, linearblock.ErrInvalidInput},
		{20, 10, 4, 3, linearblock.ErrDegreeSequenceMismatch},
		{10, 10, 4, 2, linearblock.ErrInvalidInput},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			_, err := Uniform(rng, test.n, test.k, test.row, test.col)
			if !errors.Is(err, test.expected) {
				t.Fatalf("expected %v but found %v", test.expected, err)
			}

			// nothing was drawn from rng
			fresh := rand.New(rand.NewSource(7))
			if rng.Int63() != fresh.Int63() {
				t.Fatalf("expected the random source to be untouched")
			}
		})
	}
}

func TestBuild_RepairBudget(t *testing.T) {
	// rows 0 and 1 both need every column but column 3 only has one edge
	rowDegrees := []int{4, 4, 1}
	colDegrees := []int{3, 3, 2, 1}
	for _, passes := range []int{0, 1, 25} {
		b := &Builder{Rand: rand.New(rand.NewSource(1)), MaxRepairPasses: passes}
		_, err := b.Build(4, 1, rowDegrees, colDegrees)
		require.ErrorIs(t, err, linearblock.ErrConstructionFailed)
	}
}

func TestShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	Shuffle(rng, a)

	sorted := append([]int(nil), a...)
	sort.Ints(sorted)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)

	// every position is reachable for the first element
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		b := []int{0, 1, 2, 3}
		Shuffle(rng, b)
		seen[b[0]] = true
	}
	require.Len(t, seen, 4)

	Shuffle(rng, nil)
	Shuffle(rng, []int{5})
}
