package tornado

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/stretchr/testify/require"
)

func TestLeftDegrees_Total(t *testing.T) {
	for d := 2; d < 60; d++ {
		sizes := []int{d + 2, d + 3, d + 17, 1000, 20480}
		for _, nBlocks := range sizes {
			left, err := LeftDegrees(d, nBlocks)
			require.NoError(t, err, "d=%v nBlocks=%v", d, nBlocks)
			require.Equal(t, nBlocks, Nodes(left), "d=%v nBlocks=%v", d, nBlocks)
			require.Len(t, left, d+2)
			require.Zero(t, left[0])
			require.Zero(t, left[1])
			for i, c := range left {
				require.GreaterOrEqual(t, c, 0, "degree %v", i)
			}
		}
	}
}

func TestLeftDegrees_OutOfRange(t *testing.T) {
	tests := []struct{ d, nBlocks int }{
		{1, 100},
		{0, 100},
		{5, 6},
		{2, 2},
	}
	for _, test := range tests {
		_, err := LeftDegrees(test.d, test.nBlocks)
		if !errors.Is(err, linearblock.ErrParameterOutOfRange) {
			t.Fatalf("expected %v but found %v", linearblock.ErrParameterOutOfRange, err)
		}
	}
}

func TestRightDegrees_Totals(t *testing.T) {
	tests := []struct{ nBlocks, nCheck, d int }{
		{20480, 10240, 100},
		{40960, 20480, 200},
		{1000, 500, 20},
		{200, 100, 8},
		{100, 50, 10},
		{20, 10, 5},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v_%v_%v", test.nBlocks, test.nCheck, test.d), func(t *testing.T) {
			left, err := LeftDegrees(test.d, test.nBlocks)
			require.NoError(t, err)
			edges := Edges(left)

			right, err := RightDegrees(test.nCheck, edges)
			require.NoError(t, err)
			require.Equal(t, test.nCheck, Nodes(right))
			require.Equal(t, edges, Edges(right))
			require.GreaterOrEqual(t, len(right), 5)
			require.Zero(t, right[0]+right[1]+right[2])
			for i, c := range right {
				require.GreaterOrEqual(t, c, 0, "degree %v", i)
			}
		})
	}
}

func TestRightDegrees_Sweep(t *testing.T) {
	for n := 20; n < 200; n += 2 {
		k := n / 2
		for d := 2; d+1 <= n-k && d+2 <= n; d++ {
			left, err := LeftDegrees(d, n)
			require.NoError(t, err)
			edges := Edges(left)
			right, err := RightDegrees(n-k, edges)
			if errors.Is(err, linearblock.ErrInconsistent) {
				// small windows can leave too few edges for degrees 3 and 4
				continue
			}
			require.NoError(t, err, "n=%v d=%v", n, d)
			require.Equal(t, n-k, Nodes(right), "n=%v d=%v", n, d)
			require.Equal(t, edges, Edges(right), "n=%v d=%v", n, d)
		}
	}
}

func TestRightDegrees_Residual(t *testing.T) {
	// the top down allocation leaves one edge and no nodes
	_, err := RightDegrees(6, 35)
	require.ErrorIs(t, err, linearblock.ErrInconsistent)
	_, err = RightDegrees(7, 44)
	require.ErrorIs(t, err, linearblock.ErrInconsistent)

	// one node and two edges left: a degree 4 node becomes degree 3
	left, err := LeftDegrees(5, 20)
	require.NoError(t, err)
	right, err := RightDegrees(10, Edges(left))
	require.NoError(t, err)
	require.Equal(t, 10, Nodes(right))
	require.Equal(t, Edges(left), Edges(right))
	require.Greater(t, right[3], 0)
}

func TestRightDegrees_OutOfRange(t *testing.T) {
	_, err := RightDegrees(0, 10)
	require.ErrorIs(t, err, linearblock.ErrParameterOutOfRange)
	_, err = RightDegrees(10, 29)
	require.ErrorIs(t, err, linearblock.ErrParameterOutOfRange)
	_, err = RightDegrees(10, 400)
	require.ErrorIs(t, err, linearblock.ErrParameterOutOfRange)
}

func TestAlpha(t *testing.T) {
	for _, avg := range []float64{1.5, 3, 4.5, 10.47, 29.9, 30} {
		a, err := Alpha(avg)
		require.NoError(t, err)
		require.GreaterOrEqual(t, a, avg-1)
		require.LessOrEqual(t, a, avg)
		actual := a * math.Exp(a) / (math.Exp(a) - 1)
		require.InDelta(t, avg, actual, 1e-9)
	}

	for _, avg := range []float64{0.5, 1, 30.01} {
		_, err := Alpha(avg)
		require.ErrorIs(t, err, linearblock.ErrParameterOutOfRange)
	}
}

func TestRho(t *testing.T) {
	// rho is a poisson mass shifted by one so it sums to 1
	alpha := 4.2
	total := 0.0
	for i := 1; i <= 100; i++ {
		total += Rho(alpha, i)
	}
	require.InDelta(t, 1.0, total, 1e-12)
	require.InDelta(t, math.Exp(-alpha), Rho(alpha, 1), 1e-15)
	require.Zero(t, Rho(alpha, 0))
	require.Zero(t, Rho(alpha, 172))
}

func TestExpand(t *testing.T) {
	hist := []int{0, 0, 3, 1, 0, 2}
	require.Equal(t, []int{2, 2, 2, 3, 5, 5}, Expand(hist))
	require.Equal(t, 6, Nodes(hist))
	require.Equal(t, 19, Edges(hist))
	require.Equal(t, 5, MaxDegree(hist))
	require.Zero(t, MaxDegree([]int{0, 0}))
}

func TestDegrees(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	rowDegrees, colDegrees, err := Degrees(rng, 1000, 500, 20)
	require.NoError(t, err)
	require.Len(t, rowDegrees, 500)
	require.Len(t, colDegrees, 1000)

	rowTotal, colTotal := 0, 0
	for _, d := range rowDegrees {
		require.GreaterOrEqual(t, d, 3)
		rowTotal += d
	}
	for _, d := range colDegrees {
		require.GreaterOrEqual(t, d, 2)
		require.LessOrEqual(t, d, 21)
		colTotal += d
	}
	require.Equal(t, rowTotal, colTotal)

	_, _, err = Degrees(rng, 20, 10, 10)
	require.ErrorIs(t, err, linearblock.ErrParameterOutOfRange)
	_, _, err = Degrees(rng, 10, 10, 3)
	require.ErrorIs(t, err, linearblock.ErrInvalidInput)
}

func TestNew(t *testing.T) {
	gen := &Generator{
		Builder: &ldpc.Builder{Rand: rand.New(rand.NewSource(5)), MaxRepairPasses: 100},
		D:       8,
	}
	g, err := gen.New(200, 100)
	require.NoError(t, err)
	require.True(t, g.Validate())

	left, err := LeftDegrees(8, 200)
	require.NoError(t, err)
	right, err := RightDegrees(100, Edges(left))
	require.NoError(t, err)

	rows, cols := g.Dims()
	rowRanks := make([]int, rows)
	for i := range rowRanks {
		rowRanks[i] = g.RowRank(i)
	}
	colRanks := make([]int, cols)
	for j := range colRanks {
		colRanks[j] = g.ColRank(j)
	}
	sort.Ints(rowRanks)
	sort.Ints(colRanks)
	require.Equal(t, Expand(right), rowRanks)
	require.Equal(t, Expand(left), colRanks)
	require.Equal(t, Edges(left), g.Edges())
}
