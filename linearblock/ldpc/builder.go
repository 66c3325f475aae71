package ldpc

import (
	"fmt"
	"math/rand"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/sirupsen/logrus"
)

//DefaultMaxRepairPasses is the number of repair passes Build makes before giving up
const DefaultMaxRepairPasses = 10

//Builder constructs random simple bipartite graphs that realize exact degree sequences.
// A Builder is not safe for concurrent use because it shares Rand.
type Builder struct {
	Rand *rand.Rand
	//MaxRepairPasses bounds the number of full duplicate-edge repair passes.
	// Zero or less uses DefaultMaxRepairPasses.
	MaxRepairPasses int
}

//Build returns an (n-k) x n ConstraintGraph where row i has exactly rowDegrees[i] blocks and
// block j is in exactly colDegrees[j] constraints. The inputs are validated before any
// randomness is used.
func Build(rng *rand.Rand, n, k int, rowDegrees, colDegrees []int) (*linearblock.ConstraintGraph, error) {
	return (&Builder{Rand: rng}).Build(n, k, rowDegrees, colDegrees)
}

//Uniform is Build with every row of degree rowDegree and every column of degree colDegree
func Uniform(rng *rand.Rand, n, k, rowDegree, colDegree int) (*linearblock.ConstraintGraph, error) {
	return (&Builder{Rand: rng}).Uniform(n, k, rowDegree, colDegree)
}

func (b *Builder) passes() int {
	if b.MaxRepairPasses <= 0 {
		return DefaultMaxRepairPasses
	}
	return b.MaxRepairPasses
}

//Uniform builds a graph with constant row and column degrees, see UniformDegrees
func (b *Builder) Uniform(n, k, rowDegree, colDegree int) (*linearblock.ConstraintGraph, error) {
	rowDegrees, colDegrees, err := UniformDegrees(n, k, rowDegree, colDegree)
	if err != nil {
		return nil, err
	}
	return b.Build(n, k, rowDegrees, colDegrees)
}

//Build see the package level Build
func (b *Builder) Build(n, k int, rowDegrees, colDegrees []int) (*linearblock.ConstraintGraph, error) {
	edges, err := validate(n, k, rowDegrees, colDegrees)
	if err != nil {
		return nil, err
	}
	if b.Rand == nil {
		return nil, fmt.Errorf("%w: nil random source", linearblock.ErrInvalidInput)
	}

	// rowStubs stays grouped by row, colStubs gets shuffled
	rowStubs := stubs(rowDegrees, edges)
	colStubs := stubs(colDegrees, edges)
	Shuffle(b.Rand, colStubs)

	maxPasses := b.passes()
	for pass := 1; ; pass++ {
		collisions := repair(b.Rand, rowStubs, colStubs)
		logrus.Debugf("Repair pass %v fixed %v duplicate edges", pass, collisions)
		if collisions == 0 {
			break
		}
		if pass >= maxPasses {
			return nil, fmt.Errorf("%w: duplicate edges remain after %v repair passes", linearblock.ErrConstructionFailed, maxPasses)
		}
	}

	g, err := linearblock.NewConstraintGraph(n-k, n)
	if err != nil {
		return nil, err
	}
	for e := range rowStubs {
		if err := g.Set(rowStubs[e], colStubs[e], true); err != nil {
			return nil, err
		}
	}

	for i, d := range rowDegrees {
		if g.RowRank(i) != d {
			return nil, fmt.Errorf("%w: %w: row %v has rank %v, expected %v", linearblock.ErrConstructionFailed, linearblock.ErrInconsistent, i, g.RowRank(i), d)
		}
	}
	for j, d := range colDegrees {
		if g.ColRank(j) != d {
			return nil, fmt.Errorf("%w: %w: column %v has rank %v, expected %v", linearblock.ErrConstructionFailed, linearblock.ErrInconsistent, j, g.ColRank(j), d)
		}
	}
	return g, nil
}

//UniformDegrees returns constant degree sequences for an (n-k) x n graph. Both degrees must be
// at least 2 and less than half of the opposite dimension, and rowDegree*(n-k) == colDegree*n.
func UniformDegrees(n, k, rowDegree, colDegree int) (rowDegrees, colDegrees []int, err error) {
	if k <= 0 || n <= k {
		return nil, nil, fmt.Errorf("%w: requires 0 < k < n, found n=%v k=%v", linearblock.ErrInvalidInput, n, k)
	}
	if rowDegree < 2 || colDegree < 2 {
		return nil, nil, fmt.Errorf("%w: degrees must be at least 2, found row=%v col=%v", linearblock.ErrInvalidInput, rowDegree, colDegree)
	}
	if rowDegree >= n/2 || colDegree >= (n-k)/2 {
		return nil, nil, fmt.Errorf("%w: row degree %v must be less than %v and column degree %v less than %v", linearblock.ErrInvalidInput, rowDegree, n/2, colDegree, (n-k)/2)
	}
	if rowDegree*(n-k) != colDegree*n {
		return nil, nil, fmt.Errorf("%w: %v*%v != %v*%v", linearblock.ErrDegreeSequenceMismatch, rowDegree, n-k, colDegree, n)
	}

	rowDegrees = make([]int, n-k)
	for i := range rowDegrees {
		rowDegrees[i] = rowDegree
	}
	colDegrees = make([]int, n)
	for i := range colDegrees {
		colDegrees[i] = colDegree
	}
	return rowDegrees, colDegrees, nil
}

//Shuffle permutes a in place: for each i from 0 to len(a)-2 it swaps a[i] with a uniformly
// chosen element of a[i:].
func Shuffle(rng *rand.Rand, a []int) {
	for i := 0; i < len(a)-1; i++ {
		j := i + rng.Intn(len(a)-i)
		a[i], a[j] = a[j], a[i]
	}
}

//validate checks the degree sequences and returns the total number of edges
func validate(n, k int, rowDegrees, colDegrees []int) (int, error) {
	if k <= 0 || n <= k {
		return 0, fmt.Errorf("%w: requires 0 < k < n, found n=%v k=%v", linearblock.ErrInvalidInput, n, k)
	}
	if len(rowDegrees) != n-k {
		return 0, fmt.Errorf("%w: expected %v row degrees but found %v", linearblock.ErrInvalidInput, n-k, len(rowDegrees))
	}
	if len(colDegrees) != n {
		return 0, fmt.Errorf("%w: expected %v column degrees but found %v", linearblock.ErrInvalidInput, n, len(colDegrees))
	}

	rowTotal := 0
	for i, d := range rowDegrees {
		if d <= 0 || d > n {
			return 0, fmt.Errorf("%w: row %v degree %v not in [1,%v]", linearblock.ErrInvalidInput, i, d, n)
		}
		rowTotal += d
	}
	colTotal := 0
	for j, d := range colDegrees {
		if d <= 0 || d > n-k {
			return 0, fmt.Errorf("%w: column %v degree %v not in [1,%v]", linearblock.ErrInvalidInput, j, d, n-k)
		}
		colTotal += d
	}
	if rowTotal != colTotal {
		return 0, fmt.Errorf("%w: rows total %v edges, columns total %v", linearblock.ErrDegreeSequenceMismatch, rowTotal, colTotal)
	}
	return rowTotal, nil
}

//stubs repeats each index degrees[index] times, in index order
func stubs(degrees []int, total int) []int {
	result := make([]int, 0, total)
	for i, d := range degrees {
		for a := 0; a < d; a++ {
			result = append(result, i)
		}
	}
	return result
}

//repair makes one pass over each row's block of stubs and swaps every column that repeats
// within the row with a random slot. It returns the number of swaps made.
func repair(rng *rand.Rand, rowStubs, colStubs []int) int {
	swaps := 0
	total := len(rowStubs)
	for i := 0; i < total; i++ {
		for j := i + 1; j < total && rowStubs[i] == rowStubs[j]; j++ {
			if colStubs[i] == colStubs[j] {
				s := rng.Intn(total)
				colStubs[j], colStubs[s] = colStubs[s], colStubs[j]
				swaps++
			}
		}
	}
	return swaps
}
