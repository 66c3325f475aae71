package gallager

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/sirupsen/logrus"
)

//New creates a regular (n-k) x n constraint graph from wc bands of (n-k)/wc rows. The first band
// gives every row wr consecutive blocks and every later band is a random column permutation of
// the first. A band that closes a cycle shorter than smallestCycleAllowed is redrawn, and
// after maxIter draws New gives up with ErrConstructionFailed.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func New(ctx context.Context, rng *rand.Rand, n, k, wc, wr, smallestCycleAllowed, maxIter, threads int) (*linearblock.ConstraintGraph, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", linearblock.ErrInvalidInput)
	}
	if k <= 0 || n <= k {
		return nil, fmt.Errorf("%w: requires 0 < k < n, found n=%v k=%v", linearblock.ErrInvalidInput, n, k)
	}
	if 3 > wc {
		return nil, fmt.Errorf("%w: wc must be greater than or equal to 3", linearblock.ErrInvalidInput)
	}
	if wc >= wr {
		return nil, fmt.Errorf("%w: wc (%v) must be less than wr (%v)", linearblock.ErrInvalidInput, wc, wr)
	}
	m := n - k
	if m%wc != 0 {
		return nil, fmt.Errorf("%w: wc (%v) must divide n-k (%v)", linearblock.ErrInvalidInput, wc, m)
	}
	if m/wc*wr != n {
		return nil, fmt.Errorf("%w: n (%v) must equal (n-k)/wc*wr (%v)", linearblock.ErrInvalidInput, n, m/wc*wr)
	}
	if smallestCycleAllowed%2 != 0 || smallestCycleAllowed < 4 {
		return nil, fmt.Errorf("%w: smallestCycle must be an even number >= 4", linearblock.ErrInvalidInput)
	}

	K := m / wc
	g, err := linearblock.NewConstraintGraph(m, n)
	if err != nil {
		return nil, err
	}

	// the first band is fixed
	if err := setBand(g, identity(n), 0, K, wr, true); err != nil {
		return nil, err
	}

	iter := maxIter
	s := 1
	for s < wc && iter > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iter--
		logrus.Debugf("Iterations remaining %v", iter)

		perm := permutation(rng, n)
		if err := setBand(g, perm, s, K, wr, true); err != nil {
			return nil, err
		}

		calGirth := linearblock.CalculateGirthLowerBound(ctx, g, smallestCycleAllowed, threads)
		if -1 < calGirth && calGirth < smallestCycleAllowed {
			if err := setBand(g, perm, s, K, wr, false); err != nil {
				return nil, err
			}
			continue
		}
		s++
	}
	if s != wc {
		return nil, fmt.Errorf("%w: found %v of %v bands in %v iterations", linearblock.ErrConstructionFailed, s, wc, maxIter)
	}
	logrus.Debugf("Gallager constraint graph found")
	return g, nil
}

//setBand sets (or clears) the rows of band index. Row i of the band holds perm[c] for
// every c in [i*wr, (i+1)*wr).
func setBand(g *linearblock.ConstraintGraph, perm []int, index, K, wr int, value bool) error {
	offset := index * K
	for i := 0; i < K; i++ {
		for c := i * wr; c < (i+1)*wr; c++ {
			if err := g.Set(offset+i, perm[c], value); err != nil {
				return err
			}
		}
	}
	return nil
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = i
	}
	return idx
}

func permutation(rng *rand.Rand, n int) []int {
	idx := identity(n)
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	return idx
}
