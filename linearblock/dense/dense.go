package dense

import (
	"context"
	"errors"
	"fmt"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/internal"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec"
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec/iterative"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

//Code is a systematic erasure code built from the reduced row echelon form [ I, A ] of a
// constraint graph's parity matrix. Check blocks are computed from A while decoding peels over
// the original constraints. A Code is read only after New so it can be shared by goroutines.
type Code struct {
	graph       *linearblock.ConstraintGraph
	n, k        int
	threads     int
	constraints [][]int
	encoders    [][]int
	peeler      *iterative.Simple
}

//New reduces the parity matrix of g. It returns ErrSingularMatrix when the check block
// columns of g are not linearly independent.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func New(ctx context.Context, g *linearblock.ConstraintGraph, threads int) (*Code, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil constraint graph", linearblock.ErrInvalidInput)
	}
	rows, cols := g.Dims()
	reduced, pivots, err := internal.ReduceGF2(ctx, g.ParityMatrix(), rows, threads)
	if err != nil {
		return nil, err
	}
	if len(pivots) != rows {
		return nil, fmt.Errorf("%w: check columns have rank %v of %v", linearblock.ErrSingularMatrix, len(pivots), rows)
	}
	for i, p := range pivots {
		if p != i {
			return nil, fmt.Errorf("%w: row %v has its pivot in column %v", linearblock.ErrSingularMatrix, i, p)
		}
	}

	constraints := g.Rows()
	return &Code{
		graph:       g,
		n:           cols,
		k:           cols - rows,
		threads:     threads,
		constraints: constraints,
		encoders:    internal.ExtractA(reduced, rows),
		peeler:      iterative.NewSimple(constraints, cols),
	}, nil
}

//NewRandom builds uniform LDPC graphs with builder until one has a full rank parity check.
// It returns the code and the number of attempts made, at most maxTries.
func NewRandom(ctx context.Context, builder *ldpc.Builder, n, k, rowDegree, colDegree, maxTries, threads int) (*Code, int, error) {
	if builder == nil {
		return nil, 0, fmt.Errorf("%w: nil builder", linearblock.ErrInvalidInput)
	}
	if maxTries < 1 {
		return nil, 0, fmt.Errorf("%w: maxTries (%v) must be positive", linearblock.ErrInvalidInput, maxTries)
	}
	for attempt := 1; attempt <= maxTries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, attempt - 1, ctx.Err()
		default:
		}

		g, err := builder.Uniform(n, k, rowDegree, colDegree)
		if errors.Is(err, linearblock.ErrConstructionFailed) {
			logrus.Debugf("Attempt %v: %v", attempt, err)
			continue
		}
		if err != nil {
			return nil, attempt, err
		}

		code, err := New(ctx, g, threads)
		if errors.Is(err, linearblock.ErrSingularMatrix) {
			logrus.Debugf("Attempt %v: %v", attempt, err)
			continue
		}
		if err != nil {
			return nil, attempt, err
		}
		logrus.Debugf("Found a full rank code after %v attempts", attempt)
		return code, attempt, nil
	}
	return nil, maxTries, fmt.Errorf("%w: no full rank code in %v attempts", linearblock.ErrConstructionFailed, maxTries)
}

//N is the number of blocks
func (c *Code) N() int {
	return c.n
}

//K is the number of data blocks
func (c *Code) K() int {
	return c.k
}

//Graph is the constraint graph the code was built from
func (c *Code) Graph() *linearblock.ConstraintGraph {
	return c.graph
}

//Constraints returns the original constraint supports
func (c *Code) Constraints() [][]int {
	return c.constraints
}

func (c *Code) checkLen(name string, data []bool) error {
	if len(data) != c.n {
		return fmt.Errorf("%w: %v has length %v, expected %v", linearblock.ErrInvalidInput, name, len(data), c.n)
	}
	return nil
}

//Encode computes the check blocks data[:n-k] from the data blocks data[n-k:] in place.
// The check blocks must be false on entry.
func (c *Code) Encode(data []bool) error {
	if err := c.checkLen("data", data); err != nil {
		return err
	}
	m := c.n - c.k
	for i := 0; i < m; i++ {
		if data[i] {
			return fmt.Errorf("%w: check block %v is set before encoding", linearblock.ErrInvalidInput, i)
		}
	}

	for i, row := range c.encoders {
		check := false
		for _, j := range row {
			check = check != data[j]
		}
		data[i] = check
	}

	if !internal.ValidateConstraints(c.constraints, data) {
		return fmt.Errorf("%w: encoded data fails its constraints", linearblock.ErrInconsistent)
	}
	return nil
}

//CheckConstraints reports if the XOR over every constraint of data is zero
func (c *Code) CheckConstraints(data []bool) (bool, error) {
	if err := c.checkLen("data", data); err != nil {
		return false, err
	}
	return internal.ValidateConstraints(c.constraints, data), nil
}

//Decode recovers the unavailable blocks of data in place and marks them available. Unavailable
// blocks must be false on entry. Peeling over the constraints runs first and when it stalls the
// remaining unknowns are solved by elimination. Decode reports if every block is known.
func (c *Code) Decode(data, available []bool) (bool, error) {
	if err := c.checkLen("data", data); err != nil {
		return false, err
	}
	if err := c.checkLen("available", available); err != nil {
		return false, err
	}
	for i := range data {
		if !available[i] && data[i] {
			return false, fmt.Errorf("%w: block %v is set but not available", linearblock.ErrInvalidInput, i)
		}
	}

	codeword := bec.Flipping(c.peeler, bec.ToErasureBits(data, available))
	if erased := bec.Erasures(codeword); len(erased) > 0 {
		logrus.Debugf("Peeling stalled with %v unknown blocks", len(erased))
		if err := c.eliminate(codeword, erased); err != nil {
			return false, err
		}
	}

	complete := true
	for i, b := range codeword {
		if b == bec.Erased {
			complete = false
			continue
		}
		data[i] = b == bec.One
		available[i] = true
	}
	return complete, nil
}

//eliminate solves the constraints for the erased positions of codeword and fills in every
// position that is uniquely determined
func (c *Code) eliminate(codeword []bec.ErasureBit, erased []int) error {
	column := make(map[int]int, len(erased))
	for i, e := range erased {
		column[e] = i
	}
	rhs := len(erased)

	// one row per constraint over the unknowns, the last column is the XOR of the known blocks
	system := mat.DOKMat(len(c.constraints), rhs+1)
	for r, constraint := range c.constraints {
		value := 0
		for _, b := range constraint {
			if u, has := column[b]; has {
				system.Set(r, u, 1)
				continue
			}
			value ^= int(codeword[b])
		}
		if value == 1 {
			system.Set(r, rhs, 1)
		}
	}

	reduced, pivots, err := internal.ReduceGF2(context.Background(), system, rhs, c.threads)
	if err != nil {
		return err
	}

	for r, p := range pivots {
		support := reduced.Row(r).NonzeroArray()
		determined := true
		for _, u := range support {
			if u != p && u != rhs {
				determined = false
				break
			}
		}
		if !determined {
			continue
		}
		codeword[erased[p]] = bec.ErasureBit(reduced.At(r, rhs))
	}
	return nil
}
