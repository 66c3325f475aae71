package hamming

import (
	"fmt"

	"github.com/evand/freenet-scripts/linearblock"
)

//maxParitySymbols keeps n = 2^paritySymbols - 1 to a graph that fits in memory
const maxParitySymbols = 24

// New creates the systematic hamming code with paritySymbols number of parity symbols.
// Hamming codes can recover any two erased blocks.
//
// Column j of the constraint graph is the binary expansion of a nonzero number. The first
// paritySymbols columns use the powers of two so the check blocks form an identity and the
// remaining numbers follow in ascending order as the data blocks.
func New(paritySymbols int) (*linearblock.ConstraintGraph, error) {
	if paritySymbols < 3 || paritySymbols > maxParitySymbols {
		return nil, fmt.Errorf("%w: hamming codes require between 3 and %v parity symbols, found %v", linearblock.ErrInvalidInput, maxParitySymbols, paritySymbols)
	}
	n := 1<<paritySymbols - 1
	g, err := linearblock.NewConstraintGraph(paritySymbols, n)
	if err != nil {
		return nil, err
	}

	for col, value := range columnValues(paritySymbols) {
		for j := 0; j < paritySymbols; j++ {
			if value&(1<<j) > 0 {
				if err := g.Set(j, col, true); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

func columnValues(paritySymbols int) []int {
	n := 1<<paritySymbols - 1
	values := make([]int, 0, n)
	for j := 0; j < paritySymbols; j++ {
		values = append(values, 1<<j)
	}
	for i := 1; i <= n; i++ {
		if i&(i-1) != 0 {
			values = append(values, i)
		}
	}
	return values
}
