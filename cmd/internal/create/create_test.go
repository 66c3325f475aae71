package create

import (
	"context"
	"fmt"
	"testing"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/hamming"
	"github.com/stretchr/testify/require"
)

func TestSearch_RetriesConstructionFailures(t *testing.T) {
	calls := 0
	generate := func() (*linearblock.ConstraintGraph, error) {
		calls++
		if calls < 3 {
			return nil, fmt.Errorf("%w: try again", linearblock.ErrConstructionFailed)
		}
		return hamming.New(3)
	}
	g, err := Search(context.Background(), generate, 5, true, 1)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Equal(t, 3, calls)
}

func TestSearch_Singular(t *testing.T) {
	singular := func() (*linearblock.ConstraintGraph, error) {
		g, err := linearblock.NewConstraintGraph(2, 4)
		if err != nil {
			return nil, err
		}
		for r, row := range [][]int{{0, 1, 2}, {0, 1, 3}} {
			for _, c := range row {
				if err := g.Set(r, c, true); err != nil {
					return nil, err
				}
			}
		}
		return g, nil
	}

	g, err := Search(context.Background(), singular, 1, false, 1)
	require.NoError(t, err)
	require.NotNil(t, g)

	_, err = Search(context.Background(), singular, 3, true, 1)
	require.ErrorIs(t, err, linearblock.ErrConstructionFailed)
}

func TestSearch_OtherErrors(t *testing.T) {
	calls := 0
	generate := func() (*linearblock.ConstraintGraph, error) {
		calls++
		return nil, fmt.Errorf("%w: bad", linearblock.ErrInvalidInput)
	}
	_, err := Search(context.Background(), generate, 5, false, 1)
	require.ErrorIs(t, err, linearblock.ErrInvalidInput)
	require.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Search(ctx, generate, 5, false, 1)
	require.ErrorIs(t, err, context.Canceled)
}
