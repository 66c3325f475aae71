package inspect

import (
	"errors"
	"fmt"

	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/dense"
	"github.com/spf13/cobra"
)

var Girth uint
var Threads uint

var InspectRun = func(cmd *cobra.Command, args []string) {
	g, err := tools.LoadConstraintGraph(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	rows, cols := g.Dims()
	fmt.Printf("n: %v k: %v check blocks: %v edges: %v\n", cols, g.DataBlocks(), g.CheckBlocks(), g.Edges())
	fmt.Printf("md5: %v\n", tools.Md5Sum(g))
	fmt.Printf("row degrees: %v\n", nonzero(g.RowDegreeHistogram()))
	fmt.Printf("column degrees: %v\n", nonzero(g.ColumnDegreeHistogram()))

	if Girth > 0 {
		smallest := int(Girth)
		if smallest < 4 || smallest%2 != 0 {
			fmt.Println("girth must be an even number >= 4")
			return
		}
		if !linearblock.CalculateGirthLowerBoundByEdges(g, smallest) {
			fmt.Printf("too many edges to be free of cycles up to %v\n", smallest)
		}
		girth := linearblock.CalculateGirthLowerBound(ctx, g, smallest, int(Threads))
		if girth == -1 {
			fmt.Printf("girth: > %v\n", smallest)
		} else {
			fmt.Printf("girth: %v\n", girth)
		}
	}

	_, err = dense.New(ctx, g, int(Threads))
	switch {
	case err == nil:
		fmt.Printf("dense: the %v check columns are full rank\n", rows)
	case errors.Is(err, linearblock.ErrSingularMatrix):
		fmt.Printf("dense: %v\n", err)
	default:
		fmt.Println(err)
	}
}

//nonzero maps each degree with a nonzero count to its count
func nonzero(hist []int) map[int]int {
	result := make(map[int]int)
	for d, c := range hist {
		if c > 0 {
			result[d] = c
		}
	}
	return result
}
