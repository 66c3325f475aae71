package uniform

import (
	"fmt"

	"github.com/evand/freenet-scripts/cmd/internal/create"
	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/dense"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/spf13/cobra"
)

var Blocks uint
var Message uint
var Row uint
var Column uint
var Passes uint
var Tries uint
var Seed int64
var Dense bool
var Threads uint

var UniformRun = func(cmd *cobra.Command, args []string) {
	ctx, cancel := tools.SignalContext()
	defer cancel()

	builder := &ldpc.Builder{
		Rand:            create.NewRand(Seed),
		MaxRepairPasses: int(Passes),
	}

	if Dense {
		code, attempts, err := dense.NewRandom(ctx, builder, int(Blocks), int(Message), int(Row), int(Column), int(Tries), int(Threads))
		if err != nil {
			fmt.Printf("Unable to create a full rank uniform LDPC after %v attempts: %v\n", attempts, err)
			return
		}
		create.Save(args[0], code.Graph())
		return
	}

	g, err := create.Search(ctx, func() (*linearblock.ConstraintGraph, error) {
		return builder.Uniform(int(Blocks), int(Message), int(Row), int(Column))
	}, int(Tries), false, int(Threads))
	if err != nil {
		fmt.Println("Unable to create uniform LDPC: ", err)
		return
	}
	create.Save(args[0], g)
}
