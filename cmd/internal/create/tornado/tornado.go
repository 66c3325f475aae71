package tornado

import (
	"fmt"

	"github.com/evand/freenet-scripts/cmd/internal/create"
	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/evand/freenet-scripts/linearblock/ldpc/tornado"
	"github.com/spf13/cobra"
)

var Blocks uint
var Message uint
var D uint
var Passes uint
var Tries uint
var Seed int64
var Dense bool
var Threads uint

var TornadoRun = func(cmd *cobra.Command, args []string) {
	ctx, cancel := tools.SignalContext()
	defer cancel()

	gen := &tornado.Generator{
		Builder: &ldpc.Builder{
			Rand:            create.NewRand(Seed),
			MaxRepairPasses: int(Passes),
		},
		D: int(D),
	}

	g, err := create.Search(ctx, func() (*linearblock.ConstraintGraph, error) {
		return gen.New(int(Blocks), int(Message))
	}, int(Tries), Dense, int(Threads))
	if err != nil {
		fmt.Println("Unable to create tornado LDPC: ", err)
		return
	}
	create.Save(args[0], g)
}
