package gallager

import (
	"fmt"

	"github.com/evand/freenet-scripts/cmd/internal/create"
	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/ldpc/gallager"
	"github.com/spf13/cobra"
)

var Blocks uint
var Message uint
var Wc uint
var Wr uint
var Smallest uint
var Iter uint
var Tries uint
var Seed int64
var Dense bool
var Threads uint

var GallagerRun = func(cmd *cobra.Command, args []string) {
	ctx, cancel := tools.SignalContext()
	defer cancel()

	rng := create.NewRand(Seed)
	g, err := create.Search(ctx, func() (*linearblock.ConstraintGraph, error) {
		return gallager.New(ctx, rng, int(Blocks), int(Message), int(Wc), int(Wr), int(Smallest), int(Iter), int(Threads))
	}, int(Tries), Dense, int(Threads))
	if err != nil {
		fmt.Println("Unable to create gallager LDPC: ", err)
		return
	}
	create.Save(args[0], g)
}
