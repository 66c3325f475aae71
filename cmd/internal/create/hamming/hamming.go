package hamming

import (
	"fmt"

	"github.com/evand/freenet-scripts/cmd/internal/create"
	"github.com/evand/freenet-scripts/linearblock/hamming"
	"github.com/spf13/cobra"
)

var ParityBits uint

var HammingRun = func(cmd *cobra.Command, args []string) {
	g, err := hamming.New(int(ParityBits))
	if err != nil {
		fmt.Println("Unable to create hamming code: ", err)
		return
	}
	create.Save(args[0], g)
}
