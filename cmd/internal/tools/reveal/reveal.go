package reveal

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/evand/freenet-scripts/benchmarking"
	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/evand/freenet-scripts/linearblock/ldpc/gallager"
	"github.com/evand/freenet-scripts/linearblock/ldpc/tornado"
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Code       string
	Blocks     uint
	Message    uint
	Row        uint
	Column     uint
	D          uint
	Passes     uint
	SymbolSize uint
	Trials     uint
	Threads    uint
	Seed       int64
	DataOnly   bool
)

var RevealRun = func(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Println("requires RESULT_JSON")
		return
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	create, err := constructor(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}

	data, err := tools.LoadRevealResults(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	if data == nil {
		data = &tools.RevealResults{
			TypeInfo: typeInfo(),
			Seed:     Seed,
		}
	}
	if data.TypeInfo != typeInfo() || data.Seed != Seed {
		fmt.Printf("results loaded do not match expected %v (seed %v) but found %v (seed %v)\n", typeInfo(), Seed, data.TypeInfo, data.Seed)
		return
	}

	stats, err := runSimulation(ctx, data, create, args[0])
	if err != nil {
		fmt.Println(err)
	}
	data.Stats = stats

	err = tools.SaveRevealResults(args[0], data)
	if err != nil {
		fmt.Println(err)
		return
	}

	n := float64(Blocks)
	needed := benchmarking.Summarize(stats.NeededSamples)
	used := benchmarking.Summarize(stats.UsedSamples)
	fmt.Printf("%v trials, %v failures\n", len(stats.NeededSamples), stats.Failures)
	fmt.Printf("needed %v (%0.4f of n)\n", needed, needed.Mean/n)
	fmt.Printf("used   %v (%0.4f of n)\n", used, used.Mean/n)
}

func typeInfo() string {
	switch Code {
	case "uniform":
		return fmt.Sprintf("Reveal:uniform n=%v k=%v row=%v col=%v dataonly=%v", Blocks, Message, Row, Column, DataOnly)
	case "gallager":
		return fmt.Sprintf("Reveal:gallager n=%v k=%v wr=%v wc=%v dataonly=%v", Blocks, Message, Row, Column, DataOnly)
	case "tornado":
		return fmt.Sprintf("Reveal:tornado n=%v k=%v d=%v dataonly=%v", Blocks, Message, D, DataOnly)
	default:
		return fmt.Sprintf("Reveal:%v n=%v k=%v symbol=%v", Code, Blocks, Message, SymbolSize)
	}
}

//constructor builds a fresh code per trial. ctx bounds the gallager band search.
func constructor(ctx context.Context) (benchmarking.RevealConstructor, error) {
	n, k := int(Blocks), int(Message)
	config := bec.Config{RequireAll: !DataOnly}
	peeling := func(g *linearblock.ConstraintGraph, err error) (benchmarking.Revealer, error) {
		if err != nil {
			return nil, err
		}
		return benchmarking.NewPeelingRevealer(g, config), nil
	}

	switch Code {
	case "uniform":
		return func(rng *rand.Rand) (benchmarking.Revealer, error) {
			b := &ldpc.Builder{Rand: rng, MaxRepairPasses: int(Passes)}
			return peeling(b.Uniform(n, k, int(Row), int(Column)))
		}, nil
	case "tornado":
		return func(rng *rand.Rand) (benchmarking.Revealer, error) {
			gen := &tornado.Generator{Builder: &ldpc.Builder{Rand: rng, MaxRepairPasses: int(Passes)}, D: int(D)}
			return peeling(gen.New(n, k))
		}, nil
	case "gallager":
		return func(rng *rand.Rand) (benchmarking.Revealer, error) {
			return peeling(gallager.New(ctx, rng, n, k, int(Column), int(Row), 4, 1000, int(Threads)))
		}, nil
	case "raptorq":
		return func(rng *rand.Rand) (benchmarking.Revealer, error) {
			return benchmarking.NewRaptorQRevealer(rng, n, k, int(SymbolSize))
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown code %q, expected uniform, tornado, gallager or raptorq", linearblock.ErrInvalidInput, Code)
}

func runSimulation(ctx context.Context, data *tools.RevealResults, create benchmarking.RevealConstructor, outputFilename string) (benchmarking.RevealStats, error) {
	numberOfThread := int(Threads)
	if numberOfThread == 0 {
		numberOfThread = runtime.NumCPU()
	}

	checkpointMux := sync.Mutex{}
	checkpointCount := 0
	checkpoint := func(stats benchmarking.RevealStats) {
		checkpointMux.Lock()
		defer checkpointMux.Unlock()

		if checkpointCount%(numberOfThread*10) == 0 {
			err := tools.SaveRevealResults(outputFilename, &tools.RevealResults{TypeInfo: data.TypeInfo, Seed: data.Seed, Stats: stats})
			if err != nil {
				fmt.Println(err)
			}
		}
		checkpointCount++
	}

	logrus.Infof("Running %v trials of %v", Trials, data.TypeInfo)
	return benchmarking.BenchmarkRevealContinueStats(ctx, int(Trials), numberOfThread, Seed, create, checkpoint, data.Stats, true)
}
