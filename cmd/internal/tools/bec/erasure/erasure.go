package erasure

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/evand/freenet-scripts/benchmarking"
	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/cmd/internal/tools/bec"
	"github.com/evand/freenet-scripts/linearblock/dense"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Trials           uint
	ErrorProbability []float64
	Threads          uint
	Seed             int64
)

var ErasureRun = func(cmd *cobra.Command, args []string) {
	if len(args) != 2 {
		fmt.Println("requires both ECC_JSON_FILE RESULT_JSON")
		return
	}

	//first get the ECC to use
	g, err := tools.LoadConstraintGraph(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	code, err := dense.New(ctx, g, int(Threads))
	if err != nil {
		fmt.Println("Unable to use the ECC for dense decoding: ", err)
		return
	}

	//next we see if the RESULT_JSON exists if so we load it and validate we're running it against the right thing
	data, err := tools.LoadResults(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}

	//if data is nil then we create it
	if data == nil {
		data = &tools.SimulationStats{
			TypeInfo: typeInfo(),
			ECCInfo:  tools.Md5Sum(g),
			Stats:    make(map[float64]benchmarking.Stats),
		}
	}

	//in either case lets validate it
	if data.TypeInfo != typeInfo() {
		fmt.Printf("results loaded do not match the same type expected %v but found %v\n", typeInfo(), data.TypeInfo)
		return
	}
	if data.ECCInfo != tools.Md5Sum(g) {
		fmt.Println("results loaded do not match the ECC")
		return
	}

	runSimulation(ctx, data, code, args[1])

	err = tools.SaveResults(args[1], data)
	if err != nil {
		fmt.Println(err)
	}
}

func typeInfo() string {
	t := reflect.TypeOf(dense.Code{})
	return fmt.Sprintf("BEC:%v/%v", t.PkgPath(), t.Name())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func runSimulation(ctx context.Context, data *tools.SimulationStats, code *dense.Code, outputFilename string) {
	checkpointMux := sync.Mutex{}
	checkpointCount := 0

	numberOfThread := int(Threads)
	if numberOfThread == 0 {
		numberOfThread = runtime.NumCPU()
	}

	// trials are added in rounds so every probability makes progress before a ctrl-C
	trialsPerIter := numberOfThread * 10
	bar := pb.StartNew(int(Trials) * len(ErrorProbability))
trialLoops:
	for t := trialsPerIter; ; t += trialsPerIter {
		select {
		case <-ctx.Done():
			break trialLoops
		default:
		}

		target := min(t, int(Trials))
		for _, p := range ErrorProbability {
			checkpoint := func(stats benchmarking.Stats) {
				//we want to save the checkpoint
				checkpointMux.Lock()
				defer checkpointMux.Unlock()

				data.Stats[p] = stats

				if checkpointCount%trialsPerIter == 0 {
					err := tools.SaveResults(outputFilename, data)
					if err != nil {
						fmt.Println(err)
					}
				}
				checkpointCount++
			}
			before := data.Stats[p].ChannelCodewordError.Count
			data.Stats[p] = bec.RunBEC(ctx, code, p, target, numberOfThread, Seed, data.Stats[p], checkpoint, false)
			bar.Add(data.Stats[p].ChannelCodewordError.Count - before)
		}
		if target >= int(Trials) {
			break
		}
	}
	bar.Finish()

	for _, p := range ErrorProbability {
		logrus.Infof("p=%v %v", p, data.Stats[p])
	}
}
