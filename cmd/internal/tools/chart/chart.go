package chart

import (
	"fmt"
	"os"

	"github.com/evand/freenet-scripts/benchmarking"
	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/spf13/cobra"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var OutputFile string
var MessageError bool
var ParityError bool

var ChartRun = func(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("requires at least one RESULTS_JSON")
		return
	}

	stats, percentages, err := tools.LoadAllResults(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results",
			Subtitle: "Erasures remaining after decoding",
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			Right:  "0",
			Top:    "top",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Erasure Probability",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Remaining Erasures",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	names := make([]string, len(percentages))
	for i, p := range percentages {
		names[i] = fmt.Sprint(p)
	}
	line.SetXAxis(names)

	metric := tools.Metric(MessageError, ParityError)
	for i, s := range stats {
		line.AddSeries(args[i], series(s, percentages, metric))
	}

	err = line.Render(f)
	if err != nil {
		fmt.Println(err)
	}
}

func series(stat *tools.SimulationStats, values []float64, metric func(benchmarking.Stats) float64) []opts.LineData {
	results := make([]opts.LineData, len(values))
	for i, v := range values {
		x, has := stat.Stats[v]
		if !has {
			results[i] = opts.LineData{Value: nil}
			continue
		}
		results[i] = opts.LineData{Value: metric(x)}
	}
	return results
}
