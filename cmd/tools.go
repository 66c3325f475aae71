package cmd

import (
	"github.com/evand/freenet-scripts/cmd/internal/tools/bec/erasure"
	"github.com/evand/freenet-scripts/cmd/internal/tools/chart"
	"github.com/evand/freenet-scripts/cmd/internal/tools/csv"
	"github.com/evand/freenet-scripts/cmd/internal/tools/inspect"
	"github.com/evand/freenet-scripts/cmd/internal/tools/reveal"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for ECCs",
	Long:    `Tools for ECCs`,
}

// toolsChansimCmd represents the chansim command
var toolsChansimCmd = &cobra.Command{
	Use:     "chansim",
	Aliases: []string{"cs", "c"},
	Short:   "Channel simulators",
	Long:    `Channel simulators for constraint graph ECCs`,
}

// toolsBecCmd represents the bec command
var toolsBecCmd = &cobra.Command{
	Use:   "bec ECC_JSON_FILE RESULT_JSON",
	Short: "An erasure channel simulator",
	Long:  `An erasure channel simulator that decodes by peeling and then elimination`,
	Args:  cobra.ExactArgs(2),
	Run:   erasure.ErasureRun,
}

// toolsRevealCmd represents the reveal command
var toolsRevealCmd = &cobra.Command{
	Use:     "reveal RESULT_JSON",
	Aliases: []string{"rv"},
	Short:   "Counts the blocks needed to decode",
	Long:    `Reveals the blocks of a freshly built code in a random order until the data decodes and records how many blocks were needed.`,
	Args:    cobra.ExactArgs(1),
	Run:     reveal.RevealRun,
}

// toolsInspectCmd represents the inspect command
var toolsInspectCmd = &cobra.Command{
	Use:     "inspect ECC_JSON_FILE",
	Aliases: []string{"i"},
	Short:   "Describes an ECC",
	Long:    `Prints the dimensions, degree histograms, girth and rank of an ECC`,
	Args:    cobra.ExactArgs(1),
	Run:     inspect.InspectRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:   "chart RESULTS_JSON [RESULTS_JSON] ...",
	Short: "Export to an HTML chart",
	Long:  `Export to an HTML line chart`,
	Run:   chart.ChartRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsChansimCmd)
	toolsCmd.AddCommand(toolsRevealCmd)
	toolsCmd.AddCommand(toolsInspectCmd)
	toolsCmd.AddCommand(toolsResultsCmd)

	toolsChansimCmd.AddCommand(toolsBecCmd)
	toolsBecCmd.Flags().UintVarP(&erasure.Trials, "trials", "t", 100_000, "the number of trials per step")
	toolsBecCmd.Flags().Float64SliceVarP(&erasure.ErrorProbability, "probability", "p", []float64{0.01, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.99}, "probability of erasure [0, 1)")
	toolsBecCmd.Flags().UintVar(&erasure.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsBecCmd.Flags().Int64VarP(&erasure.Seed, "seed", "s", 1, "the random seed of the first trial")

	toolsRevealCmd.Flags().StringVarP(&reveal.Code, "code", "c", "uniform", "the code to build per trial: uniform, tornado, gallager or raptorq")
	toolsRevealCmd.Flags().UintVarP(&reveal.Blocks, "blocks", "n", 20, "the total number of blocks n")
	toolsRevealCmd.Flags().UintVarP(&reveal.Message, "message", "k", 10, "the number of data blocks k")
	toolsRevealCmd.Flags().UintVar(&reveal.Row, "row", 6, "the row degree (uniform, gallager)")
	toolsRevealCmd.Flags().UintVar(&reveal.Column, "column", 3, "the column degree (uniform, gallager)")
	toolsRevealCmd.Flags().UintVarP(&reveal.D, "window", "d", 5, "the window d (tornado)")
	toolsRevealCmd.Flags().UintVar(&reveal.Passes, "passes", 0, "the number of duplicate edge repair passes; 0 means the default")
	toolsRevealCmd.Flags().UintVar(&reveal.SymbolSize, "symbol", 16, "the symbol size in bytes (raptorq)")
	toolsRevealCmd.Flags().UintVar(&reveal.Trials, "trials", 1000, "the number of trials")
	toolsRevealCmd.Flags().UintVar(&reveal.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsRevealCmd.Flags().Int64VarP(&reveal.Seed, "seed", "s", 0, "the seed of the first trial, trial i uses seed+i")
	toolsRevealCmd.Flags().BoolVar(&reveal.DataOnly, "dataonly", false, "stop once the data blocks are known instead of every block")

	toolsInspectCmd.Flags().UintVarP(&inspect.Girth, "girth", "g", 0, "search for cycles up to this length; 0 skips the search")
	toolsInspectCmd.Flags().UintVar(&inspect.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().BoolVarP(&csv.MessageError, "message", "m", false, "outputs the MessageError instead of CodewordError or ParityError")
	toolsCSVCmd.Flags().BoolVarP(&csv.ParityError, "parity", "p", false, "outputs the ParityError instead of CodewordError or MessageError")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
	toolsChartCmd.Flags().BoolVarP(&chart.MessageError, "message", "m", false, "charts the MessageError instead of CodewordError or ParityError")
	toolsChartCmd.Flags().BoolVarP(&chart.ParityError, "parity", "p", false, "charts the ParityError instead of CodewordError or MessageError")
}
