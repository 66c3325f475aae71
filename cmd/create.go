package cmd

import (
	"github.com/evand/freenet-scripts/cmd/internal/create/gallager"
	"github.com/evand/freenet-scripts/cmd/internal/create/hamming"
	"github.com/evand/freenet-scripts/cmd/internal/create/tornado"
	"github.com/evand/freenet-scripts/cmd/internal/create/uniform"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c"},
	Short:   "used to create a new ECC",
	Long:    `create makes a new constraint graph and saves it as JSON so it can be used later by the tools.`,
}

// createldpcCmd represents the ldpc command
var createldpcCmd = &cobra.Command{
	Use:     "ldpc",
	Aliases: []string{"l"},
	Short:   "creates LDPC",
	Long:    `Creates sparse constraint graphs known as Low Density Parity Check (LDPC) codes`,
}

// createUniformCmd represents the uniform command
var createUniformCmd = &cobra.Command{
	Use:     "uniform OUTPUT_LDPC_JSON",
	Aliases: []string{"u"},
	Short:   "Creates a new LDPC with constant row and column degrees",
	Long:    `Creates a new LDPC where every constraint has the row degree and every block the column degree.`,
	Args:    cobra.ExactArgs(1),
	Run:     uniform.UniformRun,
}

// createTornadoCmd represents the tornado command
var createTornadoCmd = &cobra.Command{
	Use:     "tornado OUTPUT_LDPC_JSON",
	Aliases: []string{"t"},
	Short:   "Creates a new Tornado degree distribution LDPC",
	Long:    `Creates a new LDPC whose block degrees follow the heavy tail distribution for window d and whose constraint degrees follow the matching Poisson distribution.`,
	Args:    cobra.ExactArgs(1),
	Run:     tornado.TornadoRun,
}

// createGallagerCmd represents the gallager command
var createGallagerCmd = &cobra.Command{
	Use:     "gallager OUTPUT_LDPC_JSON",
	Aliases: []string{"g"},
	Short:   "Creates a new Gallager based ECC",
	Long:    `Creates a new Gallager based ECC. Note a small cycle has a negative effect on the effectiveness of the LDPC.`,
	Args:    cobra.ExactArgs(1),
	Run:     gallager.GallagerRun,
}

// createHammingCmd represents the Hamming command
var createHammingCmd = &cobra.Command{
	Use:     "hamming OUTPUT_HAMMING_JSON",
	Aliases: []string{"h", "ham"},
	Short:   "Creates a new Hamming code based ECC",
	Long:    `Creates a new Hamming code based ECC.`,
	Args:    cobra.ExactArgs(1),
	Run:     hamming.HammingRun,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createldpcCmd)

	createldpcCmd.AddCommand(createUniformCmd)
	createUniformCmd.Flags().UintVarP(&uniform.Blocks, "blocks", "n", 20, "the total number of blocks n")
	createUniformCmd.Flags().UintVarP(&uniform.Message, "message", "k", 10, "the number of data blocks k")
	createUniformCmd.Flags().UintVarP(&uniform.Row, "row", "r", 6, "the number of blocks in every constraint")
	createUniformCmd.Flags().UintVarP(&uniform.Column, "column", "c", 3, "the number of constraints every block is in")
	createUniformCmd.Flags().UintVar(&uniform.Passes, "passes", 0, "the number of duplicate edge repair passes; 0 means the default")
	createUniformCmd.Flags().UintVarP(&uniform.Tries, "tries", "i", 100, "the number of graphs to try before terminating the search")
	createUniformCmd.Flags().Int64VarP(&uniform.Seed, "seed", "s", 0, "the random seed; 0 means use the time")
	createUniformCmd.Flags().BoolVar(&uniform.Dense, "dense", false, "only accept a graph whose check columns are full rank")
	createUniformCmd.Flags().UintVarP(&uniform.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")

	createldpcCmd.AddCommand(createTornadoCmd)
	createTornadoCmd.Flags().UintVarP(&tornado.Blocks, "blocks", "n", 20480, "the total number of blocks n")
	createTornadoCmd.Flags().UintVarP(&tornado.Message, "message", "k", 10240, "the number of data blocks k")
	createTornadoCmd.Flags().UintVarP(&tornado.D, "window", "d", 100, "the window d, the largest block degree is d+1")
	createTornadoCmd.Flags().UintVar(&tornado.Passes, "passes", 0, "the number of duplicate edge repair passes; 0 means the default")
	createTornadoCmd.Flags().UintVarP(&tornado.Tries, "tries", "i", 100, "the number of graphs to try before terminating the search")
	createTornadoCmd.Flags().Int64VarP(&tornado.Seed, "seed", "s", 0, "the random seed; 0 means use the time")
	createTornadoCmd.Flags().BoolVar(&tornado.Dense, "dense", false, "only accept a graph whose check columns are full rank")
	createTornadoCmd.Flags().UintVarP(&tornado.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")

	createldpcCmd.AddCommand(createGallagerCmd)
	createGallagerCmd.Flags().UintVarP(&gallager.Blocks, "blocks", "n", 20, "the total number of blocks n")
	createGallagerCmd.Flags().UintVarP(&gallager.Message, "message", "k", 5, "the number of data blocks k")
	createGallagerCmd.Flags().UintVarP(&gallager.Wc, "column", "c", 3, "the column weight (number of constraints per block) (>=3)")
	createGallagerCmd.Flags().UintVarP(&gallager.Wr, "row", "r", 4, "the row weight (number of blocks per constraint) (column < row)")
	createGallagerCmd.Flags().UintVar(&gallager.Smallest, "smallest", 4, "the smallest allowed cycle: 4, 6, 8...")
	createGallagerCmd.Flags().UintVar(&gallager.Iter, "iter", 10000, "the number of band draws to try per graph")
	createGallagerCmd.Flags().UintVarP(&gallager.Tries, "tries", "i", 1, "the number of graphs to try before terminating the search")
	createGallagerCmd.Flags().Int64VarP(&gallager.Seed, "seed", "s", 0, "the random seed; 0 means use the time")
	createGallagerCmd.Flags().BoolVar(&gallager.Dense, "dense", false, "only accept a graph whose check columns are full rank")
	createGallagerCmd.Flags().UintVarP(&gallager.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")

	createCmd.AddCommand(createHammingCmd)
	createHammingCmd.Flags().UintVarP(&hamming.ParityBits, "parity", "p", 3, "the parity >=3, sets codeword size (cs) == 2^parity-1 and message size == cs-parity")
}
