package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/spf13/cobra"
)

var OutputFile string
var MessageError bool
var ParityError bool

var CSVRun = func(cmd *cobra.Command, args []string) {
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
	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Results File"}
	for _, p := range percentages {
		header = append(header, fmt.Sprintf("%v", p))
	}

	err = w.Write(header)
	if err != nil {
		fmt.Println(err)
		return
	}

	metric := tools.Metric(MessageError, ParityError)
	for i, s := range stats {
		record := make([]string, len(header))
		record[0] = strings.TrimSuffix(args[i], filepath.Ext(args[i]))

		for j, p := range percentages {
			if v, has := s.Stats[p]; has {
				record[j+1] = fmt.Sprintf("%v", metric(v))
			}
		}

		err = w.Write(record)
		if err != nil {
			fmt.Println(err)
			return
		}
	}
}
