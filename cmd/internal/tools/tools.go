package tools

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/evand/freenet-scripts/benchmarking"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/sirupsen/logrus"
)

//SimulationStats holds erasure channel results keyed by the probability of erasure
type SimulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[float64]benchmarking.Stats
}
type simulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[string]benchmarking.Stats
}

func (s *SimulationStats) MarshalJSON() ([]byte, error) {
	ss := simulationStats{
		TypeInfo: s.TypeInfo,
		ECCInfo:  s.ECCInfo,
		Stats:    map[string]benchmarking.Stats{},
	}

	for f, stat := range s.Stats {
		ss.Stats[strconv.FormatFloat(f, 'g', -1, 64)] = stat
	}

	return json.Marshal(ss)
}

func (s *SimulationStats) UnmarshalJSON(bytes []byte) error {
	var ss simulationStats

	err := json.Unmarshal(bytes, &ss)
	if err != nil {
		return err
	}

	s.TypeInfo = ss.TypeInfo
	s.ECCInfo = ss.ECCInfo
	s.Stats = map[float64]benchmarking.Stats{}

	for fs, stat := range ss.Stats {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return err
		}
		s.Stats[f] = stat
	}
	return nil
}

//RevealResults holds the reveal simulation of one code family and its parameters
type RevealResults struct {
	TypeInfo string
	Seed     int64
	Stats    benchmarking.RevealStats
}

//Md5Sum identifies a constraint graph by its constraints
func Md5Sum(g *linearblock.ConstraintGraph) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(g.String())))
}

//SignalContext returns a context that is cancelled on SIGINT or SIGTERM
func SignalContext() (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case sig := <-sigs:
			fmt.Println()
			logrus.Infof("Received %v, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}

func LoadConstraintGraph(filepath string) (*linearblock.ConstraintGraph, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, fmt.Errorf("the ECC_JSON_FILE must exist")
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var g linearblock.ConstraintGraph
	err = json.Unmarshal(bs, &g)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}
	if !g.Validate() {
		return nil, fmt.Errorf("%w: constraint graph in %v failed validation", linearblock.ErrInconsistent, filepath)
	}
	return &g, nil
}

func SaveConstraintGraph(filepath string, g *linearblock.ConstraintGraph) error {
	bs, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("unable to serialize the constraint graph: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("unable to write file %v: %w", filepath, err)
	}
	return nil
}

//LoadResults returns nil, nil when filepath does not exist
func LoadResults(filepath string) (*SimulationStats, error) {
	var stat SimulationStats
	found, err := load(filepath, &stat)
	if !found || err != nil {
		return nil, err
	}
	return &stat, nil
}

func SaveResults(filepath string, data *SimulationStats) error {
	return save(filepath, data)
}

//LoadAllResults loads every results file and returns the sorted union of their probabilities
func LoadAllResults(filepaths []string) ([]*SimulationStats, []float64, error) {
	stats := make([]*SimulationStats, len(filepaths))
	probabilities := make(map[float64]bool)
	for i, resultFile := range filepaths {
		s, err := LoadResults(resultFile)
		if err != nil {
			return nil, nil, err
		}
		if s == nil {
			return nil, nil, fmt.Errorf("results file %v does not exist", resultFile)
		}
		stats[i] = s
		for p := range s.Stats {
			probabilities[p] = true
		}
	}

	sorted := make([]float64, 0, len(probabilities))
	for p := range probabilities {
		sorted = append(sorted, p)
	}
	sort.Float64s(sorted)
	return stats, sorted, nil
}

//Metric selects the mean message or parity erasure fraction, or the codeword fraction when
// neither is set
func Metric(message, parity bool) func(benchmarking.Stats) float64 {
	switch {
	case message:
		return func(s benchmarking.Stats) float64 { return s.ChannelMessageError.Mean }
	case parity:
		return func(s benchmarking.Stats) float64 { return s.ChannelParityError.Mean }
	default:
		return func(s benchmarking.Stats) float64 { return s.ChannelCodewordError.Mean }
	}
}

//LoadRevealResults returns nil, nil when filepath does not exist
func LoadRevealResults(filepath string) (*RevealResults, error) {
	var results RevealResults
	found, err := load(filepath, &results)
	if !found || err != nil {
		return nil, err
	}
	return &results, nil
}

func SaveRevealResults(filepath string, data *RevealResults) error {
	return save(filepath, data)
}

func load(filepath string, v interface{}) (bool, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return false, nil
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return false, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	err = json.Unmarshal(bs, v)
	if err != nil {
		return false, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return true, nil
}

func save(filepath string, v interface{}) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error serializing results: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("error while saving results to %v: %w", filepath, err)
	}
	return nil
}
