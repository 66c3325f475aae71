package benchmarking

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/threadpool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Revealer is one code instance receiving blocks one at a time
type Revealer interface {
	//Blocks is the total number of blocks, n
	Blocks() int
	//DataBlocks is the number of data blocks, k
	DataBlocks() int
	//Known reports if block has been revealed or recovered
	Known(block int) bool
	//Reveal marks block as received
	Reveal(block int) error
	//Decode reports if the data can now be recovered
	Decode() (bool, error)
}

//RevealConstructor builds a fresh code for a trial from rng
type RevealConstructor func(rng *rand.Rand) (Revealer, error)

//RevealCheckpoints is called after every trial with the updated stats
type RevealCheckpoints func(updatedStats RevealStats)

//RevealStats holds the number of blocks revealed before decoding completed (Needed) and the
// number of those blocks that were not already recovered (Used). Completed lists the trial
// indices already recorded, in the order they finished.
type RevealStats struct {
	Blocks        int
	Completed     []int
	Needed        avgstd.AvgStd
	Used          avgstd.AvgStd
	NeededSamples []float64
	UsedSamples   []float64
	Failures      int
}

//Summary is the distribution of a set of samples
type Summary struct {
	Min, Median, Mean, Max float64
}

func (s Summary) String() string {
	return fmt.Sprintf("{Min:%0.0f, Median:%0.0f, Mean:%0.02f, Max:%0.0f}", s.Min, s.Median, s.Mean, s.Max)
}

//Summarize returns the min, median, mean and max of samples
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return Summary{
		Min:    floats.Min(sorted),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Mean:   stat.Mean(sorted, nil),
		Max:    floats.Max(sorted),
	}
}

func (s RevealStats) String() string {
	return fmt.Sprintf("{Needed:%v, Used:%v, Failures:%v}", Summarize(s.NeededSamples), Summarize(s.UsedSamples), s.Failures)
}

//Reveal runs one trial: blocks of r are revealed in a random order drawn from rng and decoding
// is attempted once more than k blocks have been revealed. It returns the number of blocks
// revealed when decoding completed and how many of those were not already known, or -1 and
// the count if decoding never completed.
func Reveal(r Revealer, rng *rand.Rand) (needed, used int, err error) {
	n := r.Blocks()
	k := r.DataBlocks()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	ldpc.Shuffle(rng, order)

	for j, block := range order {
		if r.Known(block) {
			continue
		}
		used++
		if err := r.Reveal(block); err != nil {
			return -1, used, err
		}
		if j < k {
			continue
		}
		complete, err := r.Decode()
		if err != nil {
			return -1, used, err
		}
		if complete {
			return j + 1, used, nil
		}
	}
	return -1, used, nil
}

//BenchmarkReveal runs trials reveal simulations. Trial i builds its code with
// rand.New(rand.NewSource(seed+i)) so every trial is reproducible on its own.
// A trial that returns an error is not recorded and the first error is returned.
func BenchmarkReveal(ctx context.Context,
	trials, threads int,
	seed int64,
	create RevealConstructor,
	checkpoints RevealCheckpoints,
	showProgressBar bool) (RevealStats, error) {
	return BenchmarkRevealContinueStats(ctx, trials, threads, seed, create, checkpoints, RevealStats{}, showProgressBar)
}

//BenchmarkRevealContinueStats runs every trial in [0,trials) missing from previousStats.Completed
func BenchmarkRevealContinueStats(ctx context.Context,
	trials, threads int,
	seed int64,
	create RevealConstructor,
	checkpoints RevealCheckpoints,
	previousStats RevealStats,
	showProgressBar bool) (RevealStats, error) {
	completed := make(map[int]bool, len(previousStats.Completed))
	for _, i := range previousStats.Completed {
		completed[i] = true
	}
	remaining := make([]int, 0, trials)
	for i := 0; i < trials; i++ {
		if !completed[i] {
			remaining = append(remaining, i)
		}
	}
	trialsToRun := len(remaining)
	if trialsToRun == 0 {
		return previousStats, nil
	}

	var bar *pb.ProgressBar
	if showProgressBar {
		bar = pb.StartNew(trialsToRun)
	}

	pool := threadpool.New(ctx, threads)
	statsMux := sync.Mutex{}
	var firstErr error

	trial := func(i int) {
		if showProgressBar {
			bar.Increment()
		}
		rng := rand.New(rand.NewSource(seed + int64(i)))
		r, err := create(rng)
		if err == nil {
			var needed, used int
			needed, used, err = Reveal(r, rng)
			if err == nil {
				statsMux.Lock()
				previousStats.Blocks = r.Blocks()
				previousStats.Completed = append(previousStats.Completed, i)
				if needed < 0 {
					previousStats.Failures++
				} else {
					previousStats.Needed.Update(float64(needed))
					previousStats.Used.Update(float64(used))
					previousStats.NeededSamples = append(previousStats.NeededSamples, float64(needed))
					previousStats.UsedSamples = append(previousStats.UsedSamples, float64(used))
				}
				if checkpoints != nil {
					checkpoints(previousStats)
				}
				statsMux.Unlock()
				return
			}
		}

		statsMux.Lock()
		if firstErr == nil {
			firstErr = fmt.Errorf("trial %v: %w", i, err)
		}
		statsMux.Unlock()
	}

	for _, i := range remaining {
		tmp := i
		pool.Add(func() { trial(tmp) })
	}
	pool.Wait()
	if showProgressBar {
		bar.Finish()
	}
	return previousStats, firstErr
}

//PeelingRevealer reveals blocks to a peeling decoder over a constraint graph
type PeelingRevealer struct {
	decoder   *bec.Decoder
	available []bool
	k         int
}

//NewPeelingRevealer starts with no blocks available
func NewPeelingRevealer(g *linearblock.ConstraintGraph, config bec.Config) *PeelingRevealer {
	_, cols := g.Dims()
	return &PeelingRevealer{
		decoder:   bec.NewDecoder(g, config),
		available: make([]bool, cols),
		k:         g.DataBlocks(),
	}
}

func (p *PeelingRevealer) Blocks() int {
	return len(p.available)
}

func (p *PeelingRevealer) DataBlocks() int {
	return p.k
}

func (p *PeelingRevealer) Known(block int) bool {
	return p.available[block]
}

func (p *PeelingRevealer) Reveal(block int) error {
	if block < 0 || block >= len(p.available) {
		return fmt.Errorf("%w: block %v not in [0,%v)", linearblock.ErrIndexOutOfRange, block, len(p.available))
	}
	p.available[block] = true
	return nil
}

func (p *PeelingRevealer) Decode() (bool, error) {
	result, err := p.decoder.Decode(p.available)
	if err != nil {
		return false, err
	}
	return result.Status == bec.Complete, nil
}
