package benchmarking

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/threadpool"
)

type Stats struct {
	ChannelCodewordError avgstd.AvgStd // fraction of blocks still erased after decoding
	ChannelMessageError  avgstd.AvgStd // fraction of data blocks still erased after decoding
	ChannelParityError   avgstd.AvgStd // fraction of check blocks still erased after decoding
}

func (s Stats) String() string {
	return fmt.Sprintf("{Codeword:%0.02f(+/-%0.02f), Message:%0.02f(+/-%0.02f), Parity:%0.02f(+/-%0.02f)}",
		s.ChannelCodewordError.Mean, math.Sqrt(s.ChannelCodewordError.SampledVariance()),
		s.ChannelMessageError.Mean, math.Sqrt(s.ChannelMessageError.SampledVariance()),
		s.ChannelParityError.Mean, math.Sqrt(s.ChannelParityError.SampledVariance()),
	)
}

type Checkpoints func(updatedStats Stats)

//BinaryMessageConstructor returns the data blocks for a trial
type BinaryMessageConstructor func(trial int) (message []bool)

//specific to BEC
type BinaryErasureChannelEncoder func(message []bool) (codeword []bool)
type BinaryErasureChannel func(codeword []bool) (available []bool)
type BinaryErasureChannelCorrection func(codeword, available []bool) (fixedChannelInducedCodeword []bec.ErasureBit)
type BinaryErasureChannelMetrics func(originalMessage, originalCodeword []bool, fixedChannelInducedCodeword []bec.ErasureBit) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64)

func BenchmarkBEC(ctx context.Context,
	trials, threads int,
	createMessage BinaryMessageConstructor,
	encode BinaryErasureChannelEncoder,
	channel BinaryErasureChannel,
	codewordRepair BinaryErasureChannelCorrection,
	metrics BinaryErasureChannelMetrics,
	checkpoints Checkpoints, showBar bool) Stats {
	return BenchmarkBECContinueStats(ctx, trials, threads, createMessage, encode, channel, codewordRepair, metrics, checkpoints, Stats{}, showBar)
}

func BenchmarkBECContinueStats(
	ctx context.Context,
	trials, threads int,
	createMessage BinaryMessageConstructor,
	encode BinaryErasureChannelEncoder,
	channel BinaryErasureChannel,
	codewordRepair BinaryErasureChannelCorrection,
	metrics BinaryErasureChannelMetrics,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgressBar bool) Stats {
	trialsToRun := trials - previousStats.ChannelCodewordError.Count
	if trialsToRun <= 0 {
		return previousStats
	}

	var bar *pb.ProgressBar
	if showProgressBar {
		bar = pb.StartNew(trialsToRun)
	}

	pool := threadpool.New(ctx, threads)
	statsMux := sync.Mutex{}

	trial := func(i int) {
		if showProgressBar {
			bar.Increment()
		}
		//we create a random message
		message := createMessage(i)

		// encode to get our codeword
		codeword := encode(message)

		// send through the channel to find out which blocks arrive
		available := channel(codeword)

		// repair the codeword (if possible)
		repaired := codewordRepair(codeword, available)

		// get metrics
		percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors := metrics(message, codeword, repaired)

		statsMux.Lock()
		previousStats.ChannelCodewordError.Update(percentFixedCodewordErrors)
		previousStats.ChannelMessageError.Update(percentFixedMessageErrors)
		previousStats.ChannelParityError.Update(percentFixedParityErrors)

		if checkpoints != nil {
			checkpoints(previousStats) //give them the updated checkpoint
		}
		statsMux.Unlock()
	}

	for i := previousStats.ChannelCodewordError.Count; i < trials; i++ {
		tmp := i
		pool.Add(func() { trial(tmp) })
	}

	pool.Wait()
	if showProgressBar {
		bar.Finish()
	}
	return previousStats
}

//ErasedCount returns the number of erased bits
func ErasedCount(base []bec.ErasureBit) (count int) {
	for _, e := range base {
		if e == bec.Erased {
			count++
		}
	}
	return
}

//ErasureFractions returns the fraction of erased bits in the whole codeword, in the data
// blocks codeword[checkBlocks:] and in the check blocks codeword[:checkBlocks]
func ErasureFractions(codeword []bec.ErasureBit, checkBlocks int) (codewordFraction, messageFraction, parityFraction float64) {
	parity := ErasedCount(codeword[:checkBlocks])
	message := ErasedCount(codeword[checkBlocks:])

	codewordFraction = float64(parity+message) / float64(len(codeword))
	if len(codeword) > checkBlocks {
		messageFraction = float64(message) / float64(len(codeword)-checkBlocks)
	}
	if checkBlocks > 0 {
		parityFraction = float64(parity) / float64(checkBlocks)
	}
	return
}
