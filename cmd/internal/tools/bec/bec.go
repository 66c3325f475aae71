package bec

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/evand/freenet-scripts/benchmarking"
	"github.com/evand/freenet-scripts/linearblock/dense"
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec"
)

//RunBEC encodes a random message per trial, erases round(percentage*n) blocks and decodes what
// arrived with code. Trial i draws its message and erasures from seed+i.
func RunBEC(ctx context.Context,
	code *dense.Code,
	percentage float64, trials, threads int,
	seed int64,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgressBar bool) benchmarking.Stats {
	checkBlocks := code.N() - code.K()

	// the channel does not know the trial so it shares one source
	rngMux := sync.Mutex{}
	rng := rand.New(rand.NewSource(seed))

	createMessage := func(trial int) []bool {
		return benchmarking.RandomMessage(rand.New(rand.NewSource(seed+int64(trial))), code.K())
	}

	encode := func(message []bool) (codeword []bool) {
		codeword = make([]bool, code.N())
		copy(codeword[checkBlocks:], message)
		if err := code.Encode(codeword); err != nil {
			panic(err)
		}
		return codeword
	}

	channel := func(codeword []bool) (available []bool) {
		count := int(math.Round(percentage * float64(len(codeword))))
		rngMux.Lock()
		defer rngMux.Unlock()
		return benchmarking.RandomEraseCount(rng, codeword, count)
	}

	correction := func(codeword, available []bool) (fixed []bec.ErasureBit) {
		received := benchmarking.ErasedCopy(codeword, available)
		known := append([]bool(nil), available...)
		if _, err := code.Decode(received, known); err != nil {
			panic(err)
		}
		return bec.ToErasureBits(received, known)
	}

	metrics := func(originalMessage, originalCodeword []bool, fixed []bec.ErasureBit) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64) {
		return benchmarking.ErasureFractions(fixed, checkBlocks)
	}

	return benchmarking.BenchmarkBECContinueStats(ctx, trials, threads, createMessage, encode, channel, correction, metrics, checkpoints, previousStats, showProgressBar)
}
