package benchmarking

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/sirupsen/logrus"
	"github.com/xssnick/raptorq"
)

//DefaultSymbolSize is the RaptorQ symbol size in bytes used by NewRaptorQRevealer
const DefaultSymbolSize = 16

//RaptorQRevealer reveals the first n symbols of a RaptorQ encoding of k random symbols. It is the
// fountain code baseline the sparse graph codes are compared against.
type RaptorQRevealer struct {
	n, k     int
	payload  []byte
	encoder  *raptorq.Encoder
	decoder  *raptorq.Decoder
	revealed []bool
	ready    bool
}

//NewRaptorQRevealer encodes k*symbolSize random bytes drawn from rng
func NewRaptorQRevealer(rng *rand.Rand, n, k, symbolSize int) (*RaptorQRevealer, error) {
	if k <= 0 || n <= k {
		return nil, fmt.Errorf("%w: requires 0 < k < n, found n=%v k=%v", linearblock.ErrInvalidInput, n, k)
	}
	if symbolSize <= 0 {
		return nil, fmt.Errorf("%w: symbol size must be positive, found %v", linearblock.ErrInvalidInput, symbolSize)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", linearblock.ErrInvalidInput)
	}

	payload := make([]byte, k*symbolSize)
	rng.Read(payload)

	rq := raptorq.NewRaptorQ(uint32(symbolSize))
	encoder, err := rq.CreateEncoder(payload)
	if err != nil {
		return nil, err
	}
	decoder, err := rq.CreateDecoder(uint32(len(payload)))
	if err != nil {
		return nil, err
	}
	logrus.Debugf("RaptorQ n=%v k=%v base symbols %v", n, k, encoder.BaseSymbolsNum())

	return &RaptorQRevealer{
		n:        n,
		k:        k,
		payload:  payload,
		encoder:  encoder,
		decoder:  decoder,
		revealed: make([]bool, n),
	}, nil
}

func (r *RaptorQRevealer) Blocks() int {
	return r.n
}

func (r *RaptorQRevealer) DataBlocks() int {
	return r.k
}

func (r *RaptorQRevealer) Known(block int) bool {
	return r.revealed[block]
}

func (r *RaptorQRevealer) Reveal(block int) error {
	if block < 0 || block >= r.n {
		return fmt.Errorf("%w: block %v not in [0,%v)", linearblock.ErrIndexOutOfRange, block, r.n)
	}
	if r.revealed[block] {
		return nil
	}
	r.revealed[block] = true
	ready, err := r.decoder.AddSymbol(uint32(block), r.encoder.GenSymbol(uint32(block)))
	if err != nil {
		return err
	}
	r.ready = r.ready || ready
	return nil
}

//Decode tries to recover the payload. A failed attempt with enough symbols means the received
// symbols were not independent yet, so it is reported as incomplete.
func (r *RaptorQRevealer) Decode() (bool, error) {
	if !r.ready {
		return false, nil
	}
	ok, data, err := r.decoder.Decode()
	if err != nil {
		logrus.Debugf("RaptorQ decode attempt failed: %v", err)
		return false, nil
	}
	if !ok {
		return false, nil
	}
	if !bytes.Equal(data, r.payload) {
		return false, fmt.Errorf("%w: decoded payload does not match", linearblock.ErrInconsistent)
	}
	return true, nil
}
