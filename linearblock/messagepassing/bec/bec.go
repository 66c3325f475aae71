package bec

//ErasureBit is a codeword bit as seen through a binary erasure channel
type ErasureBit int

const (
	Zero ErasureBit = iota
	One
	Erased
)

//BECFlippingAlg fills in erased bits of a codeword
type BECFlippingAlg interface {
	Flip(currentCodeword []ErasureBit) (nextCodeword []ErasureBit, done bool)
}

//Flipping runs alg until it reports it is done and returns the final codeword.
// The input codeword is not modified.
func Flipping(alg BECFlippingAlg, codeword []ErasureBit) (result []ErasureBit) {
	done := false
	result = make([]ErasureBit, len(codeword))
	copy(result, codeword)
	for !done {
		result, done = alg.Flip(result)
	}
	return result
}

//ToErasureBits converts data and its availability into a codeword, unavailable bits are Erased
func ToErasureBits(data, available []bool) []ErasureBit {
	result := make([]ErasureBit, len(data))
	for i := range data {
		switch {
		case !available[i]:
			result[i] = Erased
		case data[i]:
			result[i] = One
		default:
			result[i] = Zero
		}
	}
	return result
}

//Erasures returns the indices of all erased bits
func Erasures(codeword []ErasureBit) []int {
	erased := make([]int, 0, len(codeword))
	for i, b := range codeword {
		if b == Erased {
			erased = append(erased, i)
		}
	}
	return erased
}
