package benchmarking

import (
	"math"
	"math/rand"
)

// RandomMessage creates a random message of length len.
func RandomMessage(rng *rand.Rand, len int) []bool {
	message := make([]bool, len)
	for i := 0; i < len; i++ {
		message[i] = rng.Intn(2) == 1
	}
	return message
}

// RandomErase returns the availability of each block of codeword when each is erased with
// probabilityOfErasure.
func RandomErase(rng *rand.Rand, codeword []bool, probabilityOfErasure float64) []bool {
	return RandomEraseCount(rng, codeword, int(math.Round(probabilityOfErasure*float64(len(codeword)))))
}

// RandomEraseCount returns the availability of each block of codeword with
// min(numberOfBlocksToErase,len(codeword)) blocks erased at random.
func RandomEraseCount(rng *rand.Rand, codeword []bool, numberOfBlocksToErase int) []bool {
	available := make([]bool, len(codeword))
	for i := range available {
		available[i] = true
	}

	//randomly pick indices to erase
	erase := make(map[int]bool)
	for len(erase) < numberOfBlocksToErase && len(erase) < len(codeword) {
		erase[rng.Intn(len(codeword))] = true
	}

	for i := range erase {
		available[i] = false
	}
	return available
}

// ErasedCopy returns a copy of codeword with every unavailable block cleared
func ErasedCopy(codeword, available []bool) []bool {
	result := make([]bool, len(codeword))
	for i := range codeword {
		result[i] = codeword[i] && available[i]
	}
	return result
}
