package iterative

import (
	"github.com/evand/freenet-scripts/linearblock/messagepassing/bec"
)

//Simple recovers erased bits one constraint at a time: a constraint with a single erased bit
// gets the XOR of its other bits. Flip never modifies a Simple so it can be shared.
type Simple struct {
	checkToVars [][]int
	varToChecks [][]int
}

//NewSimple creates a Simple over constraints, each a list of the codeword positions whose XOR is 0
func NewSimple(constraints [][]int, codewordLen int) *Simple {
	s := &Simple{
		checkToVars: constraints,
		varToChecks: make([][]int, codewordLen),
	}
	for v := range s.varToChecks {
		s.varToChecks[v] = make([]int, 0)
	}
	for c, vars := range constraints {
		for _, v := range vars {
			s.varToChecks[v] = append(s.varToChecks[v], c)
		}
	}
	return s
}

func (s *Simple) Flip(currentCodeword []bec.ErasureBit) (nextCodeword []bec.ErasureBit, done bool) {
	nextCodeword = make([]bec.ErasureBit, len(currentCodeword))
	copy(nextCodeword, currentCodeword)
	erasedBits := bec.Erasures(nextCodeword)
	progress := false

	for len(erasedBits) > 0 {
		progress = false

		checksCompleted := make(map[int]bool)
		for _, erasedBit := range erasedBits {
			for _, row := range s.varToChecks[erasedBit] {
				if _, has := checksCompleted[row]; has {
					continue
				}

				if progressM(nextCodeword, s.checkToVars[row]) {
					checksCompleted[row] = true
					progress = true
				}
			}
		}

		if !progress {
			return nextCodeword, true
		}

		erasedBits = bec.Erasures(nextCodeword)
	}

	return nextCodeword, true
}

func progressM(M []bec.ErasureBit, B []int) bool {
	count := 0
	missing := -1
	value := 0
	for _, b := range B {
		if M[b] != bec.Erased {
			value += int(M[b])
			continue
		}

		count++
		missing = b
		//we can only fix a check node with only 1 missing value
		if count > 1 {
			return false
		}
	}

	if count != 1 {
		return false
	}
	M[missing] = bec.ErasureBit(value % 2)

	return true
}
