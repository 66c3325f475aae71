package internal

import (
	mat "github.com/nathanhack/sparsemat"
)

//IsIdentityPrefix reports if the first m columns of R are the m x m identity, i.e. R = [ I, * ]
func IsIdentityPrefix(R mat.SparseMat, m int) bool {
	rows, cols := R.Dims()
	if rows < m || cols < m {
		return false
	}
	return R.Slice(0, 0, m, m).Equals(mat.CSRIdentity(m))
}

//ExtractA returns, for each row of R = [ I, A ], the columns of A that are set.
// The column indices are relative to R, so they are all >= m.
func ExtractA(R mat.SparseMat, m int) [][]int {
	rows, _ := R.Dims()
	result := make([][]int, rows)
	for r := 0; r < rows; r++ {
		support := R.Row(r).NonzeroArray()
		a := make([]int, 0, len(support))
		for _, c := range support {
			if c >= m {
				a = append(a, c)
			}
		}
		result[r] = a
	}
	return result
}

//ValidateConstraints reports if the XOR of bits over every constraint is zero
func ValidateConstraints(constraints [][]int, bits []bool) bool {
	for _, constraint := range constraints {
		check := false
		for _, c := range constraint {
			check = check != bits[c]
		}
		if check {
			return false
		}
	}
	return true
}
