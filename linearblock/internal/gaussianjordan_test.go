package internal

import (
	"context"
	"reflect"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"
)

func TestReduceGF2(t *testing.T) {
	tests := []struct {
		input     mat.SparseMat
		pivotCols int
		expected  mat.SparseMat
		pivots    []int
	}{
		{ //Hamming 7, already reduced
			mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1),
			3,
			mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1),
			[]int{0, 1, 2},
		},
		{ //needs a row swap and back substitution
			mat.CSRMat(2, 3, 0, 1, 1, 1, 1, 0),
			2,
			mat.CSRMat(2, 3, 1, 0, 1, 0, 1, 1),
			[]int{0, 1},
		},
		{ //Random - one linearly dependent row
			mat.CSRMat(4, 5, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1),
			4,
			nil,
			[]int{0, 1, 3},
		},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			reduced, pivots, err := ReduceGF2(context.Background(), test.input, test.pivotCols, 0)
			if err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			if !reflect.DeepEqual(pivots, test.pivots) {
				t.Fatalf("expected pivots %v but found %v", test.pivots, pivots)
			}
			if test.expected != nil && !test.expected.Equals(reduced) {
				t.Fatalf("expected \n%v\n but found \n%v\n", test.expected, reduced)
			}
			if IsIdentityPrefix(reduced, test.pivotCols) != (len(pivots) == test.pivotCols) {
				t.Fatalf("expected identity prefix only for full rank")
			}
		})
	}
}

func TestCalculateRank(t *testing.T) {
	rank, err := CalculateRank(context.Background(), mat.CSRMat(4, 5, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1), 0)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if rank != 3 {
		t.Fatalf("expected %v but found %v", 3, rank)
	}
}

func TestExtractA(t *testing.T) {
	R := mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1)
	expected := [][]int{{3, 4, 5}, {3, 4, 6}, {4, 5, 6}}
	actual := ExtractA(R, 3)
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected %v but found %v", expected, actual)
	}
}

func TestValidateConstraints(t *testing.T) {
	constraints := [][]int{{0, 1, 2}, {1, 3}}
	if !ValidateConstraints(constraints, []bool{true, true, false, true}) {
		t.Fatalf("expected constraints to hold")
	}
	if ValidateConstraints(constraints, []bool{true, false, false, true}) {
		t.Fatalf("expected constraints to fail")
	}
}
