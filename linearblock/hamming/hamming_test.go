package hamming

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/evand/freenet-scripts/linearblock"
)

func TestNew(t *testing.T) {
	tests := []struct {
		paritySymbols int
	}{
		{3},
		{4},
		{6},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual, err := New(test.paritySymbols)
			if err != nil {
				t.Fatalf("expected no error found :%v", err)
			}

			if !actual.Validate() {
				t.Fatalf("expected valid constraint graph")
			}

			rows, cols := actual.Dims()
			if rows != test.paritySymbols || cols != 1<<test.paritySymbols-1 {
				t.Fatalf("expected (%v,%v) but found (%v,%v)", test.paritySymbols, 1<<test.paritySymbols-1, rows, cols)
			}

			// check blocks are an identity
			for r := 0; r < rows; r++ {
				for c := 0; c < rows; c++ {
					if actual.Get(r, c) != (r == c) {
						t.Fatalf("expected identity in the check columns at (%v,%v)", r, c)
					}
				}
			}

			// every column is distinct and nonzero
			seen := make(map[int]bool)
			for c := 0; c < cols; c++ {
				value := 0
				for r := 0; r < rows; r++ {
					if actual.Get(r, c) {
						value |= 1 << r
					}
				}
				if value == 0 || seen[value] {
					t.Fatalf("expected column %v to be unique and nonzero", c)
				}
				seen[value] = true
			}
		})
	}
}

func TestNew_Hamming7(t *testing.T) {
	g, err := New(3)
	if err != nil {
		t.Fatalf("expected no error found :%v", err)
	}
	expected := [][]int{{0, 3, 4, 6}, {1, 3, 5, 6}, {2, 4, 5, 6}}
	actual := g.Rows()
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected %v but found %v", expected, actual)
	}
}

func TestNew_InvalidInput(t *testing.T) {
	for _, p := range []int{-1, 0, 2, 25} {
		if _, err := New(p); !errors.Is(err, linearblock.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput but found %v", err)
		}
	}
}
