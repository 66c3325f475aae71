package linearblock

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"strconv"
	"testing"
)

func setOf(t *testing.T, size int, indices ...int) *IndexSet {
	s := NewIndexSet(size)
	for _, i := range indices {
		if err := s.Set(i, true); err != nil {
			t.Fatalf("expected no error but found: %v", err)
		}
	}
	return s
}

func TestIndexSet_SetGet(t *testing.T) {
	s := NewIndexSet(100)
	if s.Rank() != 0 {
		t.Fatalf("expected empty set but found rank %v", s.Rank())
	}

	for _, i := range []int{50, 3, 99, 0, 3, 42} {
		if err := s.Set(i, true); err != nil {
			t.Fatalf("expected no error but found: %v", err)
		}
	}
	if s.Rank() != 5 {
		t.Fatalf("expected %v but found %v", 5, s.Rank())
	}
	expected := []int{0, 3, 42, 50, 99}
	if !reflect.DeepEqual(s.Indices(), expected) {
		t.Fatalf("expected %v but found %v", expected, s.Indices())
	}

	if err := s.Set(42, false); err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if err := s.Set(42, false); err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	has, err := s.Get(42)
	if err != nil || has {
		t.Fatalf("expected 42 to be removed (err: %v)", err)
	}
	if s.Rank() != 4 {
		t.Fatalf("expected %v but found %v", 4, s.Rank())
	}
	if !s.Validate() {
		t.Fatalf("expected set to validate")
	}
}

func TestIndexSet_OutOfRange(t *testing.T) {
	s := NewIndexSet(10)
	for _, i := range []int{-1, 10, 11} {
		if err := s.Set(i, true); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("expected ErrIndexOutOfRange for %v but found %v", i, err)
		}
		if _, err := s.Get(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("expected ErrIndexOutOfRange for %v but found %v", i, err)
		}
	}
	if s.Rank() != 0 {
		t.Fatalf("expected no changes but found rank %v", s.Rank())
	}
}

func TestIndexSet_RandomOperations(t *testing.T) {
	for trial := 0; trial < 20; trial++ {
		t.Run(strconv.Itoa(trial), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(trial)))
			size := 1 + rng.Intn(200)
			s := NewIndexSet(size)
			expected := make(map[int]bool)

			for op := 0; op < 1000; op++ {
				i := rng.Intn(size)
				v := rng.Intn(3) > 0
				if err := s.Set(i, v); err != nil {
					t.Fatalf("expected no error but found: %v", err)
				}
				if v {
					expected[i] = true
				} else {
					delete(expected, i)
				}
				if s.Rank() != len(expected) {
					t.Fatalf("expected rank %v but found %v", len(expected), s.Rank())
				}
			}

			keys := make([]int, 0, len(expected))
			for k := range expected {
				keys = append(keys, k)
			}
			sort.Ints(keys)
			if !reflect.DeepEqual(s.Indices(), keys) {
				t.Fatalf("expected %v but found %v", keys, s.Indices())
			}
			if !s.Validate() {
				t.Fatalf("expected set to validate")
			}
			if cap(s.slots) > size {
				t.Fatalf("expected capacity <= %v but found %v", size, cap(s.slots))
			}
		})
	}
}

func TestIndexSet_Algebra(t *testing.T) {
	tests := []struct {
		a, b     []int
		xor, and []int
		dot      bool
	}{
		{[]int{1, 2, 3}, []int{2, 3, 4}, []int{1, 4}, []int{2, 3}, false},
		{[]int{0, 5, 9}, []int{5}, []int{0, 9}, []int{5}, true},
		{[]int{}, []int{7, 8}, []int{7, 8}, []int{}, false},
		{[]int{1, 2}, []int{3, 4}, []int{1, 2, 3, 4}, []int{}, false},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			a := setOf(t, 10, test.a...)
			b := setOf(t, 10, test.b...)

			dot, err := a.Dot(b)
			if err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			if dot != test.dot {
				t.Fatalf("expected %v but found %v", test.dot, dot)
			}

			x := setOf(t, 10, test.a...)
			if err := x.Add(b); err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			if !reflect.DeepEqual(x.Indices(), test.xor) {
				t.Fatalf("expected %v but found %v", test.xor, x.Indices())
			}

			m := setOf(t, 10, test.a...)
			if err := m.Multiply(b); err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			if !reflect.DeepEqual(m.Indices(), test.and) {
				t.Fatalf("expected %v but found %v", test.and, m.Indices())
			}
			if !x.Validate() || !m.Validate() {
				t.Fatalf("expected sets to validate")
			}
		})
	}
}

func TestIndexSet_DimensionMismatch(t *testing.T) {
	a := NewIndexSet(10)
	b := NewIndexSet(11)
	if err := a.Add(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch but found %v", err)
	}
	if err := a.Multiply(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch but found %v", err)
	}
	if _, err := a.Dot(b); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch but found %v", err)
	}
}

func TestIndexSet_AddSelf(t *testing.T) {
	a := setOf(t, 10, 1, 2, 3)
	if err := a.Add(a); err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if a.Rank() != 0 {
		t.Fatalf("expected empty set but found %v", a)
	}
}

func BenchmarkIndexSet_Set(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	s := NewIndexSet(10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(rng.Intn(10000), rng.Intn(2) == 0)
	}
}
