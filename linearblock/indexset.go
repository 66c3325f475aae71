package linearblock

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const initialIndexSetCapacity = 8

//IndexSet is a sparse boolean vector over a fixed universe [0,size). The set positions are
// stored in strictly ascending order so lookups are a binary search. Removed positions are left
// behind as tombstones and compacted when the backing array runs out of room.
type IndexSet struct {
	size  int
	rank  int
	slots []int
	dead  []bool
}

//NewIndexSet creates an empty IndexSet over the universe [0,size)
func NewIndexSet(size int) *IndexSet {
	c := initialIndexSetCapacity
	if size < c {
		c = size
	}
	if c < 0 {
		c = 0
	}
	return &IndexSet{
		size:  size,
		slots: make([]int, 0, c),
		dead:  make([]bool, 0, c),
	}
}

//Size returns the universe size
func (s *IndexSet) Size() int {
	return s.size
}

//Rank returns the number of set positions
func (s *IndexSet) Rank() int {
	return s.rank
}

func (s *IndexSet) checkRange(i int) error {
	if i < 0 || i >= s.size {
		return fmt.Errorf("%w: %v not in [0,%v)", ErrIndexOutOfRange, i, s.size)
	}
	return nil
}

func (s *IndexSet) has(i int) bool {
	pos, found := slices.BinarySearch(s.slots, i)
	return found && !s.dead[pos]
}

//Get reports whether i is in the set
func (s *IndexSet) Get(i int) (bool, error) {
	if err := s.checkRange(i); err != nil {
		return false, err
	}
	return s.has(i), nil
}

//Set adds (value == true) or removes (value == false) i from the set.
// Setting a position to the state it is already in does nothing.
func (s *IndexSet) Set(i int, value bool) error {
	if err := s.checkRange(i); err != nil {
		return err
	}
	if value {
		s.insert(i)
	} else {
		s.remove(i)
	}
	return nil
}

func (s *IndexSet) insert(i int) {
	pos, found := slices.BinarySearch(s.slots, i)
	if found {
		if s.dead[pos] {
			s.dead[pos] = false
			s.rank++
		}
		return
	}

	// a neighboring tombstone can be reused without moving anything
	if pos < len(s.slots) && s.dead[pos] {
		s.slots[pos] = i
		s.dead[pos] = false
		s.rank++
		return
	}
	if pos > 0 && s.dead[pos-1] {
		s.slots[pos-1] = i
		s.dead[pos-1] = false
		s.rank++
		return
	}

	if len(s.slots) == cap(s.slots) {
		s.compact()
		if len(s.slots) == cap(s.slots) {
			s.grow()
		}
		pos, _ = slices.BinarySearch(s.slots, i)
	}

	n := len(s.slots)
	s.slots = s.slots[:n+1]
	s.dead = s.dead[:n+1]
	copy(s.slots[pos+1:], s.slots[pos:n])
	copy(s.dead[pos+1:], s.dead[pos:n])
	s.slots[pos] = i
	s.dead[pos] = false
	s.rank++
}

func (s *IndexSet) remove(i int) {
	pos, found := slices.BinarySearch(s.slots, i)
	if !found || s.dead[pos] {
		return
	}
	s.rank--
	if pos == len(s.slots)-1 {
		s.slots = s.slots[:pos]
		s.dead = s.dead[:pos]
		return
	}
	s.dead[pos] = true
}

func (s *IndexSet) compact() {
	w := 0
	for r := range s.slots {
		if s.dead[r] {
			continue
		}
		s.slots[w] = s.slots[r]
		s.dead[w] = false
		w++
	}
	s.slots = s.slots[:w]
	s.dead = s.dead[:w]
}

func (s *IndexSet) grow() {
	c := 2 * cap(s.slots)
	if c > s.size {
		c = s.size
	}
	if c < 1 {
		c = 1
	}
	slots := make([]int, len(s.slots), c)
	dead := make([]bool, len(s.dead), c)
	copy(slots, s.slots)
	copy(dead, s.dead)
	s.slots = slots
	s.dead = dead
}

//Each calls fn for each set position in ascending order
func (s *IndexSet) Each(fn func(i int)) {
	for r, i := range s.slots {
		if !s.dead[r] {
			fn(i)
		}
	}
}

//Indices returns the set positions in ascending order
func (s *IndexSet) Indices() []int {
	result := make([]int, 0, s.rank)
	s.Each(func(i int) {
		result = append(result, i)
	})
	return result
}

func (s *IndexSet) sameSize(other *IndexSet) error {
	if s.size != other.size {
		return fmt.Errorf("%w: %v != %v", ErrDimensionMismatch, s.size, other.size)
	}
	return nil
}

//Add sets s to the symmetric difference of s and other (addition over GF(2))
func (s *IndexSet) Add(other *IndexSet) error {
	if err := s.sameSize(other); err != nil {
		return err
	}
	if s == other {
		s.slots = s.slots[:0]
		s.dead = s.dead[:0]
		s.rank = 0
		return nil
	}
	other.Each(func(i int) {
		if s.has(i) {
			s.remove(i)
		} else {
			s.insert(i)
		}
	})
	return nil
}

//Multiply sets s to the intersection of s and other (multiplication over GF(2))
func (s *IndexSet) Multiply(other *IndexSet) error {
	if err := s.sameSize(other); err != nil {
		return err
	}
	for r, i := range s.slots {
		if !s.dead[r] && !other.has(i) {
			s.dead[r] = true
			s.rank--
		}
	}
	return nil
}

//Dot returns the parity of the size of the intersection of s and other
func (s *IndexSet) Dot(other *IndexSet) (bool, error) {
	if err := s.sameSize(other); err != nil {
		return false, err
	}
	p := false
	s.Each(func(i int) {
		if other.has(i) {
			p = !p
		}
	})
	return p, nil
}

//Validate re-derives the invariants of the set: positions in range, strictly ascending and
// the live count equal to the rank.
func (s *IndexSet) Validate() bool {
	if len(s.slots) != len(s.dead) || len(s.slots) > s.size {
		return false
	}
	live := 0
	for r, i := range s.slots {
		if i < 0 || i >= s.size {
			return false
		}
		if r > 0 && s.slots[r-1] >= i {
			return false
		}
		if !s.dead[r] {
			live++
		}
	}
	return live == s.rank
}

func (s *IndexSet) String() string {
	return fmt.Sprintf("%v", s.Indices())
}
