package bec

import (
	"fmt"

	"github.com/evand/freenet-scripts/linearblock"
)

//Status is the outcome of a peeling decode
type Status int

const (
	//Stalled means no constraint has a single unknown block left; more blocks are needed
	Stalled Status = iota
	//Complete means every required block is known
	Complete
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "Complete"
	case Stalled:
		return "Stalled"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

//Config selects the completion predicate of a Decoder
type Config struct {
	//RequireAll requires every block to be known, otherwise only the data blocks are required
	RequireAll bool
}

//Result describes a peeling decode
type Result struct {
	Status Status
	//Sweeps is the number of full passes over the constraints
	Sweeps int
	//Recovered is the number of blocks this decode marked as available
	Recovered int
}

//Decoder marks blocks as available when a constraint has exactly one unknown block.
// A Decoder only reads its graph so it may be shared by goroutines that each own their
// availability vector.
type Decoder struct {
	n, k   int
	rows   [][]int
	config Config
}

//NewDecoder caches the constraints of g
func NewDecoder(g *linearblock.ConstraintGraph, config Config) *Decoder {
	rows, cols := g.Dims()
	return &Decoder{
		n:      cols,
		k:      cols - rows,
		rows:   g.Rows(),
		config: config,
	}
}

//Decode peels available in place. Blocks are only ever marked available, never cleared.
func Decode(g *linearblock.ConstraintGraph, available []bool) (bool, error) {
	result, err := NewDecoder(g, Config{RequireAll: true}).Decode(available)
	if err != nil {
		return false, err
	}
	return result.Status == Complete, nil
}

//Decode sweeps over every constraint until a sweep makes no progress, marking the single
// unknown block of a constraint as available.
func (d *Decoder) Decode(available []bool) (Result, error) {
	if len(available) != d.n {
		return Result{}, fmt.Errorf("%w: expected %v blocks but found %v", linearblock.ErrInvalidInput, d.n, len(available))
	}

	result := Result{}
	if d.complete(available) {
		result.Status = Complete
		return result, nil
	}

	changed := true
	for changed {
		changed = false
		result.Sweeps++
		for _, row := range d.rows {
			missing := unknown(row, available)
			if missing < 0 {
				continue
			}
			available[missing] = true
			result.Recovered++
			changed = true
		}
		if changed && d.complete(available) {
			result.Status = Complete
			return result, nil
		}
	}
	return result, nil
}

//complete reports if all required blocks are available
func (d *Decoder) complete(available []bool) bool {
	start := 0
	if !d.config.RequireAll {
		start = d.n - d.k
	}
	for i := start; i < d.n; i++ {
		if !available[i] {
			return false
		}
	}
	return true
}

//unknown returns the only unavailable block of row, or -1 if there are none or several
func unknown(row []int, available []bool) int {
	missing := -1
	for _, b := range row {
		if available[b] {
			continue
		}
		if missing >= 0 {
			return -1
		}
		missing = b
	}
	return missing
}
