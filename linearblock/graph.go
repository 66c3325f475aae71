package linearblock

import (
	"fmt"
)

//ConstraintGraph is the bipartite incidence structure of an erasure code. Each row is a check
// constraint over the columns (blocks) it contains: the XOR of the blocks in a row is zero.
// The first Rows() columns are check blocks and the remaining columns are data blocks.
//
// Row and column ranks are kept up to date on every Set. Once built, a ConstraintGraph is only
// read, so it can be shared by concurrent decoders.
type ConstraintGraph struct {
	rows, cols int
	sets       []*IndexSet
	rowRank    []int
	colRank    []int
}

//NewConstraintGraph creates an empty graph with rows check nodes and cols variable nodes.
// There must be at least one data block, so cols must exceed rows.
func NewConstraintGraph(rows, cols int) (*ConstraintGraph, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: graph dimensions (%v,%v) must be positive", ErrInvalidInput, rows, cols)
	}
	if cols <= rows {
		return nil, fmt.Errorf("%w: graph needs more columns than rows, found (%v,%v)", ErrInvalidInput, rows, cols)
	}
	g := &ConstraintGraph{
		rows:    rows,
		cols:    cols,
		sets:    make([]*IndexSet, rows),
		rowRank: make([]int, rows),
		colRank: make([]int, cols),
	}
	for i := range g.sets {
		g.sets[i] = NewIndexSet(cols)
	}
	return g, nil
}

//Dims returns the number of rows (check nodes) and columns (blocks)
func (g *ConstraintGraph) Dims() (rows, cols int) {
	return g.rows, g.cols
}

//CheckBlocks is the number of check blocks (n-k)
func (g *ConstraintGraph) CheckBlocks() int {
	return g.rows
}

//DataBlocks is the number of data blocks (k)
func (g *ConstraintGraph) DataBlocks() int {
	return g.cols - g.rows
}

//Set adds or removes the edge between row and col
func (g *ConstraintGraph) Set(row, col int, value bool) error {
	if row < 0 || row >= g.rows {
		return fmt.Errorf("%w: row %v not in [0,%v)", ErrIndexOutOfRange, row, g.rows)
	}
	set := g.sets[row]
	before := set.Rank()
	if err := set.Set(col, value); err != nil {
		return err
	}
	delta := set.Rank() - before
	g.rowRank[row] += delta
	g.colRank[col] += delta
	return nil
}

//Get reports whether row contains col. Out of range positions are never set.
func (g *ConstraintGraph) Get(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	return g.sets[row].has(col)
}

//RowRank is the number of blocks in constraint i
func (g *ConstraintGraph) RowRank(i int) int {
	return g.rowRank[i]
}

//ColRank is the number of constraints block j participates in
func (g *ConstraintGraph) ColRank(j int) int {
	return g.colRank[j]
}

//Row returns the blocks of constraint i in ascending order
func (g *ConstraintGraph) Row(i int) []int {
	return g.sets[i].Indices()
}

//Rows returns the blocks of every constraint
func (g *ConstraintGraph) Rows() [][]int {
	result := make([][]int, g.rows)
	for i := range result {
		result[i] = g.Row(i)
	}
	return result
}

//Columns returns, for every block, the constraints it participates in (ascending)
func (g *ConstraintGraph) Columns() [][]int {
	result := make([][]int, g.cols)
	for j := range result {
		result[j] = make([]int, 0, g.colRank[j])
	}
	for i, set := range g.sets {
		set.Each(func(j int) {
			result[j] = append(result[j], i)
		})
	}
	return result
}

//Edges returns the total number of edges
func (g *ConstraintGraph) Edges() int {
	total := 0
	for _, r := range g.rowRank {
		total += r
	}
	return total
}

//Validate re-derives every row and both rank arrays and reports if they are consistent.
// It is meant for tests and debugging, not for the hot path.
func (g *ConstraintGraph) Validate() bool {
	if len(g.sets) != g.rows || len(g.rowRank) != g.rows || len(g.colRank) != g.cols {
		return false
	}
	colRank := make([]int, g.cols)
	for i, set := range g.sets {
		if set.Size() != g.cols || !set.Validate() {
			return false
		}
		if set.Rank() != g.rowRank[i] {
			return false
		}
		set.Each(func(j int) {
			colRank[j]++
		})
	}
	for j, c := range colRank {
		if g.colRank[j] != c {
			return false
		}
	}
	return true
}
