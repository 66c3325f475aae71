package linearblock

import (
	"encoding/json"
	"fmt"
	"strings"

	mat "github.com/nathanhack/sparsemat"
)

//// For JSON marshalling
type constraintGraph struct {
	Rows        int
	Cols        int
	Constraints [][]int
}

//MarshalJSON stores the graph as its dimensions and the blocks of each constraint
func (g *ConstraintGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(constraintGraph{
		Rows:        g.rows,
		Cols:        g.cols,
		Constraints: g.Rows(),
	})
}

//UnmarshalJSON rebuilds the graph (and its ranks) from the stored constraints
func (g *ConstraintGraph) UnmarshalJSON(bytes []byte) error {
	var cg constraintGraph
	err := json.Unmarshal(bytes, &cg)
	if err != nil {
		return err
	}
	if len(cg.Constraints) != cg.Rows {
		return fmt.Errorf("%w: found %v constraints for %v rows", ErrInvalidInput, len(cg.Constraints), cg.Rows)
	}

	tmp, err := NewConstraintGraph(cg.Rows, cg.Cols)
	if err != nil {
		return err
	}
	for r, constraint := range cg.Constraints {
		for _, c := range constraint {
			if err := tmp.Set(r, c, true); err != nil {
				return err
			}
		}
	}
	*g = *tmp
	return nil
}

//ParityMatrix returns the graph as a (n-k)x(n) GF(2) parity check matrix H
func (g *ConstraintGraph) ParityMatrix() mat.SparseMat {
	H := mat.DOKMat(g.rows, g.cols)
	for r, set := range g.sets {
		set.Each(func(c int) {
			H.Set(r, c, 1)
		})
	}
	return H
}

//RowDegreeHistogram returns h where h[d] is the number of constraints with d blocks
func (g *ConstraintGraph) RowDegreeHistogram() []int {
	return histogram(g.rowRank)
}

//ColumnDegreeHistogram returns h where h[d] is the number of blocks in d constraints
func (g *ConstraintGraph) ColumnDegreeHistogram() []int {
	return histogram(g.colRank)
}

func histogram(degrees []int) []int {
	max := 0
	for _, d := range degrees {
		if d > max {
			max = d
		}
	}
	h := make([]int, max+1)
	for _, d := range degrees {
		h[d]++
	}
	return h
}

func (g *ConstraintGraph) String() string {
	buf := strings.Builder{}
	buf.WriteString(fmt.Sprintf("{\nRows: %v Cols: %v\n", g.rows, g.cols))
	for r, set := range g.sets {
		buf.WriteString(fmt.Sprintf("%v: %v\n", r, set))
	}
	buf.WriteString("}\n")
	return buf.String()
}
