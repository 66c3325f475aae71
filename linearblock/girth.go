package linearblock

import (
	"context"
	"math"
	"sync"

	"github.com/nathanhack/threadpool"
)

// CalculateGirthLowerBoundByEdges returns a bool if true it is possible for the graph to be
// free of all cycles C_i  where i \in 3<=i<=minGirth. If false, it is impossible to
// be free of all cycles C_i.
func CalculateGirthLowerBoundByEdges(g *ConstraintGraph, minGirth int) bool {
	// from the paper Fast Distributed Algorithms for Girth, Cycles and Small Subgraphs by K. Censor-Hillel, et al
	// that if m is free of all C_i cycles 3<=i<=2k then m contains at most n^(1+1/k)+n edges.
	rows, cols := g.Dims()
	n := float64(rows + cols)
	n = math.Pow(n, 1+1/(float64(minGirth)/2)) + n
	return int(n) >= g.Edges()
}

type girthNode struct {
	parentIndex int
}

//tanner holds both adjacency lists of a graph so a breadth first search can move
// from check nodes to variable nodes and back
type tanner struct {
	checks [][]int // check -> variables
	vars   [][]int // variable -> checks
}

func newTanner(g *ConstraintGraph) *tanner {
	return &tanner{
		checks: g.Rows(),
		vars:   g.Columns(),
	}
}

// CalculateGirth calculates the girth of the tanner graph g.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func CalculateGirth(ctx context.Context, g *ConstraintGraph, threads int) int {
	return CalculateGirthLowerBound(ctx, g, -1, threads)
}

// CalculateGirthLowerBound returns the length of the smallest cycle.
// It searches for cycles with a length <= smallestGirth. If no cycles are found
// that are smaller or equal to smallestGirth then it returns -1.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func CalculateGirthLowerBound(ctx context.Context, g *ConstraintGraph, smallestGirth, threads int) int {
	if smallestGirth != -1 && (smallestGirth < 4 || smallestGirth%2 != 0) {
		panic("smallestGirth == -1 or smallestGirth must be a even number >=4")
	}

	t := newTanner(g)
	rows, _ := g.Dims()

	pool := threadpool.New(ctx, threads)
	calculated := -1
	mux := sync.RWMutex{}
	for i := 0; i < rows; i++ {
		index := i
		pool.Add(func() {
			mux.RLock()
			limit := smallestGirth
			mux.RUnlock()
			c := t.cycleLowerBound(index, limit)

			mux.Lock()
			if c > 0 && (c <= smallestGirth || smallestGirth == -1) {
				smallestGirth = c
				calculated = c
			}
			mux.Unlock()
		})
	}
	pool.Wait()
	return calculated
}

// HasGirthSmallerThan will search for cycle smaller than the given cycleLen.
// Return true if it found a cycle smaller than cycleLen, else returns false.
// threads specifies the number of threads to use if <=0 will use runtime.NumCPU()
func HasGirthSmallerThan(ctx context.Context, g *ConstraintGraph, cycleLen, threads int) bool {
	if cycleLen < 4 {
		panic("cycleLen >=4 required")
	}

	t := newTanner(g)
	rows, _ := g.Dims()
	pool := threadpool.New(ctx, threads)
	smaller := false
	mux := sync.RWMutex{}
	for i := 0; i < rows; i++ {
		index := i
		pool.Add(func() {
			mux.RLock()
			done := smaller
			mux.RUnlock()
			if done {
				return
			}

			c := t.cycleLowerBound(index, cycleLen)
			if c > 0 && c < cycleLen {
				mux.Lock()
				smaller = true
				mux.Unlock()
			}
		})
	}
	pool.Wait()
	return smaller
}

// CalculateCycleLowerBound runs a BFS starting at the checkIndex check node, for maxGirth/2 steps
// if maxGirth ==-1 it will search until it finds a cycle
// in either case it returns the length of the cycle (up to maxGirth) or -1 if no cycle was found
func CalculateCycleLowerBound(g *ConstraintGraph, checkIndex, maxGirth int) int {
	return newTanner(g).cycleLowerBound(checkIndex, maxGirth)
}

func (t *tanner) cycleLowerBound(checkIndex, maxGirth int) int {
	if maxGirth == -1 {
		maxGirth = math.MaxInt64
	}
	//we make a history that will alternate between variable nodes and check nodes
	// as we extend to each new hop away from the checkIndex
	history := make([]map[int]girthNode, 0)
	rows := len(t.checks)

	//we prime the history
	hop := make(map[int]girthNode)
	for _, i := range t.checks[checkIndex] {
		hop[i] = girthNode{parentIndex: checkIndex}
	}
	//if there was only one variable node (or less than 1) then there is no way
	// this will have a loop
	if len(hop) <= 1 {
		return -1
	}
	history = append(history, hop)

	for level := 1; level < 2*rows && level < maxGirth/2+1; level++ {
		prevHop := history[level-1]
		hop := make(map[int]girthNode)
		for v, gn := range prevHop {
			levelHop := level % 2
			var indices []int
			if levelHop == 0 {
				indices = t.checks[v]
			} else {
				indices = t.vars[v]
			}
			for _, i := range indices {
				if i == gn.parentIndex {
					continue
				}
				_, has := hop[i]
				if has || (levelHop == 1 && i == checkIndex) {
					return (level + 1) * 2
				}
				hop[i] = girthNode{parentIndex: v}
			}
		}
		history = append(history, hop)
	}
	return -1
}
