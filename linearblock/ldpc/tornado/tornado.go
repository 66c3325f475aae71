package tornado

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/ldpc"
	"github.com/sirupsen/logrus"
)

//maxFactorial is the largest n where n! fits in a float64
const maxFactorial = 170

//negligible is the edge mass below which a right degree is no longer considered
const negligible = 0.000001

//Generator builds Tornado codes with window D using Builder
type Generator struct {
	Builder *ldpc.Builder
	D       int
}

//New builds an (n-k) x n ConstraintGraph whose degrees follow the Tornado distributions for d
func New(rng *rand.Rand, n, k, d int) (*linearblock.ConstraintGraph, error) {
	return (&Generator{Builder: &ldpc.Builder{Rand: rng}, D: d}).New(n, k)
}

//New see the package level New
func (g *Generator) New(n, k int) (*linearblock.ConstraintGraph, error) {
	if g.Builder == nil {
		return nil, fmt.Errorf("%w: nil builder", linearblock.ErrInvalidInput)
	}
	rowDegrees, colDegrees, err := Degrees(g.Builder.Rand, n, k, g.D)
	if err != nil {
		return nil, err
	}
	return g.Builder.Build(n, k, rowDegrees, colDegrees)
}

//Degrees returns the per row and per column degrees of an (n-k) x n Tornado code with window d.
// Which node receives which degree is shuffled with rng.
func Degrees(rng *rand.Rand, n, k, d int) (rowDegrees, colDegrees []int, err error) {
	if k <= 0 || n <= k {
		return nil, nil, fmt.Errorf("%w: requires 0 < k < n, found n=%v k=%v", linearblock.ErrInvalidInput, n, k)
	}
	if rng == nil {
		return nil, nil, fmt.Errorf("%w: nil random source", linearblock.ErrInvalidInput)
	}
	if d+1 > n-k {
		return nil, nil, fmt.Errorf("%w: max left degree %v exceeds %v check blocks", linearblock.ErrParameterOutOfRange, d+1, n-k)
	}

	left, err := LeftDegrees(d, n)
	if err != nil {
		return nil, nil, err
	}
	edges := Edges(left)
	right, err := RightDegrees(n-k, edges)
	if err != nil {
		return nil, nil, err
	}
	if top := MaxDegree(right); top > n {
		return nil, nil, fmt.Errorf("%w: max right degree %v exceeds %v blocks", linearblock.ErrParameterOutOfRange, top, n)
	}
	logrus.Debugf("Tornado d=%v: %v edges, left max degree %v, right max degree %v", d, edges, MaxDegree(left), MaxDegree(right))

	rowDegrees = Expand(right)
	colDegrees = Expand(left)
	ldpc.Shuffle(rng, rowDegrees)
	ldpc.Shuffle(rng, colDegrees)
	return rowDegrees, colDegrees, nil
}

//LeftDegrees returns the histogram of variable node degrees for window d over nBlocks nodes:
// result[i] is the number of nodes of degree i. Degrees 0 and 1 are never used and the
// histogram always sums to nBlocks.
func LeftDegrees(d, nBlocks int) ([]int, error) {
	if d < 2 {
		return nil, fmt.Errorf("%w: d (%v) must be at least 2", linearblock.ErrParameterOutOfRange, d)
	}
	if nBlocks < 3 || nBlocks < d+2 {
		return nil, fmt.Errorf("%w: nBlocks (%v) must be at least d+2 (%v)", linearblock.ErrParameterOutOfRange, nBlocks, d+2)
	}

	hd := 0.0
	for i := 1; i <= d; i++ {
		hd += 1.0 / float64(i)
	}
	avgLeftDegree := hd * float64(d+1) / float64(d)
	nEdges := int(float64(nBlocks)*avgLeftDegree + 0.5)

	result := make([]int, d+2)
	total := 0
	rem := 0.0
	for i := 2; i <= d+1; i++ {
		lambda := 1.0 / (hd * float64(i-1))
		ideal := float64(nEdges) * lambda / float64(i)

		count := int(ideal + rem + 0.5)
		if count < 0 {
			count = 0
		}
		if total+count > nBlocks {
			count = nBlocks - total
		}
		result[i] = count
		total += count
		if total == nBlocks {
			break
		}
		rem += ideal - float64(count)
	}

	if total != nBlocks {
		return nil, fmt.Errorf("%w: left degrees total %v nodes, expected %v", linearblock.ErrInconsistent, total, nBlocks)
	}
	return result, nil
}

//RightDegrees returns the histogram of check node degrees for nCheck nodes sharing nEdges
// edges. The histogram sums to exactly nCheck nodes and nEdges edges.
func RightDegrees(nCheck, nEdges int) ([]int, error) {
	if nCheck < 1 {
		return nil, fmt.Errorf("%w: nCheck (%v) must be positive", linearblock.ErrParameterOutOfRange, nCheck)
	}
	if nEdges < 3*nCheck {
		return nil, fmt.Errorf("%w: nEdges (%v) must be at least 3*nCheck (%v)", linearblock.ErrParameterOutOfRange, nEdges, 3*nCheck)
	}

	avgRightDegree := float64(nEdges) / float64(nCheck)
	alpha, err := Alpha(avgRightDegree)
	if err != nil {
		return nil, err
	}

	maxDegree := int(avgRightDegree)
	for ; ; maxDegree++ {
		if maxDegree > maxFactorial+1 {
			return nil, fmt.Errorf("%w: right degree distribution does not vanish before degree %v", linearblock.ErrParameterOutOfRange, maxFactorial+1)
		}
		r := Rho(alpha, maxDegree)
		if Rho(alpha, maxDegree-1) < r {
			continue
		}
		if float64(nEdges)*r < negligible {
			break
		}
	}
	logrus.Debugf("Right degrees nCheck=%v nEdges=%v alpha=%v max degree %v", nCheck, nEdges, alpha, maxDegree)

	// degrees 3 and 4 always exist for the residual correction
	result := make([]int, maxInt(maxDegree+1, 5))
	totalEdges, totalNodes := 0, 0
	rem := 0.0
	for i := maxDegree; i >= 3; i-- {
		ideal := float64(nEdges) * Rho(alpha, i)
		count := int((ideal+rem)/float64(i) + 0.5)
		if count*i > nEdges-totalEdges {
			count = (nEdges - totalEdges) / i
		}
		if count > nCheck-totalNodes {
			count = nCheck - totalNodes
		}
		if count < 0 {
			count = 0
		}
		result[i] = count
		rem += ideal - float64(count*i)
		totalNodes += count
		totalEdges += count * i
		if totalNodes >= nCheck || totalEdges >= nEdges {
			break
		}
	}

	if totalNodes < nCheck || totalEdges < nEdges {
		remNodes := nCheck - totalNodes
		remEdges := nEdges - totalEdges
		// p3 + p4 = remNodes and 3*p3 + 4*p4 = remEdges. More than 4 edges per remaining node
		// can not be absorbed; fewer than 3 moves degree 4 nodes already allocated down to 3.
		p4 := remEdges - 3*remNodes
		p3 := remNodes - p4
		if p3 < 0 || result[4]+p4 < 0 {
			return nil, fmt.Errorf("%w: %v edges over %v nodes can not be absorbed by degrees 3 and 4", linearblock.ErrInconsistent, remEdges, remNodes)
		}
		result[3] += p3
		result[4] += p4
	}
	return result, nil
}

//Alpha returns a such that a*e^a/(e^a-1) == avgRight. The left side exceeds a by less than one
// for every a > 0, so the root is found by bisection on [avgRight-1, avgRight].
func Alpha(avgRight float64) (float64, error) {
	if avgRight <= 1 || avgRight > 30 {
		return 0, fmt.Errorf("%w: average right degree %v not in (1,30]", linearblock.ErrParameterOutOfRange, avgRight)
	}

	low := avgRight - 1
	high := avgRight
	mid := (low + high) / 2
	for mid > low && mid < high {
		e := math.Exp(mid)
		if mid*e/(e-1) < avgRight {
			low = mid
		} else {
			high = mid
		}
		mid = (low + high) / 2
	}
	return mid, nil
}

//Rho is the fraction of edges on check nodes of degree i: alpha^(i-1) / (e^alpha (i-1)!).
// It is 0 for i outside [1, 171].
func Rho(alpha float64, i int) float64 {
	if i < 1 || i-1 > maxFactorial {
		return 0
	}
	return math.Pow(alpha, float64(i-1)) / (math.Exp(alpha) * factorial(i-1))
}

func factorial(i int) float64 {
	f := 1.0
	for j := 2; j <= i; j++ {
		f *= float64(j)
	}
	return f
}

//Edges is the number of edges in a degree histogram
func Edges(hist []int) int {
	total := 0
	for i, c := range hist {
		total += i * c
	}
	return total
}

//Nodes is the number of nodes in a degree histogram
func Nodes(hist []int) int {
	total := 0
	for _, c := range hist {
		total += c
	}
	return total
}

//MaxDegree is the largest degree with a nonzero count, or 0
func MaxDegree(hist []int) int {
	for i := len(hist) - 1; i > 0; i-- {
		if hist[i] > 0 {
			return i
		}
	}
	return 0
}

//Expand turns a degree histogram into one degree per node in ascending degree order
func Expand(hist []int) []int {
	result := make([]int, 0, Nodes(hist))
	for i, c := range hist {
		for j := 0; j < c; j++ {
			result = append(result, i)
		}
	}
	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
