package internal

import (
	"context"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

//ReduceGF2 returns the reduced row echelon form of H over GF(2) using only the first pivotCols
// columns as pivot candidates. Rows are swapped but columns never are. The returned pivots hold
// the pivot column of each leading row; len(pivots) is the rank of H restricted to the pivot
// columns. H is left untouched.
func ReduceGF2(ctx context.Context, H mat.SparseMat, pivotCols int, threads int) (mat.SparseMat, []int, error) {
	rows, cols := H.Dims()
	if pivotCols > cols {
		pivotCols = cols
	}
	result := mat.CSRMatCopy(H)
	showProgressBar := logrus.GetLevel() == logrus.DebugLevel

	//to fail fast we first do the lower triangle then do the upper
	pivots, err := lowerTriangular(ctx, rows, pivotCols, result, threads, showProgressBar)
	if err != nil {
		return nil, nil, err
	}

	if err := upperTriangular(ctx, pivots, result, threads, showProgressBar); err != nil {
		return nil, nil, err
	}

	logrus.Debugf("Gaussian-Jordan Elimination complete, rank %v", len(pivots))
	return result, pivots, nil
}

//CalculateRank returns the GF(2) rank of H
func CalculateRank(ctx context.Context, H mat.SparseMat, threads int) (int, error) {
	if H == nil {
		return -1, nil
	}
	rows, cols := H.Dims()
	pivots, err := lowerTriangular(ctx, rows, cols, mat.CSRMatCopy(H), threads, false)
	if err != nil {
		return -1, err
	}
	return len(pivots), nil
}

func newBar(count int, showProgressBar bool) *pb.ProgressBar {
	bar := pb.Full.New(count)
	bar.Set("prefix", "Processing Row ")
	bar.SetWriter(os.Stdout)
	if showProgressBar {
		bar.Start()
	}
	return bar
}

func finishBar(bar *pb.ProgressBar, showProgressBar bool) {
	if !showProgressBar {
		return
	}
	bar.SetTemplateString(`{{string . "prefix"}}{{counters . }}{{string . "suffix"}}`)
	bar.Set("suffix", " Done")
	bar.Finish()
}

func lowerTriangular(ctx context.Context, rows, pivotCols int, H mat.SparseMat, threads int, showProgressBar bool) ([]int, error) {
	logrus.Debugf("Row echelon")
	bar := newBar(pivotCols, showProgressBar)

	pivots := make([]int, 0, rows)
	r := 0
	for c := 0; c < pivotCols && r < rows; c++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		bar.Increment()

		pivot := findPivotRow(H, r, c)
		if pivot == -1 {
			//no row at or below r has this column so it can't be a pivot
			continue
		}
		if pivot != r {
			H.SwapRows(r, pivot)
		}

		// now the rth row has a pivot in the cth column
		// so we now subtract it from all lower rows with a 1
		// in the cth column
		eliminateRows(ctx, r, c, H, threads, func(p int) bool { return p > r })
		pivots = append(pivots, c)
		r++
	}

	finishBar(bar, showProgressBar)
	return pivots, nil
}

func upperTriangular(ctx context.Context, pivots []int, H mat.SparseMat, threads int, showProgressBar bool) error {
	logrus.Debugf("Reduced row echelon")
	bar := newBar(len(pivots), showProgressBar)

	for r := len(pivots) - 1; r >= 0; r-- {
		bar.Increment()
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		row := r
		eliminateRows(ctx, row, pivots[row], H, threads, func(p int) bool { return p < row })
	}

	finishBar(bar, showProgressBar)
	return nil
}

func findPivotRow(H mat.SparseMat, forRow, col int) int {
	for _, r := range H.Column(col).NonzeroArray() {
		if r >= forRow {
			return r
		}
	}
	return -1
}

//eliminateRows adds row rowIndex to every selected row with a 1 in column col
func eliminateRows(ctx context.Context, rowIndex, col int, result mat.SparseMat, threads int, selected func(p int) bool) {
	pivots := result.Column(col).NonzeroArray()
	pool := threadpool.New(ctx, threads)
	rrow := result.Row(rowIndex)
	mut := sync.RWMutex{}

	//in GF2 subtract is add
	for _, index := range pivots {
		pIndex := index
		if pIndex == rowIndex || !selected(pIndex) {
			continue
		}
		pool.Add(func() {
			mut.RLock()
			prow := result.Row(pIndex)
			mut.RUnlock()
			prow.Add(prow, rrow)
			mut.Lock()
			result.SetRow(pIndex, prow)
			mut.Unlock()
		})
	}
	pool.Wait()
}
