package create

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/evand/freenet-scripts/cmd/internal/tools"
	"github.com/evand/freenet-scripts/linearblock"
	"github.com/evand/freenet-scripts/linearblock/dense"
	"github.com/sirupsen/logrus"
)

//Generator builds one candidate constraint graph
type Generator func() (*linearblock.ConstraintGraph, error)

//NewRand seeds a random source, a seed of 0 uses the current time
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logrus.Infof("Using seed %v", seed)
	return rand.New(rand.NewSource(seed))
}

//Search calls generate until it returns a graph. A construction failure is retried up to tries
// times and when requireDense is set a graph whose check columns are singular is retried too.
func Search(ctx context.Context, generate Generator, tries int, requireDense bool, threads int) (*linearblock.ConstraintGraph, error) {
	for attempt := 1; attempt <= tries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		g, err := generate()
		if errors.Is(err, linearblock.ErrConstructionFailed) {
			logrus.Debugf("Attempt %v: %v", attempt, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !requireDense {
			return g, nil
		}

		_, err = dense.New(ctx, g, threads)
		if errors.Is(err, linearblock.ErrSingularMatrix) {
			logrus.Debugf("Attempt %v: %v", attempt, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		logrus.Infof("Found a full rank code after %v attempts", attempt)
		return g, nil
	}
	return nil, fmt.Errorf("%w: no usable code in %v attempts", linearblock.ErrConstructionFailed, tries)
}

//Save writes g to filepath and reports its shape
func Save(filepath string, g *linearblock.ConstraintGraph) {
	err := tools.SaveConstraintGraph(filepath, g)
	if err != nil {
		fmt.Println(err)
		return
	}
	rows, cols := g.Dims()
	logrus.Infof("Saved a %vx%v constraint graph with %v edges to %v", rows, cols, g.Edges(), filepath)
}
