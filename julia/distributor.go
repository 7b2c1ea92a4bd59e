package julia

import (
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidThreads = errors.New("thread count must be at least 1")
	ErrInvalidSize    = errors.New("image width and height must be at least 1")
	ErrWorkerFailed   = errors.New("worker failed")
)

// evaluator produces the value of pixel (i, j)
type evaluator func(i, j int) float64

type WorkerParams struct {
	thread   int      // Index of this worker
	rows     RowRange // Rows allocated to this worker
	height   int      // Number of columns in each row
	block    RowBlock // Write to this block
	evaluate evaluator
}

// Compute evaluates DefaultFractal over a width x height grid using threads workers
func Compute(width, height, threads int) (*Grid, error) {
	return DefaultFractal.Compute(width, height, threads)
}

// Compute evaluates the fractal over every pixel of a width x height grid.
// Rows are split between threads goroutines and the grid is returned once all of them have finished.
func (f Fractal) Compute(width, height, threads int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	blocks, err := DivideToRows(width, threads)
	if err != nil {
		return nil, err
	}
	grid := MakeGrid(width, height)
	value := func(i, j int) float64 {
		return float64(f.Value(i, j, width, height))
	}
	err = distributor(grid, blocks, func(int) evaluator { return value })
	if err != nil {
		return nil, err
	}
	return grid, nil
}

// distributor starts one worker per row range and waits for all of them.
// newEvaluator is called once per worker with the worker index.
func distributor(grid *Grid, blocks []RowRange, newEvaluator func(thread int) evaluator) error {
	var group errgroup.Group
	for thread_index, rows := range blocks {
		wp := WorkerParams{
			thread:   thread_index,
			rows:     rows,
			height:   grid.height,
			block:    grid.Block(rows),
			evaluate: newEvaluator(thread_index),
		}
		group.Go(func() error {
			return worker(wp)
		})
	}
	logx.Debugf("Dispatched %d workers over %dx%d", len(blocks), grid.width, grid.height)
	return group.Wait()
}

func worker(wp WorkerParams) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: thread %d rows [%d, %d): %v",
				ErrWorkerFailed, wp.thread, wp.rows.Start, wp.rows.End, r)
		}
	}()
	for i := wp.rows.Start; i != wp.rows.End; i++ {
		for j := 0; j != wp.height; j++ {
			wp.block.Set(i, j, wp.evaluate(i, j))
		}
	}
	return nil
}

// DivideToRows splits rows [0, width) into threads contiguous ranges of width/threads rows.
// The last range absorbs the remainder; when threads > width all but the last range are empty.
func DivideToRows(width, threads int) ([]RowRange, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreads, threads)
	}
	chunk := width / threads
	blocks := make([]RowRange, threads)
	for t := 0; t != threads; t++ {
		blocks[t] = RowRange{Start: t * chunk, End: (t + 1) * chunk}
	}
	blocks[threads-1].End = width
	return blocks, nil
}
