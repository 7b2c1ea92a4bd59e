// Package report publishes a summary of each run to files, Kafka topics or MongoDB collections.
package report

import (
	"time"

	"uk.ac.bris.cs/juliaset/julia"
)

// Summary describes one computed field
type Summary struct {
	Width          int        `json:"width" bson:"width"`
	Height         int        `json:"height" bson:"height"`
	Threads        int        `json:"threads" bson:"threads"`
	ElapsedSeconds float64    `json:"elapsed_seconds" bson:"elapsed_seconds"`
	Coefficient    [2]float64 `json:"coefficient" bson:"coefficient"` // Real and imaginary parts
	MaxIterations  int        `json:"max_iterations" bson:"max_iterations"`
	Threshold      float64    `json:"threshold" bson:"threshold"`
	Min            float64    `json:"min" bson:"min"`
	Max            float64    `json:"max" bson:"max"`
	Mean           float64    `json:"mean" bson:"mean"`
	Bounded        int        `json:"bounded" bson:"bounded"` // Cells that never diverged
	Files          []string   `json:"files,omitempty" bson:"files,omitempty"`
	Finished       time.Time  `json:"finished" bson:"finished"`
}

// NewSummary collects statistics over grid
func NewSummary(grid *julia.Grid, threads int, elapsed time.Duration, f julia.Fractal) Summary {
	s := Summary{
		Width:          grid.Width(),
		Height:         grid.Height(),
		Threads:        threads,
		ElapsedSeconds: elapsed.Seconds(),
		Coefficient:    [2]float64{real(f.C), imag(f.C)},
		MaxIterations:  f.MaxIterations,
		Threshold:      f.Threshold,
		Finished:       time.Now().UTC(),
	}
	cells := grid.Cells()
	if len(cells) == 0 {
		return s
	}
	s.Min, s.Max = cells[0], cells[0]
	total := 0.0
	for _, value := range cells {
		if value < s.Min {
			s.Min = value
		}
		if value > s.Max {
			s.Max = value
		}
		if value >= float64(f.MaxIterations) {
			s.Bounded++
		}
		total += value
	}
	s.Mean = total / float64(len(cells))
	return s
}
