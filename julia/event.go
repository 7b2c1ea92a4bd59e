package julia

import (
	"fmt"
	"time"
)

// Event represents any progress report sent by Run
type Event interface {
	fmt.Stringer
}

// State represents a change in the state of the run
type State int

const (
	Executing State = iota
	Writing
	Quitting
)

func (state State) String() string {
	switch state {
	case Executing:
		return "Executing"
	case Writing:
		return "Writing"
	case Quitting:
		return "Quitting"
	default:
		return "Incorrect State"
	}
}

// StateChange is sent every time the run changes state
type StateChange struct {
	NewState State
}

func (event StateChange) String() string {
	return event.NewState.String()
}

// FieldComputed is sent once every worker has finished.
// Grid is complete and must not be modified by receivers.
type FieldComputed struct {
	Grid    *Grid
	Threads int
	Elapsed time.Duration
}

func (event FieldComputed) String() string {
	return fmt.Sprintf("Computed %dx%d with %d threads in %v",
		event.Grid.Width(), event.Grid.Height(), event.Threads, event.Elapsed)
}

// ImageOutputComplete is sent after each output file has been written
type ImageOutputComplete struct {
	Filename string
}

func (event ImageOutputComplete) String() string {
	return fmt.Sprintf("File %s output done", event.Filename)
}
