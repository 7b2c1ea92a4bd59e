package julia

import (
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/timex"
)

// Params provides the details of the field to compute and where to write it.
type Params struct {
	Threads     int
	ImageWidth  int
	ImageHeight int
	OutDir      string  // Directory output files are written to, out by default
	Filename    string  // Output file name without extension, julia by default
	Pgm         bool    // Also write a greyscale PGM preview
	Fractal     Fractal // Zero value selects DefaultFractal
}

func (p Params) fractal() Fractal {
	if p.Fractal == (Fractal{}) {
		return DefaultFractal
	}
	return p.Fractal
}

func (p Params) outDir() string {
	if p.OutDir == "" {
		return "out"
	}
	return p.OutDir
}

func (p Params) filename() string {
	if p.Filename == "" {
		return "julia"
	}
	return p.Filename
}

// Run computes the field described by p and writes it to disk, reporting progress on events.
// events is closed before Run returns.
func Run(p Params, events chan<- Event) error {
	defer close(events)

	ios := &ioState{
		params: p,
		cond:   sync.NewCond(new(sync.Mutex)),
	}
	ios.cond.L.Lock()
	go startIo(ios) // transfer ownership of lock to startIo
	defer ios.quit()

	// Compute
	events <- StateChange{Executing}
	start := timex.Now()
	grid, err := p.fractal().Compute(p.ImageWidth, p.ImageHeight, p.Threads)
	if err != nil {
		return err
	}
	elapsed := timex.Since(start)
	logx.Infow("field computed",
		logx.Field("width", p.ImageWidth),
		logx.Field("height", p.ImageHeight),
		logx.Field("threads", p.Threads),
		logx.Field("elapsed", elapsed.String()))
	events <- FieldComputed{Grid: grid, Threads: p.Threads, Elapsed: elapsed}

	// Write files
	events <- StateChange{Writing}
	commands := []ioCommand{ioOutputVti}
	if p.Pgm {
		commands = append(commands, ioOutputPgm)
	}
	for _, command := range commands {
		operation := &ioOperation{
			command:  command,
			filename: p.filename(),
			grid:     grid,
		}
		ios.sendIoRequest(operation)
		ios.waitIoRequest() // Wait for last pending request completing
		if operation.err != nil {
			return operation.err
		}
		events <- ImageOutputComplete{operation.path}
	}

	events <- StateChange{Quitting}
	return nil
}
