package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/gops/agent"
	"github.com/zeromicro/go-zero/core/logx"
	"uk.ac.bris.cs/juliaset/config"
	"uk.ac.bris.cs/juliaset/julia"
	"uk.ac.bris.cs/juliaset/report"
	"uk.ac.bris.cs/juliaset/sdl"
)

// Exit codes
const (
	exitOK = iota
	exitComputation
	exitUsage
	exitOutput
)

type flags struct {
	config   string
	threads  int
	width    int
	height   int
	outDir   string
	filename string
	pgm      bool
	noVis    bool
	gops     bool
	report   string
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags
	flag.StringVar(&f.config, "config", "", "Load settings from a JSON or YAML file.")
	flag.IntVar(&f.threads, "t", 0, "Specify the number of worker threads to use. Defaults to the number of CPUs.")
	flag.IntVar(&f.width, "w", 0, "Specify the width of the field. Defaults to 4000.")
	flag.IntVar(&f.height, "h", 0, "Specify the height of the field. Defaults to 4000.")
	flag.StringVar(&f.outDir, "out", "", "Directory output files are written to. Defaults to out.")
	flag.StringVar(&f.filename, "name", "", "Output file name without extension. Defaults to julia.")
	flag.BoolVar(&f.pgm, "pgm", false, "Also write a greyscale PGM image.")
	flag.BoolVar(&f.noVis, "noVis", false, "Disables the SDL window, so there is no visualisation.")
	flag.BoolVar(&f.gops, "gops", false, "Start a gops diagnostics agent.")
	flag.StringVar(&f.report, "report", "", "Publish a run summary to a file, kafka://brokers/topic or mongodb:// URI.")
	flag.Parse()

	c, err := config.Load(f.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Cannot load config:", err)
		return exitUsage
	}
	if err = applyFlags(&c, f, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	logx.MustSetup(c.Log)
	logx.DisableStat()
	defer logx.Close()

	if c.Gops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			logx.Errorf("Cannot start gops agent: %v", err)
		} else {
			defer agent.Close()
		}
	}

	fmt.Println("Running program with:", c.Threads, "threads")

	p := julia.Params{
		Threads:     c.Threads,
		ImageWidth:  c.Width,
		ImageHeight: c.Height,
		OutDir:      c.OutDir,
		Filename:    c.Filename,
		Pgm:         c.Pgm,
	}
	events := make(chan julia.Event)
	result := make(chan error, 1)
	go func() {
		result <- julia.Run(p, events)
	}()

	var summary *report.Summary
	var files []string
	record := func(event julia.Event) {
		switch e := event.(type) {
		case julia.FieldComputed:
			s := report.NewSummary(e.Grid, e.Threads, e.Elapsed, julia.DefaultFractal)
			summary = &s
			fmt.Printf("Simulation took %gs\n", e.Elapsed.Seconds())
		case julia.ImageOutputComplete:
			files = append(files, e.Filename)
		}
	}

	if c.NoVis {
		for event := range events {
			record(event)
			logx.Info(event.String())
		}
	} else {
		forwarded := make(chan julia.Event)
		go func() {
			defer close(forwarded)
			for event := range events {
				record(event)
				forwarded <- event
			}
		}()
		sdl.Run(forwarded, julia.DefaultFractal.MaxIterations)
	}

	if err = <-result; err != nil {
		logx.Error(err)
		if errors.Is(err, julia.ErrOutput) {
			return exitOutput
		}
		if errors.Is(err, julia.ErrInvalidThreads) || errors.Is(err, julia.ErrInvalidSize) {
			return exitUsage
		}
		return exitComputation
	}

	if summary != nil && len(c.Reports) != 0 {
		summary.Files = files
		publish(*summary, c.Reports)
	}
	return exitOK
}

// applyFlags overrides c with every flag set on the command line.
// A positional argument sets the thread count.
func applyFlags(c *config.Config, f flags, args []string) error {
	flag.Visit(func(set *flag.Flag) {
		switch set.Name {
		case "t":
			c.Threads = f.threads
		case "w":
			c.Width = f.width
		case "h":
			c.Height = f.height
		case "out":
			c.OutDir = f.outDir
		case "name":
			c.Filename = f.filename
		case "pgm":
			c.Pgm = f.pgm
		case "noVis":
			c.NoVis = f.noVis
		case "gops":
			c.Gops = f.gops
		case "report":
			c.Reports = append(c.Reports, f.report)
		}
	})
	if len(args) > 0 {
		threads, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid thread count %q", args[0])
		}
		c.Threads = threads
	}
	if c.Threads < 1 {
		return fmt.Errorf("thread count must be at least 1, got %d", c.Threads)
	}
	return nil
}

// Report failures are logged; the field has already been written
func publish(summary report.Summary, targets []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sinks, err := report.OpenAll(ctx, targets)
	if err != nil {
		logx.Errorf("Cannot open report sinks: %v", err)
		return
	}
	defer sinks.Close()
	if err = sinks.Publish(ctx, summary); err != nil {
		logx.Errorf("Cannot publish summary: %v", err)
	}
}
