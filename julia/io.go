package julia

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrOutput is returned when an output file cannot be created or written
var ErrOutput = errors.New("cannot write output")

// ioState is the internal ioState of the io goroutine.
type ioState struct {
	params    Params
	operation *ioOperation
	cond      *sync.Cond
}

// ioCommand allows requesting behaviour from the io goroutine.
type ioCommand uint8

const (
	ioOutputVti ioCommand = iota
	ioOutputPgm
	ioQuit
)

type ioOperation struct {
	command   ioCommand
	filename  string
	grid      *Grid
	path      string // Set once the file has been written
	err       error
	completed bool
}

// WriteVTI writes grid as a VTK ImageData document with a single Float32 point array named julia
func WriteVTI(w io.Writer, grid *Grid) error {
	out := bufio.NewWriter(w)

	// ImageData is the vtk format for structured Cartesian meshes
	fmt.Fprintf(out, "<VTKFile type=\"ImageData\">\n")
	fmt.Fprintf(out, "<ImageData Origin=\"0 0 0\" Spacing=\"1 1 1\" WholeExtent=\"0 %d 0 %d 0 0\">\n",
		grid.width-1, grid.height-1)
	fmt.Fprintf(out, "<PointData>\n")
	fmt.Fprintf(out, "<DataArray Name=\"julia\" NumberOfComponents=\"1\" format=\"ascii\" type=\"Float32\">\n")

	// x varies fastest in vtk point order
	number := make([]byte, 0, 32)
	for j := 0; j != grid.height; j++ {
		for i := 0; i != grid.width; i++ {
			number = strconv.AppendFloat(number[:0], grid.rows[i][j], 'g', -1, 64)
			number = append(number, ' ')
			_, _ = out.Write(number)
		}
		_ = out.WriteByte('\n')
	}

	fmt.Fprintf(out, "</DataArray>\n")
	fmt.Fprintf(out, "</PointData>\n")
	fmt.Fprintf(out, "</ImageData>\n")
	fmt.Fprintf(out, "</VTKFile>\n")
	return out.Flush()
}

// WritePGM writes grid as a binary greyscale image, scaling [0, max] to [0, 255]
func WritePGM(w io.Writer, grid *Grid, max int) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "P5\n%d %d\n255\n", grid.width, grid.height)
	for j := 0; j != grid.height; j++ {
		for i := 0; i != grid.width; i++ {
			_ = out.WriteByte(grey(grid.rows[i][j], max))
		}
	}
	return out.Flush()
}

// Scale a value in [0, max] to a grey level
func grey(value float64, max int) byte {
	if max <= 0 || value <= 0 {
		return 0
	}
	if value >= float64(max) {
		return 255
	}
	return byte(value * 255 / float64(max))
}

// createOutput opens <OutDir>/<filename><ext> for writing, creating the directory if needed
func (ios *ioState) createOutput(ext string) (*os.File, error) {
	dir := ios.params.outDir()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	ios.operation.path = filepath.Join(dir, ios.operation.filename+ext)
	file, err := os.Create(ios.operation.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return file, nil
}

// writeImage writes the requested grid using encode and syncs it to disk.
func (ios *ioState) writeImage(ext string, encode func(io.Writer, *Grid) error) error {
	file, err := ios.createOutput(ext)
	if err != nil {
		return err
	}
	defer file.Close()

	if err = encode(file, ios.operation.grid); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutput, ios.operation.path, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutput, ios.operation.path, err)
	}

	logx.Infof("File %s output done!", ios.operation.path)
	return nil
}

// startIo should be the entrypoint of the io goroutine.
func startIo(ios *ioState) {

	for {
		ios.cond.Wait()
		switch ios.operation.command {
		case ioOutputVti:
			ios.operation.err = ios.writeImage(".vti", WriteVTI)
		case ioOutputPgm:
			maxIterations := ios.params.fractal().MaxIterations
			ios.operation.err = ios.writeImage(".pgm", func(w io.Writer, grid *Grid) error {
				return WritePGM(w, grid, maxIterations)
			})
		case ioQuit:
			ios.cond.L.Unlock()
			return
		}
		ios.operation.completed = true
		ios.cond.Signal()
	}
}

// Initiate an IO request
func (ios *ioState) sendIoRequest(operation *ioOperation) {
	ios.cond.L.Lock()
	ios.operation = operation
	ios.cond.Signal()
	ios.cond.L.Unlock()
}

// Wait until last IO operation completed
func (ios *ioState) waitIoRequest() {

	ios.cond.L.Lock()
	for !ios.operation.completed {
		ios.cond.Wait()
	}
	ios.cond.L.Unlock()
}

// Send a signal to IO thread to quit
func (ios *ioState) quit() {
	ios.cond.L.Lock()
	ios.operation = &ioOperation{command: ioQuit}
	ios.cond.Signal()
	ios.cond.L.Unlock()
}
