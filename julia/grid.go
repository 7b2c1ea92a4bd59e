package julia

// Grid is a width x height scalar field stored in a single row-major buffer.
// Row i holds the values of pixels (i, 0) .. (i, height-1).
type Grid struct {
	width  int
	height int
	cells  []float64
	rows   [][]float64 // Row views into cells
}

// RowRange is the half-open interval [Start, End) over the rows of a grid
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range
func (rows RowRange) Len() int {
	return rows.End - rows.Start
}

// RowBlock is a writable view of a grid restricted to one row range.
// Writing outside the range panics, so blocks handed to different workers never overlap.
type RowBlock struct {
	rows  RowRange
	cells [][]float64
}

// Make grid object with empty data
func MakeGrid(width, height int) *Grid {
	grid := &Grid{
		width:  width,
		height: height,
		cells:  make([]float64, width*height),
		rows:   make([][]float64, width),
	}
	cells := grid.cells
	for i := 0; i != width; i++ {
		grid.rows[i] = cells[0:height:height]
		cells = cells[height:]
	}
	return grid
}

func (grid *Grid) Width() int {
	return grid.width
}

func (grid *Grid) Height() int {
	return grid.height
}

// At returns the value of pixel (i, j)
func (grid *Grid) At(i, j int) float64 {
	return grid.rows[i][j]
}

// Cells exposes the underlying row-major buffer. Callers must not modify it.
func (grid *Grid) Cells() []float64 {
	return grid.cells
}

// Block returns the writable view over rows
func (grid *Grid) Block(rows RowRange) RowBlock {
	return RowBlock{
		rows:  rows,
		cells: grid.rows[rows.Start:rows.End:rows.End],
	}
}

// Rows returns the row range the block may write to
func (block RowBlock) Rows() RowRange {
	return block.rows
}

// Set stores value at pixel (i, j), where i is an absolute row index
func (block RowBlock) Set(i, j int, value float64) {
	block.cells[i-block.rows.Start][j] = value
}
