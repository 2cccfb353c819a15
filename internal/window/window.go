// Package window rebuilds a 3x3 neighbourhood from a raster-scanned sample
// stream using two line buffers.
package window

import (
	"fmt"

	"pixelstream/internal/stream"
)

// Size is the neighbourhood edge length.
const Size = 3

// Grid is a Size x Size neighbourhood indexed [row][col]. Row 2 is the
// current image row and column 2 the current column.
type Grid [Size][Size]stream.Sample

// Assembler owns the line history and sliding window of one frame. It is
// not safe for concurrent use.
type Assembler struct {
	// lines[0] holds row r-2, lines[1] row r-1 (at columns not yet
	// overwritten by the current row).
	lines [2][]stream.Sample
	grid  Grid
}

// New allocates an assembler for rows of the given width.
func New(width int) (*Assembler, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid line width: %d", width)
	}
	return &Assembler{
		lines: [2][]stream.Sample{
			make([]stream.Sample, width),
			make([]stream.Sample, width),
		},
	}, nil
}

// Push feeds the sample at column col of the current row and advances the
// window by one column.
func (a *Assembler) Push(col int, s stream.Sample) {
	for i := 0; i < Size; i++ {
		a.grid[i][0] = a.grid[i][1]
		a.grid[i][1] = a.grid[i][2]
	}

	above := a.lines[1][col]
	a.grid[0][2] = a.lines[0][col]
	a.grid[1][2] = above
	a.grid[2][2] = s

	a.lines[0][col] = above
	a.lines[1][col] = s
}

// Window returns a copy of the current neighbourhood.
func (a *Assembler) Window() Grid {
	return a.grid
}

// Reset clears the line history and window.
func (a *Assembler) Reset() {
	clear(a.lines[0])
	clear(a.lines[1])
	a.grid = Grid{}
}

// Complete reports whether every cell of the window at (row, col) holds a
// real image sample.
func Complete(row, col int) bool {
	return row >= Size-1 && col >= Size-1
}
