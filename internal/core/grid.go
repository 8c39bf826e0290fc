package core

import (
	"errors"
	"fmt"
)

// CellState is the value held by a single cell.
type CellState uint8

const (
	// Dead is the zero state; freshly allocated grids are all Dead.
	Dead CellState = 0
	// Alive marks a live cell.
	Alive CellState = 1
)

// String returns "dead" or "alive".
func (s CellState) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

// ErrOutOfRange is returned by accessors given coordinates outside the grid.
var ErrOutOfRange = errors.New("coordinates out of range")

// ErrBadSize is returned when a grid is requested with a non-positive dimension.
var ErrBadSize = errors.New("grid dimensions must be positive")

// Grid stores a fixed-size 2D array of cell states in row-major order.
type Grid struct {
	W, H int
	data []CellState
}

// NewGrid allocates a grid with the given dimensions, every cell Dead.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, w, h)
	}
	return &Grid{W: w, H: h, data: make([]CellState, w*h)}, nil
}

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []CellState { return g.data }

// Row returns the slice view of row y.
func (g *Grid) Row(y int) []CellState { return g.data[y*g.W : (y+1)*g.W] }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool { return x >= 0 && x < g.W && y >= 0 && y < g.H }

// At reads (x, y) without a bounds check beyond the slice's own.
func (g *Grid) At(x, y int) CellState { return g.data[y*g.W+x] }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Get returns the state at (x, y).
func (g *Grid) Get(x, y int) (CellState, error) {
	if !g.In(x, y) {
		return Dead, fmt.Errorf("get (%d,%d) on %dx%d grid: %w", x, y, g.W, g.H, ErrOutOfRange)
	}
	return g.data[y*g.W+x], nil
}

// Set writes the state at (x, y).
func (g *Grid) Set(x, y int, s CellState) error {
	if !g.In(x, y) {
		return fmt.Errorf("set (%d,%d) on %dx%d grid: %w", x, y, g.W, g.H, ErrOutOfRange)
	}
	g.data[y*g.W+x] = s
	return nil
}

// Fill sets every cell to s.
func (g *Grid) Fill(s CellState) {
	for i := range g.data {
		g.data[i] = s
	}
}

// Alive counts live cells.
func (g *Grid) Alive() int {
	n := 0
	for _, c := range g.data {
		if c == Alive {
			n++
		}
	}
	return n
}

// CopyFrom overwrites g with the contents of src. Both grids must have the
// same dimensions.
func (g *Grid) CopyFrom(src *Grid) error {
	if src.W != g.W || src.H != g.H {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", src.W, src.H, g.W, g.H, ErrBadSize)
	}
	copy(g.data, src.data)
	return nil
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, data: make([]CellState, len(g.data))}
	copy(c.data, g.data)
	return c
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i, c := range g.data {
		if o.data[i] != c {
			return false
		}
	}
	return true
}
