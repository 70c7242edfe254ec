package grid

import "fmt"

// Grid is a dense, row-major 2D array of T.
type Grid[T any] struct {
	size  Size
	cells []T
}

// New creates a grid of the given size with every cell set to fill.
func New[T any](size Size, fill T) *Grid[T] {
	cells := make([]T, size.Area())
	for i := range cells {
		cells[i] = fill
	}
	return &Grid[T]{size: size, cells: cells}
}

// NewFunc creates a grid whose cells are produced by fn in row-major order.
func NewFunc[T any](size Size, fn func(Coord) T) *Grid[T] {
	g := &Grid[T]{size: size, cells: make([]T, size.Area())}
	for i := range g.cells {
		g.cells[i] = fn(g.coord(i))
	}
	return g
}

// Map builds a new grid by applying fn to every cell of g.
func Map[T, U any](g *Grid[T], fn func(Coord, T) U) *Grid[U] {
	out := &Grid[U]{size: g.size, cells: make([]U, len(g.cells))}
	for i, v := range g.cells {
		out.cells[i] = fn(g.coord(i), v)
	}
	return out
}

// Size returns the grid dimensions.
func (g *Grid[T]) Size() Size {
	return g.size
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int {
	return g.size.Width
}

// Height returns the number of rows.
func (g *Grid[T]) Height() int {
	return g.size.Height
}

// Contains reports whether c is inside the grid.
func (g *Grid[T]) Contains(c Coord) bool {
	return g.size.Contains(c)
}

// Get returns the value at c and whether c is in bounds.
func (g *Grid[T]) Get(c Coord) (T, bool) {
	if !g.size.Contains(c) {
		var zero T
		return zero, false
	}
	return g.cells[g.index(c)], true
}

// At returns the value at c. It panics if c is out of bounds.
func (g *Grid[T]) At(c Coord) T {
	g.mustContain(c)
	return g.cells[g.index(c)]
}

// Set stores v at c. It panics if c is out of bounds.
func (g *Grid[T]) Set(c Coord, v T) {
	g.mustContain(c)
	g.cells[g.index(c)] = v
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(Coord, T)) {
	for i, v := range g.cells {
		fn(g.coord(i), v)
	}
}

// Count returns the number of cells for which pred holds.
func (g *Grid[T]) Count(pred func(T) bool) int {
	n := 0
	for _, v := range g.cells {
		if pred(v) {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of g.
func (g *Grid[T]) Clone() *Grid[T] {
	cells := make([]T, len(g.cells))
	copy(cells, g.cells)
	return &Grid[T]{size: g.size, cells: cells}
}

// Row returns a copy of row y.
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.size.Height {
		panic(fmt.Sprintf("grid: row %d out of range [0,%d)", y, g.size.Height))
	}
	row := make([]T, g.size.Width)
	copy(row, g.cells[y*g.size.Width:(y+1)*g.size.Width])
	return row
}

func (g *Grid[T]) index(c Coord) int {
	return c.Y*g.size.Width + c.X
}

func (g *Grid[T]) coord(i int) Coord {
	return Coord{X: i % g.size.Width, Y: i / g.size.Width}
}

func (g *Grid[T]) mustContain(c Coord) {
	if !g.size.Contains(c) {
		panic(fmt.Sprintf("grid: %v out of bounds %dx%d", c, g.size.Width, g.size.Height))
	}
}
