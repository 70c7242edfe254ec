// Package grid provides dense 2D grids addressed by integer coordinates.
package grid

// Coord is an (x, y) position. X grows to the right, Y grows downward.
type Coord struct {
	X, Y int
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns the component-wise difference of two coordinates.
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y}
}

// Distance2 returns the squared euclidean distance to o.
func (c Coord) Distance2(o Coord) int {
	dx, dy := c.X-o.X, c.Y-o.Y
	return dx*dx + dy*dy
}

// Manhattan returns the taxicab distance to o.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Get returns the component of c on the given axis.
func (c Coord) Get(axis Axis) int {
	if axis == AxisX {
		return c.X
	}
	return c.Y
}

// NewAxis builds a coordinate whose component on axis is along and whose
// component on the other axis is across.
func NewAxis(along, across int, axis Axis) Coord {
	if axis == AxisX {
		return Coord{X: along, Y: across}
	}
	return Coord{X: across, Y: along}
}

// Axis selects one of the two grid dimensions.
type Axis int

const (
	// AxisX is the horizontal axis.
	AxisX Axis = iota
	// AxisY is the vertical axis.
	AxisY
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Unit offsets.
var (
	North = Coord{X: 0, Y: -1}
	East  = Coord{X: 1, Y: 0}
	South = Coord{X: 0, Y: 1}
	West  = Coord{X: -1, Y: 0}
)

// Cardinal lists the four orthogonal offsets in clockwise order from north.
var Cardinal = [4]Coord{North, East, South, West}

// Compass lists all eight neighbour offsets, orthogonal and diagonal.
var Compass = [8]Coord{
	North, {X: 1, Y: -1}, East, {X: 1, Y: 1},
	South, {X: -1, Y: 1}, West, {X: -1, Y: -1},
}

// Size is the width and height of a grid.
type Size struct {
	Width, Height int
}

// Get returns the extent of s along the given axis.
func (s Size) Get(axis Axis) int {
	if axis == AxisX {
		return s.Width
	}
	return s.Height
}

// Area returns the number of cells in a grid of this size.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Contains reports whether c lies inside a grid of this size.
func (s Size) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.Width && c.Y < s.Height
}

// OnBorder reports whether c is on the outermost ring of a grid of this size.
func (s Size) OnBorder(c Coord) bool {
	return s.Contains(c) && (c.X == 0 || c.Y == 0 || c.X == s.Width-1 || c.Y == s.Height-1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
