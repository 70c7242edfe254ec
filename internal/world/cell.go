// Package world generates sewer levels: pools of water divided by walls into
// rooms, joined by bridges and doors, with a start and a goal.
package world

// Cell is a single square of a finished sewer map.
type Cell uint8

const (
	// CellFloor is walkable ground.
	CellFloor Cell = iota
	// CellWall is impassable.
	CellWall
	// CellPool is water. It does not block connectivity.
	CellPool
	// CellBridge crosses a pool between two banks.
	CellBridge
	// CellDoor passes through a wall between two rooms.
	CellDoor
)

// IsPassable returns true unless the cell is a wall.
func (c Cell) IsPassable() bool {
	return c != CellWall
}

// Rune returns the cell's display character.
func (c Cell) Rune() rune {
	switch c {
	case CellFloor:
		return '.'
	case CellWall:
		return '#'
	case CellPool:
		return '~'
	case CellBridge:
		return '='
	case CellDoor:
		return '+'
	default:
		return '?'
	}
}

// String returns the cell's name.
func (c Cell) String() string {
	switch c {
	case CellFloor:
		return "floor"
	case CellWall:
		return "wall"
	case CellPool:
		return "pool"
	case CellBridge:
		return "bridge"
	case CellDoor:
		return "door"
	default:
		return "unknown"
	}
}

// terrain is the cell type between carving and classification.
type terrain uint8

const (
	terrainWall terrain = iota
	terrainFloor
	terrainPool
)

func (t terrain) cell() Cell {
	switch t {
	case terrainFloor:
		return CellFloor
	case terrainPool:
		return CellPool
	default:
		return CellWall
	}
}
