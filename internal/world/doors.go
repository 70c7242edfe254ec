package world

import (
	"github.com/samdwyer/sewerband/internal/grid"
)

// doorCandidate is a contiguous run of wall cells along axis, each with
// floor of room low on one side and floor of room high on the other.
type doorCandidate struct {
	axis      grid.Axis
	low, high int
	coords    []grid.Coord
}

// scanDoors walks the interior lines along axis. A wall cell qualifies when
// the cells either side of it across the axis are floor of different rooms;
// the run ends at any cell that does not qualify or whose room pair differs.
func scanDoors(cells *grid.Grid[classifiedCell], axis grid.Axis) []doorCandidate {
	size := cells.Size()
	step := grid.NewAxis(0, 1, axis)
	var out []doorCandidate
	for across := 1; across < size.Get(axis.Other())-1; across++ {
		cur := -1
		for along := 1; along < size.Get(axis)-1; along++ {
			c := grid.NewAxis(along, across, axis)
			if cells.At(c).terrain != terrainWall {
				cur = -1
				continue
			}
			lo, hi := cells.At(c.Sub(step)), cells.At(c.Add(step))
			if !lo.isFloor() || !hi.isFloor() || lo.room == hi.room {
				cur = -1
				continue
			}
			if cur < 0 || out[cur].low != lo.room || out[cur].high != hi.room {
				out = append(out, doorCandidate{axis: axis, low: lo.room, high: hi.room})
				cur = len(out) - 1
			}
			out[cur].coords = append(out[cur].coords, c)
		}
	}
	return out
}

// findDoors returns the door candidates of both axes, X first.
func findDoors(cells *grid.Grid[classifiedCell]) []doorCandidate {
	return append(scanDoors(cells, grid.AxisX), scanDoors(cells, grid.AxisY)...)
}

// doorCoord picks a wall cell from the middle of the run, away from corners.
func (d *doorCandidate) doorCoord(rng Rand) grid.Coord {
	n := len(d.coords)
	lo := n / 4
	hi := max(n-1-lo, lo+1)
	return d.coords[lo+rng.Intn(hi-lo)]
}
