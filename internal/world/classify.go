package world

import "github.com/samdwyer/sewerband/internal/grid"

// classifiedCell carries the two region ids of a cell. Rooms are separated
// by walls and water bodies are separated by pools, so floor has both ids,
// water only a room, and wall neither.
type classifiedCell struct {
	terrain terrain
	room    int
	body    int
}

func (c classifiedCell) isFloor() bool { return c.terrain == terrainFloor }

// classify labels rooms (non-wall regions) and bodies (non-pool regions).
// Walls count towards bodies, so two floor cells are in different bodies
// only when water cuts them apart completely.
func classify(g *grid.Grid[terrain]) *grid.Grid[classifiedCell] {
	rooms, _ := grid.Label(g, func(t terrain) bool { return t != terrainWall })
	bodies, _ := grid.Label(g, func(t terrain) bool { return t != terrainPool })

	return grid.Map(g, func(c grid.Coord, t terrain) classifiedCell {
		out := classifiedCell{terrain: t, room: grid.Unlabelled, body: grid.Unlabelled}
		switch t {
		case terrainFloor:
			out.room, out.body = rooms.At(c), bodies.At(c)
		case terrainPool:
			out.room = rooms.At(c)
		}
		return out
	})
}
