package world

import "github.com/samdwyer/sewerband/internal/grid"

// addOuterWall turns border floor into wall. Border water is left alone.
func addOuterWall(g *grid.Grid[terrain]) {
	g.Each(func(c grid.Coord, t terrain) {
		if t == terrainFloor && g.Size().OnBorder(c) {
			g.Set(c, terrainWall)
		}
	})
}

// isBoring reports a floor cell pinched between two walls on one axis.
func isBoring(g *grid.Grid[terrain], c grid.Coord) bool {
	wall := func(d grid.Coord) bool {
		t, ok := g.Get(c.Add(d))
		return ok && t == terrainWall
	}
	return (wall(grid.West) && wall(grid.East)) || (wall(grid.North) && wall(grid.South))
}

// removeBoringSpace walls in pinched floor cells until none remain. Each
// pass decides every cell against the map as it was at the start of the pass.
func removeBoringSpace(g *grid.Grid[terrain]) {
	for {
		var boring []grid.Coord
		g.Each(func(c grid.Coord, t terrain) {
			if t == terrainFloor && isBoring(g, c) {
				boring = append(boring, c)
			}
		})
		if len(boring) == 0 {
			return
		}
		for _, c := range boring {
			g.Set(c, terrainWall)
		}
	}
}

// finishBoundary applies the outer wall and clears boring space.
func finishBoundary(g *grid.Grid[terrain]) {
	addOuterWall(g)
	removeBoringSpace(g)
}
