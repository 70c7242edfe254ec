package world

import (
	"github.com/samdwyer/sewerband/internal/grid"
)

// poolSet tracks which open cells are still candidate water, by pool id.
// grid.Unlabelled marks cells outside every pool.
type poolSet struct {
	ids   *grid.Grid[int]
	count int
}

// findPools labels each 4-connected region of open cells as one pool.
func findPools(open *grid.Grid[bool]) *poolSet {
	ids, regions := grid.Label(open, func(o bool) bool { return o })
	return &poolSet{ids: ids, count: len(regions)}
}

func (p *poolSet) in(c grid.Coord) bool {
	id, ok := p.ids.Get(c)
	return ok && id != grid.Unlabelled
}

// shrink erodes pool id one ring at a time. A cell goes when any in-bounds
// neighbour, diagonals included, is outside every pool.
func (p *poolSet) shrink(id, steps int) {
	for step := 0; step < steps; step++ {
		var remove []grid.Coord
		p.ids.Each(func(c grid.Coord, v int) {
			if v != id {
				return
			}
			for _, d := range grid.Compass {
				n := c.Add(d)
				if p.ids.Contains(n) && !p.in(n) {
					remove = append(remove, c)
					return
				}
			}
		})
		for _, c := range remove {
			p.ids.Set(c, grid.Unlabelled)
		}
	}
}

// shrinkAll erodes each pool by its own random step count.
func (p *poolSet) shrinkAll(rng Rand, lo, hi int) {
	for id := 0; id < p.count; id++ {
		p.shrink(id, lo+rng.Intn(hi-lo+1))
	}
}

// removeSharpEdges drops pool cells with no pool on both sides of one axis.
// Out-of-bounds counts as no pool.
func (p *poolSet) removeSharpEdges() {
	var remove []grid.Coord
	p.ids.Each(func(c grid.Coord, v int) {
		if v == grid.Unlabelled {
			return
		}
		if (!p.in(c.Add(grid.West)) && !p.in(c.Add(grid.East))) ||
			(!p.in(c.Add(grid.North)) && !p.in(c.Add(grid.South))) {
			remove = append(remove, c)
		}
	})
	for _, c := range remove {
		p.ids.Set(c, grid.Unlabelled)
	}
}

// removeSmallPools relabels the remaining water and drops any 4-connected
// body smaller than minSize.
func (p *poolSet) removeSmallPools(minSize int) {
	_, regions := grid.Label(p.ids, func(id int) bool { return id != grid.Unlabelled })
	for _, region := range regions {
		if len(region) >= minSize {
			continue
		}
		for _, c := range region {
			p.ids.Set(c, grid.Unlabelled)
		}
	}
}

// carvePools turns an open/closed bitmap into floor, wall and pool.
// Open cells become floor, closed cells wall, and surviving pool cells water.
func carvePools(open *grid.Grid[bool], rng Rand, params Params) *grid.Grid[terrain] {
	pools := findPools(open)
	pools.shrinkAll(rng, params.ShrinkMin, params.ShrinkMax)
	for i := 0; i < params.SharpEdgePasses; i++ {
		pools.removeSharpEdges()
	}
	pools.removeSmallPools(params.MinPoolSize)

	return grid.NewFunc(open.Size(), func(c grid.Coord) terrain {
		switch {
		case pools.in(c):
			return terrainPool
		case open.At(c):
			return terrainFloor
		default:
			return terrainWall
		}
	})
}
