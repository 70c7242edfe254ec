package world

import (
	"cmp"
	"slices"

	"github.com/samdwyer/sewerband/internal/grid"
)

// paint lays the chosen bridges and doors onto the classified map.
func paint(cells *grid.Grid[classifiedCell], bridges []bridgeCandidate, doors []doorCandidate, chosen []int, rng Rand) *grid.Grid[Cell] {
	out := grid.Map(cells, func(_ grid.Coord, c classifiedCell) Cell {
		return c.terrain.cell()
	})
	for _, b := range bridges {
		for _, c := range b.coords {
			out.Set(c, CellBridge)
		}
	}
	for _, i := range chosen {
		out.Set(doors[i].doorCoord(rng), CellDoor)
	}
	return out
}

// keepLargestArea walls off every passable region except the largest.
// Ties go to the region found last in row-major order.
func keepLargestArea(m *grid.Grid[Cell]) {
	ids, regions := grid.Label(m, Cell.IsPassable)
	if len(regions) < 2 {
		return
	}
	keep := 0
	for i, r := range regions {
		if len(r) >= len(regions[keep]) {
			keep = i
		}
	}
	ids.Each(func(c grid.Coord, id int) {
		if id != grid.Unlabelled && id != keep {
			m.Set(c, CellWall)
		}
	})
}

// isSafeSpawn reports a floor cell whose four orthogonal neighbours are
// floor too.
func isSafeSpawn(m *grid.Grid[Cell], c grid.Coord) bool {
	if m.At(c) != CellFloor {
		return false
	}
	for _, d := range grid.Cardinal {
		if v, ok := m.Get(c.Add(d)); !ok || v != CellFloor {
			return false
		}
	}
	return true
}

func spawnCandidates(m *grid.Grid[Cell]) []grid.Coord {
	var out []grid.Coord
	m.Each(func(c grid.Coord, _ Cell) {
		if isSafeSpawn(m, c) {
			out = append(out, c)
		}
	})
	return out
}

// goalOffset is the first index of the farthest bucket of n sorted candidates.
func goalOffset(n, buckets int) int {
	return (buckets - 1) * (n / buckets)
}

// placeSpawns takes a random safe cell as start and draws the goal from the
// candidates farthest from it.
func placeSpawns(m *grid.Grid[Cell], rng Rand, buckets int) (start, goal grid.Coord, err error) {
	candidates := spawnCandidates(m)
	if len(candidates) < 2 {
		return start, goal, ErrNoSpawn
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	start = candidates[len(candidates)-1]
	rest := candidates[:len(candidates)-1]
	slices.SortStableFunc(rest, func(a, b grid.Coord) int {
		return cmp.Compare(a.Distance2(start), b.Distance2(start))
	})
	offset := goalOffset(len(rest), buckets)
	goal = rest[offset+rng.Intn(len(rest)-offset)]
	return start, goal, nil
}

// placeLights lights pool cells in row-major order. Every pool cell draws
// once and is lit when a 1-in-chance draw hits, or when it borders floor or the
// map edge.
func placeLights(m *grid.Grid[Cell], rng Rand, chance int) []Light {
	var lights []Light
	m.Each(func(c grid.Coord, v Cell) {
		if v != CellPool {
			return
		}
		lit := rng.Intn(chance) == 0
		for _, d := range grid.Cardinal {
			if n, ok := m.Get(c.Add(d)); !ok || n == CellFloor {
				lit = true
			}
		}
		if lit {
			lights = append(lights, Light{Coord: c, Kind: LightPool})
		}
	})
	return lights
}
