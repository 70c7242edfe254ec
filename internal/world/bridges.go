package world

import (
	"cmp"
	"slices"

	"github.com/samdwyer/sewerband/internal/grid"
)

// bodyPair is an unordered pair of water-body ids, stored low first.
type bodyPair struct {
	a, b int
}

func newBodyPair(x, y int) bodyPair {
	if x > y {
		x, y = y, x
	}
	return bodyPair{a: x, b: y}
}

func compareBodyPairs(x, y bodyPair) int {
	if c := cmp.Compare(x.a, y.a); c != 0 {
		return c
	}
	return cmp.Compare(x.b, y.b)
}

// bridgeCandidate is a straight run of water between floor of two bodies.
type bridgeCandidate struct {
	axis   grid.Axis
	pair   bodyPair
	coords []grid.Coord
}

// bridgeCandidates holds the candidates grouped by the bodies they join.
type bridgeCandidates struct {
	groups map[bodyPair][]bridgeCandidate
}

// scanBridges walks every line along axis and records each pool run that
// starts and ends on floor of different bodies. Walls break the run.
func scanBridges(cells *grid.Grid[classifiedCell], axis grid.Axis) []bridgeCandidate {
	size := cells.Size()
	var out []bridgeCandidate
	for across := 0; across < size.Get(axis.Other()); across++ {
		start := grid.Unlabelled
		var run []grid.Coord
		for along := 0; along < size.Get(axis); along++ {
			c := grid.NewAxis(along, across, axis)
			cell := cells.At(c)
			switch cell.terrain {
			case terrainFloor:
				if start != grid.Unlabelled && len(run) > 0 && start != cell.body {
					out = append(out, bridgeCandidate{
						axis:   axis,
						pair:   newBodyPair(start, cell.body),
						coords: run,
					})
				}
				run = nil
				start = cell.body
			case terrainWall:
				start = grid.Unlabelled
				run = nil
			case terrainPool:
				run = append(run, c)
			}
		}
	}
	return out
}

// findBridges groups candidates from both axes by body pair and, within
// each group, discards the longer half.
func findBridges(cells *grid.Grid[classifiedCell]) *bridgeCandidates {
	groups := make(map[bodyPair][]bridgeCandidate)
	for _, axis := range []grid.Axis{grid.AxisX, grid.AxisY} {
		for _, bc := range scanBridges(cells, axis) {
			groups[bc.pair] = append(groups[bc.pair], bc)
		}
	}
	for pair, group := range groups {
		slices.SortStableFunc(group, func(x, y bridgeCandidate) int {
			return cmp.Compare(len(x.coords), len(y.coords))
		})
		groups[pair] = group[:len(group)-len(group)/2]
	}
	return &bridgeCandidates{groups: groups}
}

// pairs returns the body pairs in ascending order.
func (b *bridgeCandidates) pairs() []bodyPair {
	pairs := make([]bodyPair, 0, len(b.groups))
	for p := range b.groups {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, compareBodyPairs)
	return pairs
}

// choose picks one surviving candidate per body pair, visiting pairs in
// ascending order.
func (b *bridgeCandidates) choose(rng Rand) []bridgeCandidate {
	var out []bridgeCandidate
	for _, p := range b.pairs() {
		group := b.groups[p]
		out = append(out, group[rng.Intn(len(group))])
	}
	return out
}
