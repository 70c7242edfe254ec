package grid

import "github.com/zyedidia/generic/queue"

// Unlabelled marks cells that belong to no region.
const Unlabelled = -1

// Label partitions the cells satisfying pass into 4-connected regions.
//
// Regions are numbered densely from 0 in the order their first cell is met
// in a row-major scan. The returned grid holds each cell's region id, or
// Unlabelled where pass is false. regions[id] lists the cells of region id
// in breadth-first order from its first cell.
func Label[T any](g *Grid[T], pass func(T) bool) (*Grid[int], [][]Coord) {
	labels := New(g.size, Unlabelled)
	var regions [][]Coord
	frontier := queue.New[Coord]()

	for i, v := range g.cells {
		if !pass(v) || labels.cells[i] != Unlabelled {
			continue
		}
		id := len(regions)
		seed := g.coord(i)
		labels.cells[i] = id
		frontier.Enqueue(seed)

		var region []Coord
		for !frontier.Empty() {
			c := frontier.Dequeue()
			region = append(region, c)
			for _, d := range Cardinal {
				n := c.Add(d)
				if !g.size.Contains(n) {
					continue
				}
				ni := g.index(n)
				if labels.cells[ni] != Unlabelled || !pass(g.cells[ni]) {
					continue
				}
				labels.cells[ni] = id
				frontier.Enqueue(n)
			}
		}
		regions = append(regions, region)
	}
	return labels, regions
}
