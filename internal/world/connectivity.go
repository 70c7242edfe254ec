package world

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// roomEdge is one door candidate seen from one of its rooms.
type roomEdge struct {
	to  int
	via int
}

// doorGraph maps each room to the candidates that leave it.
type doorGraph map[int][]roomEdge

func newDoorGraph(candidates []doorCandidate) doorGraph {
	g := make(doorGraph)
	for i, d := range candidates {
		g[d.low] = append(g[d.low], roomEdge{to: d.high, via: i})
		g[d.high] = append(g[d.high], roomEdge{to: d.low, via: i})
	}
	return g
}

// spanningTree grows a random tree over the rooms from a random candidate.
// A candidate is admitted when it reaches at least one unvisited room.
// It returns the indices of the admitted candidates.
func spanningTree(candidates []doorCandidate, rng Rand) mapset.Set[int] {
	tree := mapset.New[int]()
	if len(candidates) == 0 {
		return tree
	}
	graph := newDoorGraph(candidates)
	visited := mapset.New[int]()

	toVisit := []int{rng.Intn(len(candidates))}
	for len(toVisit) > 0 {
		i := rng.Intn(len(toVisit))
		id := toVisit[i]
		toVisit[i] = toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]

		d := candidates[id]
		fresh := false
		for _, room := range []int{d.low, d.high} {
			if !visited.Has(room) {
				visited.Put(room)
				fresh = true
			}
		}
		if !fresh {
			continue
		}
		tree.Put(id)
		for _, room := range []int{d.low, d.high} {
			for _, e := range graph[room] {
				if !visited.Has(e.to) {
					toVisit = append(toVisit, e.via)
				}
			}
		}
	}
	return tree
}

// chooseDoors returns the spanning tree plus 1/extraDivisor of the other
// candidates, picked at random. Indices are returned in ascending order.
func chooseDoors(candidates []doorCandidate, rng Rand, extraDivisor int) []int {
	tree := spanningTree(candidates, rng)

	var chosen, others []int
	for i := range candidates {
		if tree.Has(i) {
			chosen = append(chosen, i)
		} else {
			others = append(others, i)
		}
	}
	rng.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	chosen = append(chosen, others[:len(others)/extraDivisor]...)
	slices.Sort(chosen)
	return chosen
}
