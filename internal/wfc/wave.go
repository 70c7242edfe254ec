package wfc

import (
	"math"

	"github.com/samdwyer/sewerband/internal/grid"
)

type ban struct {
	cell, pattern int
}

// wave is the solver state for one output size. It is reused across attempts.
type wave struct {
	m    *Model
	size grid.Size

	allowed    [][]bool
	compatible [][][4]int32
	remaining  []int
	sumW       []int
	sumWLogW   []float64
	entropy    []float64

	stack        []ban
	contradicted bool
}

func (m *Model) newWave(size grid.Size) *wave {
	cells := size.Area()
	w := &wave{
		m:          m,
		size:       size,
		allowed:    make([][]bool, cells),
		compatible: make([][][4]int32, cells),
		remaining:  make([]int, cells),
		sumW:       make([]int, cells),
		sumWLogW:   make([]float64, cells),
		entropy:    make([]float64, cells),
	}
	for i := 0; i < cells; i++ {
		w.allowed[i] = make([]bool, len(m.patterns))
		w.compatible[i] = make([][4]int32, len(m.patterns))
	}
	return w
}

func (w *wave) reset() {
	totalW, totalWLogW := 0, 0.0
	for t, weight := range w.m.weights {
		totalW += weight
		totalWLogW += w.m.weightLogW[t]
	}
	startEntropy := math.Log(float64(totalW)) - totalWLogW/float64(totalW)

	for i := range w.allowed {
		for t := range w.allowed[i] {
			w.allowed[i][t] = true
			for d := 0; d < 4; d++ {
				w.compatible[i][t][d] = int32(len(w.m.propagator[opposite[d]][t]))
			}
		}
		w.remaining[i] = len(w.m.patterns)
		w.sumW[i] = totalW
		w.sumWLogW[i] = totalWLogW
		w.entropy[i] = startEntropy
	}
	w.stack = w.stack[:0]
	w.contradicted = false
}

// run observes and propagates until every cell is decided or a cell runs dry.
func (w *wave) run(rng Rand) bool {
	for {
		cell, done := w.observe(rng)
		if w.contradicted {
			return false
		}
		if done {
			return true
		}
		w.collapseCell(cell, rng)
		w.propagate()
		if w.contradicted {
			return false
		}
	}
}

// observe picks the undecided cell of lowest entropy, breaking ties uniformly.
func (w *wave) observe(rng Rand) (int, bool) {
	best, ties := -1, 0
	minEntropy := math.Inf(1)
	for i, r := range w.remaining {
		if r == 0 {
			w.contradicted = true
			return -1, false
		}
		if r == 1 {
			continue
		}
		switch e := w.entropy[i]; {
		case e < minEntropy:
			minEntropy, best, ties = e, i, 1
		case e == minEntropy:
			ties++
			if rng.Intn(ties) == 0 {
				best = i
			}
		}
	}
	return best, best == -1
}

// collapseCell keeps one pattern at cell, drawn in proportion to its weight.
func (w *wave) collapseCell(cell int, rng Rand) {
	r := rng.Intn(w.sumW[cell])
	chosen := -1
	for t, ok := range w.allowed[cell] {
		if !ok {
			continue
		}
		r -= w.m.weights[t]
		if r < 0 {
			chosen = t
			break
		}
	}
	for t, ok := range w.allowed[cell] {
		if ok && t != chosen {
			w.ban(cell, t)
		}
	}
}

func (w *wave) ban(cell, t int) {
	w.allowed[cell][t] = false
	w.compatible[cell][t] = [4]int32{}
	w.stack = append(w.stack, ban{cell: cell, pattern: t})

	w.remaining[cell]--
	w.sumW[cell] -= w.m.weights[t]
	w.sumWLogW[cell] -= w.m.weightLogW[t]
	if w.remaining[cell] == 0 {
		w.contradicted = true
		return
	}
	sum := float64(w.sumW[cell])
	w.entropy[cell] = math.Log(sum) - w.sumWLogW[cell]/sum
}

func (w *wave) propagate() {
	width, height := w.size.Width, w.size.Height
	for len(w.stack) > 0 {
		b := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		x1, y1 := b.cell%width, b.cell/width
		for d := 0; d < 4; d++ {
			x2 := (x1 + dx[d] + width) % width
			y2 := (y1 + dy[d] + height) % height
			cell := x2 + y2*width
			compat := w.compatible[cell]
			for _, t2 := range w.m.propagator[d][b.pattern] {
				compat[t2][d]--
				if compat[t2][d] == 0 {
					w.ban(cell, t2)
					if w.contradicted {
						return
					}
				}
			}
		}
	}
}

// output reads the top-left value of the pattern chosen at every cell.
func (w *wave) output() *grid.Grid[bool] {
	return grid.NewFunc(w.size, func(c grid.Coord) bool {
		for t, ok := range w.allowed[c.X+c.Y*w.size.Width] {
			if ok {
				return w.m.patterns[t][0]
			}
		}
		return false
	})
}
