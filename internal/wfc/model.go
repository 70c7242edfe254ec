// Package wfc implements the overlapping wave function collapse model for
// two-valued bitmaps.
//
// A Model is built once from an example bitmap and can then synthesize any
// number of outputs. Every n×n window of an output, read with wrap-around,
// equals some window of the example in one of its eight orientations.
package wfc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/samdwyer/sewerband/internal/grid"
)

var (
	// ErrContradiction is returned when some cell has no pattern left.
	ErrContradiction = errors.New("wfc: contradiction")
	// ErrInvalidInput is returned for unusable examples, window sizes or output sizes.
	ErrInvalidInput = errors.New("wfc: invalid input")
)

// MaxPatternSize bounds n so a pattern fits in a uint64 key.
const MaxPatternSize = 8

// Rand is the random source consumed by the solver.
type Rand interface {
	Intn(n int) int
}

// Neighbour offsets, indexed by direction. opposite[d] points back.
var (
	dx       = [4]int{-1, 0, 1, 0}
	dy       = [4]int{0, 1, 0, -1}
	opposite = [4]int{2, 3, 0, 1}
)

// Model holds the patterns extracted from an example and their adjacency rules.
type Model struct {
	n          int
	patterns   [][]bool
	weights    []int
	weightLogW []float64
	propagator [4][][]int
}

// NewOverlapping extracts every n×n window of input, treating the input as
// toroidal, in all eight rotations and reflections.
func NewOverlapping(input *grid.Grid[bool], n int) (*Model, error) {
	if n < 2 || n > MaxPatternSize {
		return nil, fmt.Errorf("%w: pattern size %d outside [2,%d]", ErrInvalidInput, n, MaxPatternSize)
	}
	if input == nil || input.Size().Area() == 0 {
		return nil, fmt.Errorf("%w: empty example", ErrInvalidInput)
	}

	m := &Model{n: n}
	index := make(map[uint64]int)
	size := input.Size()

	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			base := m.window(func(px, py int) bool {
				return input.At(grid.Coord{X: (x + px) % size.Width, Y: (y + py) % size.Height})
			})
			for _, p := range m.orientations(base) {
				key := patternKey(p)
				if i, ok := index[key]; ok {
					m.weights[i]++
					continue
				}
				index[key] = len(m.patterns)
				m.patterns = append(m.patterns, p)
				m.weights = append(m.weights, 1)
			}
		}
	}

	m.weightLogW = make([]float64, len(m.weights))
	for i, w := range m.weights {
		m.weightLogW[i] = float64(w) * math.Log(float64(w))
	}

	for d := 0; d < 4; d++ {
		m.propagator[d] = make([][]int, len(m.patterns))
		for t1, p1 := range m.patterns {
			for t2, p2 := range m.patterns {
				if m.agrees(p1, p2, dx[d], dy[d]) {
					m.propagator[d][t1] = append(m.propagator[d][t1], t2)
				}
			}
		}
	}
	return m, nil
}

// PatternSize returns the window size n.
func (m *Model) PatternSize() int {
	return m.n
}

// PatternCount returns the number of distinct patterns.
func (m *Model) PatternCount() int {
	return len(m.patterns)
}

// Collapse runs attempts until one finishes without contradiction. It returns
// the output and the number of contradictions thrown away on the way. It
// stops with ctx's error when ctx is done before an attempt.
func (m *Model) Collapse(ctx context.Context, size grid.Size, rng Rand) (*grid.Grid[bool], int, error) {
	if err := m.checkSize(size); err != nil {
		return nil, 0, err
	}
	w := m.newWave(size)
	contradictions := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, contradictions, err
		}
		w.reset()
		if w.run(rng) {
			return w.output(), contradictions, nil
		}
		contradictions++
	}
}

// Run performs a single attempt and reports ErrContradiction on failure.
func (m *Model) Run(size grid.Size, rng Rand) (*grid.Grid[bool], error) {
	if err := m.checkSize(size); err != nil {
		return nil, err
	}
	w := m.newWave(size)
	w.reset()
	if !w.run(rng) {
		return nil, ErrContradiction
	}
	return w.output(), nil
}

func (m *Model) checkSize(size grid.Size) error {
	if size.Width < 1 || size.Height < 1 {
		return fmt.Errorf("%w: output size %dx%d", ErrInvalidInput, size.Width, size.Height)
	}
	return nil
}

// window builds a pattern by sampling f at every (x, y) in [0,n)².
func (m *Model) window(f func(x, y int) bool) []bool {
	p := make([]bool, m.n*m.n)
	for y := 0; y < m.n; y++ {
		for x := 0; x < m.n; x++ {
			p[x+y*m.n] = f(x, y)
		}
	}
	return p
}

func (m *Model) rotate(p []bool) []bool {
	return m.window(func(x, y int) bool { return p[m.n-1-y+x*m.n] })
}

func (m *Model) reflect(p []bool) []bool {
	return m.window(func(x, y int) bool { return p[m.n-1-x+y*m.n] })
}

// orientations returns the dihedral images of p.
func (m *Model) orientations(p []bool) [8][]bool {
	var out [8][]bool
	out[0] = p
	out[1] = m.reflect(out[0])
	out[2] = m.rotate(out[0])
	out[3] = m.reflect(out[2])
	out[4] = m.rotate(out[2])
	out[5] = m.reflect(out[4])
	out[6] = m.rotate(out[4])
	out[7] = m.reflect(out[6])
	return out
}

// agrees reports whether p2 placed at offset (ox, oy) from p1 matches p1 on
// their overlap.
func (m *Model) agrees(p1, p2 []bool, ox, oy int) bool {
	xmin, xmax := max(ox, 0), min(ox+m.n, m.n)
	ymin, ymax := max(oy, 0), min(oy+m.n, m.n)
	for y := ymin; y < ymax; y++ {
		for x := xmin; x < xmax; x++ {
			if p1[x+m.n*y] != p2[x-ox+m.n*(y-oy)] {
				return false
			}
		}
	}
	return true
}

func patternKey(p []bool) uint64 {
	var key uint64
	for i, v := range p {
		if v {
			key |= 1 << uint(i)
		}
	}
	return key
}
