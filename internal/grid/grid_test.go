package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridGetSet(t *testing.T) {
	g := New(Size{Width: 4, Height: 3}, 0)
	g.Set(Coord{X: 3, Y: 2}, 7)

	assert.Equal(t, 7, g.At(Coord{X: 3, Y: 2}))
	v, ok := g.Get(Coord{X: 4, Y: 0})
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Panics(t, func() { g.Set(Coord{X: -1, Y: 0}, 1) })
}

func TestGridMapAndClone(t *testing.T) {
	g := NewFunc(Size{Width: 3, Height: 2}, func(c Coord) int { return c.X + 10*c.Y })
	doubled := Map(g, func(_ Coord, v int) int { return v * 2 })
	assert.Equal(t, []int{20, 22, 24}, doubled.Row(1))

	clone := g.Clone()
	clone.Set(Coord{}, 99)
	assert.Equal(t, 0, g.At(Coord{}), "clone must not alias the original")
}

func TestNewAxis(t *testing.T) {
	assert.Equal(t, Coord{X: 5, Y: 2}, NewAxis(5, 2, AxisX))
	assert.Equal(t, Coord{X: 2, Y: 5}, NewAxis(5, 2, AxisY))
	assert.Equal(t, AxisY, AxisX.Other())
}

func TestCoordManhattan(t *testing.T) {
	a := Coord{X: 1, Y: 5}
	b := Coord{X: 4, Y: 1}
	assert.Equal(t, 7, a.Manhattan(b))
	assert.Equal(t, 7, b.Manhattan(a))
	assert.Equal(t, 0, a.Manhattan(a))
}

func TestSizeOnBorder(t *testing.T) {
	s := Size{Width: 5, Height: 4}
	tests := []struct {
		c    Coord
		want bool
	}{
		{Coord{X: 0, Y: 2}, true},
		{Coord{X: 4, Y: 1}, true},
		{Coord{X: 2, Y: 3}, true},
		{Coord{X: 2, Y: 2}, false},
		{Coord{X: 5, Y: 0}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.OnBorder(tt.c), "OnBorder(%v)", tt.c)
	}
}

// Grid (1 = passable):
//
//	1 1 0 1
//	0 1 0 1
//	1 0 0 1
func TestLabel(t *testing.T) {
	rows := [][]int{
		{1, 1, 0, 1},
		{0, 1, 0, 1},
		{1, 0, 0, 1},
	}
	g := NewFunc(Size{Width: 4, Height: 3}, func(c Coord) int { return rows[c.Y][c.X] })

	labels, regions := Label(g, func(v int) bool { return v == 1 })
	require.Len(t, regions, 3)

	assert.Equal(t, 0, labels.At(Coord{X: 0, Y: 0}))
	assert.Equal(t, 0, labels.At(Coord{X: 1, Y: 1}))
	assert.Equal(t, 1, labels.At(Coord{X: 3, Y: 0}), "ids follow row-major discovery")
	assert.Equal(t, 2, labels.At(Coord{X: 0, Y: 2}))
	assert.Equal(t, Unlabelled, labels.At(Coord{X: 2, Y: 1}))

	assert.Len(t, regions[0], 3)
	assert.Len(t, regions[1], 3)
	assert.Equal(t, []Coord{{X: 0, Y: 2}}, regions[2])
}

func TestLabelNoDiagonals(t *testing.T) {
	g := NewFunc(Size{Width: 2, Height: 2}, func(c Coord) bool { return c.X == c.Y })
	_, regions := Label(g, func(v bool) bool { return v })
	assert.Len(t, regions, 2)
}
