package world

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/samdwyer/sewerband/internal/grid"
)

// Rand is the random source the generator draws from. *rand.Rand
// satisfies it. All randomness in a run comes from one Rand, so a seeded
// source reproduces the same sewer.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// LightKind is the reason a light was placed.
type LightKind uint8

const (
	// LightPool glows from the water surface.
	LightPool LightKind = iota
)

// String returns the light kind's name.
func (k LightKind) String() string {
	switch k {
	case LightPool:
		return "pool"
	default:
		return "unknown"
	}
}

// Light is a light source on the map.
type Light struct {
	Coord grid.Coord
	Kind  LightKind
}

// Stats describes how a sewer was produced.
type Stats struct {
	Attempts       int // Attempts including the accepted one
	Contradictions int // Synthesizer restarts across all attempts
	Bridges        int
	Doors          int
}

// Sewer is a finished level.
type Sewer struct {
	Start  grid.Coord
	Goal   grid.Coord
	Map    *grid.Grid[Cell]
	Lights []Light
	Stats  Stats
}

// Size returns the map dimensions.
func (s *Sewer) Size() grid.Size {
	return s.Map.Size()
}

// Fingerprint hashes the map, spawn points and lights. Two sewers with the
// same fingerprint are the same level.
func (s *Sewer) Fingerprint() uint64 {
	h := xxhash.New()
	var buf []byte
	put := func(vs ...int) {
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	size := s.Size()
	put(size.Width, size.Height, s.Start.X, s.Start.Y, s.Goal.X, s.Goal.Y)
	for y := 0; y < size.Height; y++ {
		for _, c := range s.Map.Row(y) {
			buf = append(buf, byte(c))
		}
	}
	put(len(s.Lights))
	for _, l := range s.Lights {
		put(l.Coord.X, l.Coord.Y, int(l.Kind))
	}
	_, _ = h.Write(buf)
	return h.Sum64()
}

// Glyph returns the character drawn at c, with start and goal on top.
func (s *Sewer) Glyph(c grid.Coord) rune {
	switch c {
	case s.Start:
		return '@'
	case s.Goal:
		return '>'
	}
	return s.Map.At(c).Rune()
}

// String draws the sewer one row per line.
func (s *Sewer) String() string {
	var b strings.Builder
	size := s.Size()
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			b.WriteRune(s.Glyph(grid.Coord{X: x, Y: y}))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Count returns how many cells hold c.
func (s *Sewer) Count(c Cell) int {
	return s.Map.Count(func(v Cell) bool { return v == c })
}
