package ui

import (
	"bufio"
	"io"

	"github.com/gookit/color"

	"github.com/samdwyer/sewerband/internal/gamedata"
	"github.com/samdwyer/sewerband/internal/grid"
	"github.com/samdwyer/sewerband/internal/world"
)

// Dump writes the sewer as text, one row per line. With colour set each
// glyph is wrapped in its palette colour.
func Dump(w io.Writer, s *world.Sewer, palette *gamedata.Palette, colour bool) error {
	bw := bufio.NewWriter(w)
	lit := litCells(s)
	size := s.Size()
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			c := grid.Coord{X: x, Y: y}
			entry := palette.Get(PaletteID(s, c, lit[c]))
			glyph := string(entry.GlyphRune())
			if colour {
				rgb := entry.RGB()
				glyph = color.RGB(rgb.R, rgb.G, rgb.B).Sprint(glyph)
			}
			if _, err := bw.WriteString(glyph); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
