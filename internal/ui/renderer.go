package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/sewerband/internal/gamedata"
	"github.com/samdwyer/sewerband/internal/grid"
	"github.com/samdwyer/sewerband/internal/world"
)

// Renderer handles drawing a sewer to the screen.
type Renderer struct {
	screen  *Screen
	palette *gamedata.Palette
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette *gamedata.Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Render draws the sewer with a status line underneath.
func (r *Renderer) Render(s *world.Sewer, status string) {
	r.screen.Clear()

	lit := litCells(s)
	size := s.Size()
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			c := grid.Coord{X: x, Y: y}
			entry := r.palette.Get(PaletteID(s, c, lit[c]))
			r.screen.SetContent(x, y, entry.GlyphRune(), r.style(entry, c == s.Start || c == s.Goal))
		}
	}

	r.RenderMessage(status, size.Height+1)
	r.screen.Show()
}

// style returns the tcell style for a palette entry.
func (r *Renderer) style(entry gamedata.PaletteEntry, bold bool) tcell.Style {
	return tcell.StyleDefault.Foreground(entry.RGB().TCell()).Bold(bold)
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.DrawText(0, y, msg, style)
}

// PaletteID names the palette entry for the cell at c.
func PaletteID(s *world.Sewer, c grid.Coord, lit bool) string {
	switch c {
	case s.Start:
		return "start"
	case s.Goal:
		return "goal"
	}
	cell := s.Map.At(c)
	if cell == world.CellPool && lit {
		return "light"
	}
	return cell.String()
}

func litCells(s *world.Sewer) map[grid.Coord]bool {
	lit := make(map[grid.Coord]bool, len(s.Lights))
	for _, l := range s.Lights {
		lit[l.Coord] = true
	}
	return lit
}
