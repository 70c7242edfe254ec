package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to RGB.
func ParseHexColor(hex string) (RGB, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var out [3]uint8
	for i, name := range []string{"red", "green", "blue"} {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid %s component in %s: %w", name, hex, err)
		}
		out[i] = uint8(v)
	}
	return RGB{R: out[0], G: out[1], B: out[2]}, nil
}

// TCell returns the colour as a tcell.Color.
func (c RGB) TCell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// PaletteEntry describes how one kind of map feature is drawn.
type PaletteEntry struct {
	ID    string `json:"id"`    // Feature name (e.g., "pool", "start")
	Glyph string `json:"glyph"` // Single character for rendering
	Color string `json:"color"` // Hex color code
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *PaletteEntry) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return []rune(e.Glyph)[0]
}

// RGB returns the parsed colour, or white if the entry's colour is malformed.
func (e *PaletteEntry) RGB() RGB {
	c, err := ParseHexColor(e.Color)
	if err != nil {
		return RGB{R: 0xFF, G: 0xFF, B: 0xFF}
	}
	return c
}

// PaletteFile represents the structure of palette.json.
type PaletteFile struct {
	Entries []PaletteEntry `json:"entries"`
}

// Validate checks that every entry has an id, a glyph and a parseable colour.
func (f *PaletteFile) Validate() error {
	for i, e := range f.Entries {
		if e.ID == "" || e.Glyph == "" {
			return fmt.Errorf("palette entry %d needs an id and a glyph", i)
		}
		if _, err := ParseHexColor(e.Color); err != nil {
			return fmt.Errorf("palette entry %q: %w", e.ID, err)
		}
	}
	return nil
}

// Palette maps feature names to their drawing style.
type Palette struct {
	entries map[string]PaletteEntry
}

// LoadPalette loads the cell palette from the embedded palette.json file.
func LoadPalette() (*Palette, error) {
	file, err := Load[PaletteFile]("palette.json")
	if err != nil {
		return nil, err
	}
	p := &Palette{entries: make(map[string]PaletteEntry, len(file.Entries))}
	for _, e := range file.Entries {
		p.entries[e.ID] = e
	}
	return p, nil
}

// MustLoadPalette loads the palette, panicking on error.
func MustLoadPalette() *Palette {
	p, err := LoadPalette()
	if err != nil {
		panic(err)
	}
	return p
}

// Get returns the entry for id. Unknown ids draw as a white '?'.
func (p *Palette) Get(id string) PaletteEntry {
	if e, ok := p.entries[id]; ok {
		return e
	}
	return PaletteEntry{ID: id, Glyph: "?", Color: "#FFFFFF"}
}
