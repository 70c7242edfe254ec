package gamedata

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samdwyer/sewerband/internal/grid"
)

// DefaultPatternID names the example the sewer generator synthesizes from.
const DefaultPatternID = "sewer"

// ErrUnknownPattern is returned by LoadPattern for an id not in patterns.json.
var ErrUnknownPattern = errors.New("unknown pattern")

// PatternDef is an example bitmap for the pattern synthesizer.
// Rows use '.' for open cells and '#' for closed cells.
type PatternDef struct {
	ID          string   `json:"id"`          // Unique identifier (e.g., "sewer")
	Name        string   `json:"name"`        // Display name
	PatternSize int      `json:"patternSize"` // Suggested window size, 0 for none
	Rows        []string `json:"rows"`        // Bitmap, top row first
}

// Size returns the bitmap dimensions.
func (p *PatternDef) Size() grid.Size {
	if len(p.Rows) == 0 {
		return grid.Size{}
	}
	return grid.Size{Width: len(p.Rows[0]), Height: len(p.Rows)}
}

// Bitmap converts the rows into a grid where true means open.
func (p *PatternDef) Bitmap() (*grid.Grid[bool], error) {
	size := p.Size()
	if size.Area() == 0 {
		return nil, fmt.Errorf("pattern %q is empty", p.ID)
	}
	out := grid.New(size, true)
	for y, row := range p.Rows {
		if len(row) != size.Width {
			return nil, fmt.Errorf("pattern %q row %d has width %d, want %d", p.ID, y, len(row), size.Width)
		}
		for x, ch := range row {
			switch ch {
			case '.':
			case '#':
				out.Set(grid.Coord{X: x, Y: y}, false)
			default:
				return nil, fmt.Errorf("pattern %q has unexpected char %q at (%d,%d)", p.ID, ch, x, y)
			}
		}
	}
	return out, nil
}

// PatternsFile represents the structure of patterns.json.
type PatternsFile struct {
	Patterns []PatternDef `json:"patterns"`
}

// Validate checks that the file holds at least one pattern, that ids are
// unique and that every bitmap parses.
func (f *PatternsFile) Validate() error {
	if len(f.Patterns) == 0 {
		return errors.New("no patterns")
	}
	seen := make(map[string]bool, len(f.Patterns))
	for i := range f.Patterns {
		def := &f.Patterns[i]
		if def.ID == "" {
			return fmt.Errorf("pattern %d has no id", i)
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate pattern id %q", def.ID)
		}
		seen[def.ID] = true
		if def.PatternSize < 0 {
			return fmt.Errorf("pattern %q has negative pattern size %d", def.ID, def.PatternSize)
		}
		if _, err := def.Bitmap(); err != nil {
			return err
		}
	}
	return nil
}

// LoadPatterns loads example bitmaps from the embedded patterns.json file.
func LoadPatterns() ([]PatternDef, error) {
	file, err := Load[PatternsFile]("patterns.json")
	if err != nil {
		return nil, err
	}
	return file.Patterns, nil
}

// PatternRegistry holds loaded example bitmaps keyed by ID.
type PatternRegistry struct {
	patterns []PatternDef
}

// NewPatternRegistry creates a registry from loaded pattern definitions.
func NewPatternRegistry(patterns []PatternDef) *PatternRegistry {
	return &PatternRegistry{patterns: patterns}
}

// LoadPatternRegistry loads and creates a registry from the embedded patterns.json.
func LoadPatternRegistry() (*PatternRegistry, error) {
	patterns, err := LoadPatterns()
	if err != nil {
		return nil, err
	}
	return NewPatternRegistry(patterns), nil
}

// embeddedPatterns parses patterns.json once per process.
var embeddedPatterns = sync.OnceValues(LoadPatternRegistry)

// LoadPattern returns the embedded pattern with the given id.
func LoadPattern(id string) (*PatternDef, error) {
	registry, err := embeddedPatterns()
	if err != nil {
		return nil, err
	}
	def := registry.GetByID(id)
	if def == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownPattern, id)
	}
	return def, nil
}

// GetByID returns the pattern with the given ID, or nil if not found.
func (r *PatternRegistry) GetByID(id string) *PatternDef {
	for i := range r.patterns {
		if r.patterns[i].ID == id {
			return &r.patterns[i]
		}
	}
	return nil
}

// IDs returns pattern IDs in file order.
func (r *PatternRegistry) IDs() []string {
	ids := make([]string, len(r.patterns))
	for i := range r.patterns {
		ids[i] = r.patterns[i].ID
	}
	return ids
}
