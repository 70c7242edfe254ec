package world

import (
	"errors"
	"fmt"

	"github.com/samdwyer/sewerband/internal/gamedata"
	"github.com/samdwyer/sewerband/internal/grid"
	"github.com/samdwyer/sewerband/internal/wfc"
)

// Errors reported by the generator.
var (
	// ErrInvalidSpec is returned for sizes or parameters that can never
	// produce a sewer. It is never retried.
	ErrInvalidSpec = errors.New("world: invalid sewer spec")
	// ErrNoSpawn rejects an attempt with no safe floor for start and goal.
	ErrNoSpawn = errors.New("world: no spawn candidates")
	// ErrNoPool rejects an attempt whose map has no water left.
	ErrNoPool = errors.New("world: no pool cells")
	// ErrAttemptsExhausted is returned when a retry cap was set and reached.
	ErrAttemptsExhausted = errors.New("world: attempts exhausted")
)

// Default map size used by the CLI.
const (
	DefaultWidth  = 40
	DefaultHeight = 20
)

// DefaultPatternSize is the window size used when neither the params nor
// the pattern name one.
const DefaultPatternSize = 3

// SewerSpec is the requested map size.
type SewerSpec struct {
	Size grid.Size
}

// NewSewerSpec is a convenience constructor.
func NewSewerSpec(width, height int) SewerSpec {
	return SewerSpec{Size: grid.Size{Width: width, Height: height}}
}

// spawnMargin is the distance from the map edge to the nearest cell that can
// hold a start or goal: the outer wall plus one ring of floor.
const spawnMargin = 2

// Validate reports ErrInvalidSpec when the size is smaller than the pattern
// window n, or too small to ever fit both a start and a goal.
func (s SewerSpec) Validate(n int) error {
	w, h := s.Size.Width, s.Size.Height
	if w < n || h < n {
		return fmt.Errorf("%w: size %dx%d is smaller than the %dx%d pattern window",
			ErrInvalidSpec, w, h, n, n)
	}
	spawnable := grid.Size{Width: w - 2*spawnMargin, Height: h - 2*spawnMargin}
	if spawnable.Width < 1 || spawnable.Height < 1 || spawnable.Area() < 2 {
		return fmt.Errorf("%w: size %dx%d leaves no room for both start and goal",
			ErrInvalidSpec, w, h)
	}
	return nil
}

// Params tunes the generator. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	// PatternID selects the example bitmap from the embedded pattern set.
	PatternID string
	// PatternSize is the synthesizer window size. Zero uses the size the
	// selected pattern suggests, or DefaultPatternSize for WithExample.
	PatternSize int
	// ShrinkMin and ShrinkMax bound the per-pool erosion steps, inclusive.
	ShrinkMin, ShrinkMax int
	// SharpEdgePasses is how often one-cell-thick spurs are trimmed.
	SharpEdgePasses int
	// MinPoolSize drops pools with fewer cells.
	MinPoolSize int
	// ExtraDoorDivisor adds 1/n of the non-tree door candidates.
	ExtraDoorDivisor int
	// GoalBuckets splits spawn candidates by distance; the goal comes
	// from the farthest bucket.
	GoalBuckets int
	// LightChance lights one in n pool cells regardless of neighbours.
	LightChance int
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		PatternID:        gamedata.DefaultPatternID,
		ShrinkMin:        2,
		ShrinkMax:        3,
		SharpEdgePasses:  3,
		MinPoolSize:      8,
		ExtraDoorDivisor: 4,
		GoalBuckets:      10,
		LightChance:      20,
	}
}

// Validate reports ErrInvalidSpec for out-of-range parameters.
func (p Params) Validate() error {
	switch {
	case p.PatternSize != 0 && (p.PatternSize < 2 || p.PatternSize > wfc.MaxPatternSize):
		return fmt.Errorf("%w: pattern size %d outside [2,%d]", ErrInvalidSpec, p.PatternSize, wfc.MaxPatternSize)
	case p.ShrinkMin < 0 || p.ShrinkMax < p.ShrinkMin:
		return fmt.Errorf("%w: shrink range [%d,%d]", ErrInvalidSpec, p.ShrinkMin, p.ShrinkMax)
	case p.SharpEdgePasses < 0:
		return fmt.Errorf("%w: negative sharp edge passes", ErrInvalidSpec)
	case p.MinPoolSize < 1:
		return fmt.Errorf("%w: min pool size %d", ErrInvalidSpec, p.MinPoolSize)
	case p.ExtraDoorDivisor < 1:
		return fmt.Errorf("%w: extra door divisor %d", ErrInvalidSpec, p.ExtraDoorDivisor)
	case p.GoalBuckets < 1:
		return fmt.Errorf("%w: goal buckets %d", ErrInvalidSpec, p.GoalBuckets)
	case p.LightChance < 1:
		return fmt.Errorf("%w: light chance %d", ErrInvalidSpec, p.LightChance)
	}
	return nil
}
