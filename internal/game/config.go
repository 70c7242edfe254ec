package game

import (
	"github.com/go-logr/logr"

	"github.com/samdwyer/sewerband/internal/grid"
	"github.com/samdwyer/sewerband/internal/world"
)

// Config holds viewer configuration options.
type Config struct {
	// Seed for the first sewer. Each regeneration steps it by one.
	Seed int64
	// Size of the generated map.
	Size grid.Size
	// MaxAttempts caps each generation. Zero retries forever.
	MaxAttempts uint
	// Params tunes the generator.
	Params world.Params
	// Logger receives generation logs.
	Logger logr.Logger
}

// DefaultConfig returns a config for the default map size.
func DefaultConfig() Config {
	return Config{
		Size:   grid.Size{Width: world.DefaultWidth, Height: world.DefaultHeight},
		Params: world.DefaultParams(),
		Logger: logr.Discard(),
	}
}
