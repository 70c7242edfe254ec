package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/sewerband/internal/gamedata"
	"github.com/samdwyer/sewerband/internal/telemetry"
	"github.com/samdwyer/sewerband/internal/ui"
	"github.com/samdwyer/sewerband/internal/world"
)

// Game is the interactive viewer: it shows one sewer and regenerates on
// request.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer
	sewer    *world.Sewer
	seed     int64
	state    State
	err      error
	running  bool
}

// New creates a viewer on the terminal.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g, err := newGame(cfg, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

func newGame(cfg Config, screen *ui.Screen) (*Game, error) {
	palette, err := gamedata.LoadPalette()
	if err != nil {
		return nil, err
	}
	return &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen, palette),
		seed:     cfg.Seed,
		state:    StateView,
		running:  true,
	}, nil
}

// Run executes the main viewer loop.
func (g *Game) Run(ctx context.Context) error {
	g.generate(ctx)

	for g.running {
		g.render()

		// Handle input (blocking)
		g.handleInput(ctx)
	}

	g.screen.Close()
	return nil
}

// generate builds the sewer for the current seed.
func (g *Game) generate(ctx context.Context) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.generate")
	defer span.End()
	span.SetAttributes(telemetry.SeedAttribute(g.seed))

	spec := world.SewerSpec{Size: g.cfg.Size}
	s, err := world.Generate(ctx, spec, rand.New(rand.NewSource(g.seed)),
		world.WithParams(g.cfg.Params),
		world.WithLogger(g.cfg.Logger),
		world.WithMaxAttempts(g.cfg.MaxAttempts),
	)
	if err != nil {
		g.state, g.err = StateFailed, err
		return
	}
	g.sewer, g.state, g.err = s, StateView, nil
}

func (g *Game) render() {
	if g.state == StateFailed {
		g.screen.Clear()
		g.renderer.RenderMessage(fmt.Sprintf("seed %d: %v", g.seed, g.err), 0)
		g.renderer.RenderMessage("[n]ext [p]rev [q]uit", 1)
		g.screen.Show()
		return
	}
	g.renderer.Render(g.sewer, g.status())
}

// status summarises the current sewer for the bottom line.
func (g *Game) status() string {
	return fmt.Sprintf("seed %d  attempts %d  distance %d  lights %d  %016x  [n]ext [p]rev [q]uit",
		g.seed, g.sewer.Stats.Attempts, g.sewer.Start.Manhattan(g.sewer.Goal), len(g.sewer.Lights), g.sewer.Fingerprint())
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyRight:
		g.step(ctx, 1)
	case tcell.KeyLeft:
		g.step(ctx, -1)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'n', 'r':
			g.step(ctx, 1)
		case 'p':
			g.step(ctx, -1)
		}
	}
}

// step moves to a neighbouring seed and regenerates.
func (g *Game) step(ctx context.Context, delta int64) {
	g.seed += delta
	g.generate(ctx)
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
