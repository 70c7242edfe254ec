// Package main is the entry point for SewerBand.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/term"

	"github.com/samdwyer/sewerband/internal/game"
	"github.com/samdwyer/sewerband/internal/gamedata"
	"github.com/samdwyer/sewerband/internal/grid"
	"github.com/samdwyer/sewerband/internal/telemetry"
	"github.com/samdwyer/sewerband/internal/ui"
	"github.com/samdwyer/sewerband/internal/world"
)

// options are the parsed command line settings.
type options struct {
	seed        int64
	width       int
	height      int
	interactive bool
	trace       bool
	maxAttempts uint
	verbosity   int
	pattern     string
	color       string
}

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_SEWERBAND_API_KEY and SEWERBAND_* available
	envErr := godotenv.Load()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	stdr.SetVerbosity(opts.verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("sewerband")
	if envErr != nil {
		// Not fatal - env vars might be set directly
		logger.V(1).Info("Note: .env file not loaded", "error", envErr.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.trace || telemetry.Enabled() {
		telemetry.ApplyHoneycombEnv()
		shutdown, err := telemetry.Setup(ctx, telemetry.Config{
			Attributes: []attribute.KeyValue{
				telemetry.SeedAttribute(opts.seed),
				attribute.Int("sewer.width", opts.width),
				attribute.Int("sewer.height", opts.height),
			},
		})
		if err != nil {
			logger.Error(err, "Warning: telemetry setup failed, continuing without observability")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error(err, "Error shutting down telemetry")
				}
			}()
		}
	}

	if err := run(ctx, opts, logger); err != nil {
		logger.Error(err, "sewerband failed")
		stop()
		os.Exit(1)
	}
}

// parseFlags reads command line flags, taking defaults from SEWERBAND_* env vars.
func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("sewerband", flag.ContinueOnError)
	fs.Int64Var(&opts.seed, "seed", envInt64("SEWERBAND_SEED", 0), "random seed (0 picks one from the clock)")
	fs.IntVar(&opts.width, "width", int(envInt64("SEWERBAND_WIDTH", world.DefaultWidth)), "map width")
	fs.IntVar(&opts.height, "height", int(envInt64("SEWERBAND_HEIGHT", world.DefaultHeight)), "map height")
	fs.BoolVar(&opts.interactive, "interactive", false, "open the terminal viewer")
	fs.BoolVar(&opts.trace, "trace", false, "export spans over OTLP (also on when OTEL_EXPORTER_OTLP_ENDPOINT is set)")
	fs.UintVar(&opts.maxAttempts, "max-attempts", 0, "give up after this many attempts (0 retries forever)")
	fs.IntVar(&opts.verbosity, "v", 0, "log verbosity")
	fs.StringVar(&opts.pattern, "pattern", gamedata.DefaultPatternID, "example bitmap to synthesize from")
	fs.StringVar(&opts.color, "color", "auto", "colour the map: auto, always or never")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	switch opts.color {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid -color %q", opts.color)
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	return opts, nil
}

// envInt64 returns the integer value of key, or def when unset or malformed.
func envInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func run(ctx context.Context, opts *options, logger logr.Logger) error {
	params := world.DefaultParams()
	params.PatternID = opts.pattern

	if opts.interactive {
		cfg := game.Config{
			Seed:        opts.seed,
			Size:        grid.Size{Width: opts.width, Height: opts.height},
			MaxAttempts: opts.maxAttempts,
			Params:      params,
			Logger:      logger,
		}
		g, err := game.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize viewer: %w", err)
		}
		return g.Run(ctx)
	}

	palette, err := gamedata.LoadPalette()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(opts.seed))
	s, err := world.Generate(ctx, world.NewSewerSpec(opts.width, opts.height), rng,
		world.WithParams(params),
		world.WithLogger(logger),
		world.WithMaxAttempts(opts.maxAttempts),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "seed %d  attempts %d  distance %d  fingerprint %016x\n",
		opts.seed, s.Stats.Attempts, s.Start.Manhattan(s.Goal), s.Fingerprint())
	return ui.Dump(os.Stdout, s, palette, useColor(opts.color))
}

// useColor resolves the -color flag against the output terminal.
func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}
