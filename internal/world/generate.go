package world

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/sewerband/internal/gamedata"
	"github.com/samdwyer/sewerband/internal/grid"
	"github.com/samdwyer/sewerband/internal/telemetry"
	"github.com/samdwyer/sewerband/internal/wfc"
)

type options struct {
	params      Params
	logger      logr.Logger
	maxAttempts uint
	example     *grid.Grid[bool]
	onRetry     func(attempt int, err error)
}

// Option configures Generate.
type Option func(*options)

// WithParams replaces the default tuning.
func WithParams(p Params) Option {
	return func(o *options) { o.params = p }
}

// WithLogger sets the logger. Rejected attempts are logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxAttempts caps the number of attempts. Zero, the default, retries
// until a sewer is accepted or the context is done.
func WithMaxAttempts(n uint) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithExample synthesizes from the given bitmap instead of an embedded
// pattern. True cells are open.
func WithExample(example *grid.Grid[bool]) Option {
	return func(o *options) { o.example = example }
}

// WithRetryHook is called after every rejected attempt that will be retried.
func WithRetryHook(fn func(attempt int, err error)) Option {
	return func(o *options) { o.onRetry = fn }
}

func newOptions(opts []Option) *options {
	o := &options{
		params: DefaultParams(),
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type modelKey struct {
	patternID string
	n         int
}

// models caches synthesizer models built from embedded patterns.
var models = struct {
	sync.Mutex
	m map[modelKey]*wfc.Model
}{m: make(map[modelKey]*wfc.Model)}

// loadModel builds or fetches the synthesizer model for the options. The
// window size comes from the params, then the pattern, then
// DefaultPatternSize.
func loadModel(o *options) (*wfc.Model, error) {
	if o.example != nil {
		n := cmp.Or(o.params.PatternSize, DefaultPatternSize)
		m, err := wfc.NewOverlapping(o.example, n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
		return m, nil
	}

	key := modelKey{patternID: o.params.PatternID, n: o.params.PatternSize}
	models.Lock()
	defer models.Unlock()
	if m, ok := models.m[key]; ok {
		return m, nil
	}

	def, err := gamedata.LoadPattern(key.patternID)
	if errors.Is(err, gamedata.ErrUnknownPattern) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if err != nil {
		return nil, err
	}
	example, err := def.Bitmap()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	m, err := wfc.NewOverlapping(example, cmp.Or(key.n, def.PatternSize, DefaultPatternSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	models.m[key] = m
	return m, nil
}

// Generate produces a sewer of the requested size, retrying rejected
// attempts until one is accepted. Without WithMaxAttempts it only returns
// early when ctx is done or the request is invalid.
func Generate(ctx context.Context, spec SewerSpec, rng Rand, opts ...Option) (*Sewer, error) {
	o := newOptions(opts)

	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "sewer.generate")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.Int("sewer.width", spec.Size.Width),
		attribute.Int("sewer.height", spec.Size.Height),
		attribute.String("sewer.pattern", o.params.PatternID),
	)
	log := o.logger.WithName("world").WithValues("run", runID)

	fail := func(err error) (*Sewer, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := o.params.Validate(); err != nil {
		return fail(err)
	}
	model, err := loadModel(o)
	if err != nil {
		return fail(err)
	}
	if err := spec.Validate(model.PatternSize()); err != nil {
		return fail(err)
	}
	span.SetAttributes(attribute.Int("sewer.pattern_size", model.PatternSize()))

	attempts, contradictions := 0, 0
	op := func() (*Sewer, error) {
		attempts++
		s, c, err := attempt(ctx, tracer, spec, rng, model, o.params, attempts)
		contradictions += c
		if c > 0 {
			log.V(2).Info("synthesizer restarted", "attempt", attempts, "contradictions", c)
		}
		if errors.Is(err, ErrInvalidSpec) {
			return nil, backoff.Permanent(err)
		}
		return s, err
	}
	notify := func(err error, _ time.Duration) {
		log.V(1).Info("rejected sewer", "attempt", attempts, "reason", err.Error())
		if o.onRetry != nil {
			o.onRetry(attempts, err)
		}
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	}
	if o.maxAttempts > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxTries(o.maxAttempts))
	}

	sewer, err := backoff.Retry(ctx, op, retryOpts...)
	span.SetAttributes(
		attribute.Int("sewer.attempts", attempts),
		attribute.Int("sewer.contradictions", contradictions),
	)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, ErrInvalidSpec) {
			err = fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempts, err)
		}
		log.Error(err, "sewer generation failed")
		return fail(err)
	}

	sewer.Stats.Attempts = attempts
	sewer.Stats.Contradictions = contradictions
	fingerprint := fmt.Sprintf("%016x", sewer.Fingerprint())
	span.SetAttributes(
		attribute.Int("sewer.bridges", sewer.Stats.Bridges),
		attribute.Int("sewer.doors", sewer.Stats.Doors),
		attribute.Int("sewer.pool_cells", sewer.Count(CellPool)),
		attribute.Int("sewer.lights", len(sewer.Lights)),
		attribute.String("sewer.fingerprint", fingerprint),
	)
	log.Info("generated sewer",
		"width", spec.Size.Width,
		"height", spec.Size.Height,
		"attempts", attempts,
		"fingerprint", fingerprint,
	)
	return sewer, nil
}

// TryGenerate runs a single attempt with the given parameters. It returns
// ErrNoSpawn or ErrNoPool when the attempt is rejected.
func TryGenerate(ctx context.Context, spec SewerSpec, rng Rand, params Params) (*Sewer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	model, err := loadModel(&options{params: params})
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(model.PatternSize()); err != nil {
		return nil, err
	}
	s, c, err := attempt(ctx, telemetry.Tracer("world"), spec, rng, model, params, 1)
	if err != nil {
		return nil, err
	}
	s.Stats.Attempts = 1
	s.Stats.Contradictions = c
	return s, nil
}

// attempt runs the pipeline once. It also returns the number of
// synthesizer contradictions it recovered from.
func attempt(ctx context.Context, tracer trace.Tracer, spec SewerSpec, rng Rand, model *wfc.Model, params Params, n int) (*Sewer, int, error) {
	ctx, span := tracer.Start(ctx, "sewer.attempt",
		trace.WithAttributes(attribute.Int("attempt", n)),
	)
	defer span.End()

	open, contradictions, err := model.Collapse(ctx, spec.Size, rng)
	span.SetAttributes(attribute.Int("wfc.contradictions", contradictions))
	if errors.Is(err, wfc.ErrInvalidInput) {
		return nil, contradictions, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if err != nil {
		return nil, contradictions, err
	}

	sewer, err := assemble(open, rng, params)
	if err != nil {
		span.AddEvent("rejected", trace.WithAttributes(attribute.String("reason", err.Error())))
		return nil, contradictions, err
	}
	span.SetAttributes(
		attribute.Int("sewer.bridges", sewer.Stats.Bridges),
		attribute.Int("sewer.doors", sewer.Stats.Doors),
	)
	return sewer, contradictions, nil
}

// assemble turns a synthesized bitmap into a sewer, or rejects it.
func assemble(open *grid.Grid[bool], rng Rand, params Params) (*Sewer, error) {
	ground := carvePools(open, rng, params)
	finishBoundary(ground)
	cells := classify(ground)

	bridges := findBridges(cells).choose(rng)
	doors := findDoors(cells)
	chosen := chooseDoors(doors, rng, params.ExtraDoorDivisor)

	m := paint(cells, bridges, doors, chosen, rng)
	keepLargestArea(m)

	start, goal, err := placeSpawns(m, rng, params.GoalBuckets)
	if err != nil {
		return nil, err
	}
	if m.Count(func(c Cell) bool { return c == CellPool }) == 0 {
		return nil, ErrNoPool
	}

	return &Sewer{
		Start:  start,
		Goal:   goal,
		Map:    m,
		Lights: placeLights(m, rng, params.LightChance),
		Stats: Stats{
			Bridges: len(bridges),
			Doors:   len(chosen),
		},
	}, nil
}
