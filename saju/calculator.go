/*
Package saju is the entry point of the engine: birth data in, full chart out.

PURPOSE:
  Composes every stage behind one call. The stages never see each other's
  internals; each hands a value to the next.

PIPELINE:
  Input ──validate──▶ location.Resolve ──▶ solartime.Adjust
        ──▶ pillars.Cast ──▶ combination.Apply ──▶ tengod.Annotate
        ──▶ tengod.Count / tengod.Profile ──▶ fortune ──▶ pattern.Classify
        ──▶ yojin.Resolve ──▶ luck.Compute ──▶ Result

TWO ENTRY POINTS:
  Calculate(in, cfg)
    Pure: everything the call depends on is in its arguments. Safe from any
    number of goroutines.

  Calculator
    Owns a Config behind a RWMutex. Each call snapshots the config under the
    read lock, so UpdateOptions only affects later calls and never a call in
    flight. Also carries the logger, clock and default location used by
    CurrentSaju.

ERRORS:
  Bad input returns *InputError before anything runs. An unplaceable
  location is not an error: it degrades to longitude-only or no adjustment.
  Broken table invariants panic in the stage that owns them.

SEE ALSO:
  - config.go: Config, Patch
  - input.go:  Input, validation
*/
package saju

import (
	"sync"
	"time"

	"github.com/warp/saju-engine/combination"
	"github.com/warp/saju-engine/fortune"
	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/luck"
	"github.com/warp/saju-engine/pattern"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/solartime"
	"github.com/warp/saju-engine/tengod"
	"github.com/warp/saju-engine/yojin"
	"go.uber.org/zap"
)

// =============================================================================
// PURE CALCULATION
// =============================================================================

// Calculate runs the full pipeline with the process-wide location resolver.
func Calculate(in Input, cfg Config) (*Result, error) {
	return calculate(in, cfg, location.Default, zap.NewNop())
}

func calculate(in Input, cfg Config, resolver *location.Resolver, log *zap.Logger) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc := resolver.Resolve(in.Location)
	log.Debug("location resolved",
		zap.String("query", in.Location.String()),
		zap.String("kind", string(loc.Kind())))

	clock := in.Clock()
	adj := solartime.Adjust(clock, loc, cfg.solarOptions())
	log.Debug("time adjusted",
		zap.Time("clock", clock),
		zap.Time("adjusted", adj.Adjusted),
		zap.Int("political", adj.Info.Details.PoliticalTimeZoneAdjustment),
		zap.Int("longitude", adj.Info.Details.LongitudeBasedAdjustment),
		zap.Int("dst", adj.Info.Details.DSTAdjustment),
		zap.Int("regional", adj.Info.Details.RegionalAdjustment))

	chart := pillars.Cast(pillars.Moment{
		Wall:        adj.Adjusted,
		FrameOffset: adj.FrameOffset,
		ExactTerms:  cfg.UseInternationalMode,
	})

	fp, events := combination.Apply(chart.Pillars)
	fp = tengod.Annotate(fp)
	log.Debug("pillars cast",
		zap.String("year", fp[pillars.Year].Label()),
		zap.String("month", fp[pillars.Month].Label()),
		zap.String("day", fp[pillars.Day].Label()),
		zap.String("hour", fp[pillars.Hour].Label()),
		zap.Int("combinations", len(events)))

	counts := tengod.Count(fp)
	k := pattern.Classify(counts, fp[pillars.Month].BranchTenGod)
	log.Debug("pattern classified",
		zap.Stringer("type", k.Type),
		zap.String("strength", string(k.Strength)),
		zap.Stringer("supportRatio", k.SupportRatio))

	if events == nil {
		events = []combination.Event{}
	}

	return &Result{
		Gender:              in.Gender,
		FourPillars:         fp,
		TenGods:             counts,
		ElementProfile:      tengod.Profile(fp),
		TwelveFortunes:      fortune.Fortunes(fp),
		TwelveSpiritKillers: fortune.SpiritKillers(fp),
		Kakukyoku:           k,
		Yojin:               yojin.Resolve(fp.DayMaster(), k),
		Combinations:        events,
		Luck:                luck.Compute(chart.Pillars, adj.Instant(), in.Gender == Male, luck.DefaultCycles),
		TimezoneInfo:        adj.Info,
		Location:            location.Summarize(loc),
		SolarTerm: SolarTerm{
			Year:      chart.SolarYear,
			Longitude: chart.SolarLongitude,
			MonthTerm: chart.MonthTerm,
		},
		Options:           cfg.clone(),
		ProcessedDateTime: adj.Adjusted,
	}, nil
}

// =============================================================================
// CALCULATOR - Stateful convenience wrapper
// =============================================================================

// DefaultLocation is used by CurrentSaju and by calls without a location.
var DefaultLocation = location.ByName("Tokyo, Japan")

// Calculator holds options between calls. The zero value is not usable;
// use NewCalculator.
type Calculator struct {
	mu  sync.RWMutex
	cfg Config

	resolver        *location.Resolver
	logger          *zap.Logger
	now             func() time.Time
	defaultLocation location.Query
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithConfig replaces DefaultConfig as the starting options.
func WithConfig(cfg Config) Option {
	return func(c *Calculator) { c.cfg = cfg.clone() }
}

// WithLogger attaches a logger; stages log at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for CurrentSaju.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithResolver replaces the process-wide location resolver.
func WithResolver(r *location.Resolver) Option {
	return func(c *Calculator) { c.resolver = r }
}

// WithDefaultLocation replaces DefaultLocation.
func WithDefaultLocation(q location.Query) Option {
	return func(c *Calculator) { c.defaultLocation = q }
}

// NewCalculator creates a calculator with DefaultConfig unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		cfg:             DefaultConfig(),
		resolver:        location.Default,
		logger:          zap.NewNop(),
		now:             time.Now,
		defaultLocation: DefaultLocation,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options returns a copy of the current options.
func (c *Calculator) Options() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.clone()
}

// UpdateOptions merges p into the current options. Calls already running
// keep the snapshot they started with. An invalid result is rejected and
// nothing changes.
func (c *Calculator) UpdateOptions(p Patch) (Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := p.Apply(c.cfg)
	if err := next.Validate(); err != nil {
		return c.cfg.clone(), err
	}
	c.cfg = next
	c.logger.Info("options updated",
		zap.Bool("useLocalTime", next.UseLocalTime),
		zap.Bool("useDST", next.UseDST),
		zap.Bool("useHistoricalDST", next.UseHistoricalDST),
		zap.Bool("useStandardTimeZone", next.UseStandardTimeZone),
		zap.Bool("useSecondsPrecision", next.UseSecondsPrecision),
		zap.Bool("useInternationalMode", next.UseInternationalMode),
		zap.Float64("referenceStandardMeridian", next.ReferenceStandardMeridian))
	return next.clone(), nil
}

// Calculate runs the pipeline under a snapshot of the current options. A
// zero query falls back to the default location.
func (c *Calculator) Calculate(date time.Time, hour float64, gender Gender, q location.Query) (*Result, error) {
	return c.CalculateInput(Input{BirthDate: date, BirthHour: hour, Gender: gender, Location: q})
}

// CalculateInput is Calculate for a prepared Input.
func (c *Calculator) CalculateInput(in Input) (*Result, error) {
	return c.CalculateWith(in, Patch{})
}

// CalculateWith runs one call with p merged over the current options. The
// stored options are not changed.
func (c *Calculator) CalculateWith(in Input, p Patch) (*Result, error) {
	if in.Location.IsZero() {
		in.Location = c.defaultLocation
	}
	cfg := p.Apply(c.Options())

	res, err := calculate(in, cfg, c.resolver, c.logger)
	if err != nil {
		c.logger.Debug("calculation rejected", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// ResolveLocation places q with the calculator's resolver.
func (c *Calculator) ResolveLocation(q location.Query) location.Location {
	return c.resolver.Resolve(q)
}

// CurrentSaju charts the present moment at the default location.
func (c *Calculator) CurrentSaju(gender Gender) (*Result, error) {
	now := c.now()
	if k, ok := c.resolver.Resolve(c.defaultLocation).(location.Known); ok {
		if tz, err := time.LoadLocation(k.TimeZone); err == nil {
			now = now.In(tz)
		}
	}
	return c.CalculateInput(Input{
		BirthDate: now,
		BirthHour: DecimalHour(now),
		Gender:    gender,
		Location:  c.defaultLocation,
	})
}
