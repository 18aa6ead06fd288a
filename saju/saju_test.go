package saju_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/pattern"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/saju"
	"github.com/warp/saju-engine/sexagenary"
	"github.com/warp/saju-engine/solartime"
	"github.com/warp/saju-engine/tengod"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func referenceInput() saju.Input {
	return saju.Input{
		BirthDate: time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC),
		BirthHour: 13,
		Gender:    saju.Male,
		Location:  location.ByName("Tokyo, Japan"),
	}
}

var resultOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.AllowUnexported(tengod.Counts{}, tengod.ElementProfile{}),
}

// =============================================================================
// REFERENCE SCENARIO
// =============================================================================

func TestCalculate_ReferenceScenario(t *testing.T) {
	// GIVEN 1990-01-15 13:00, male, Tokyo, default options
	res, err := saju.Calculate(referenceInput(), saju.DefaultConfig())
	require.NoError(t, err)

	// THEN the pillars are 己巳 丁丑 庚辰 癸未
	fp := res.FourPillars
	assert.Equal(t, "己巳", fp[pillars.Year].Label())
	assert.Equal(t, "丁丑", fp[pillars.Month].Label())
	assert.Equal(t, "庚辰", fp[pillars.Day].Label())
	assert.Equal(t, "癸未", fp[pillars.Hour].Label())

	// AND the day pillar carries 比肩 with the day master marker
	assert.Equal(t, sexagenary.Hiken, fp[pillars.Day].StemTenGod)
	assert.True(t, fp[pillars.Day].IsDayMaster)
	assert.Equal(t, sexagenary.Seiin, fp[pillars.Year].StemTenGod)
	assert.Equal(t, sexagenary.Seikan, fp[pillars.Month].StemTenGod)
	assert.Equal(t, sexagenary.Shougan, fp[pillars.Hour].StemTenGod)

	// AND the clock moved +19 minutes for longitude only
	d := res.TimezoneInfo.Details
	assert.Equal(t, 19, d.LongitudeBasedAdjustment)
	assert.Equal(t, 19, d.TotalAdjustmentMinutes)
	assert.Equal(t, time.Date(1990, time.January, 15, 13, 19, 0, 0, time.UTC), res.ProcessedDateTime)
	assert.True(t, res.TimezoneInfo.HasPoliticalTimeZone)

	assert.Equal(t, pattern.Injyu, res.Kakukyoku.Type)
	assert.Equal(t, pattern.Neutral, res.Kakukyoku.Strength)
	assert.Equal(t, sexagenary.GroupIn, res.Yojin.TenGod)
	assert.Equal(t, sexagenary.Earth, res.Yojin.Element)
	assert.True(t, decimal.RequireFromString("11.4").Equal(res.TenGods.Total()))
	assert.Empty(t, res.Combinations)
	assert.Equal(t, location.KindKnown, res.Location.Kind)
	assert.Equal(t, 1989, res.SolarTerm.Year)
	assert.Equal(t, "小寒", res.SolarTerm.MonthTerm)
	assert.False(t, res.Luck.Forward)
	assert.Equal(t, "丙子", res.Luck.Pillars[0].Label)
}

func TestCalculate_HistoricalDST1950(t *testing.T) {
	in := referenceInput()
	in.BirthDate = time.Date(1950, time.July, 1, 0, 0, 0, 0, time.UTC)
	in.BirthHour = 12

	on, err := saju.Calculate(in, saju.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, on.TimezoneInfo.IsDST)
	assert.Equal(t, -60, on.TimezoneInfo.Details.DSTAdjustment)

	cfg := saju.DefaultConfig()
	cfg.UseHistoricalDST = false
	off, err := saju.Calculate(in, cfg)
	require.NoError(t, err)
	assert.False(t, off.TimezoneInfo.IsDST)
	assert.Equal(t, 0, off.TimezoneInfo.Details.DSTAdjustment)
}

func TestCalculate_LuckFollowsCastMonthPillar(t *testing.T) {
	// GIVEN 1986-03-08 00:00 Tokyo, where 丙 year and 辛 month combine into water
	in := referenceInput()
	in.BirthDate = time.Date(1986, time.March, 8, 0, 0, 0, 0, time.UTC)
	in.BirthHour = 0

	res, err := saju.Calculate(in, saju.DefaultConfig())
	require.NoError(t, err)

	// THEN the month shows the combined stem
	month := res.FourPillars[pillars.Month]
	assert.Equal(t, "癸卯", month.Label())
	require.NotNil(t, month.OriginalStem)
	assert.Equal(t, sexagenary.Xin, *month.OriginalStem)

	// AND the luck sequence steps forward from the natal 辛卯
	assert.True(t, res.Luck.Forward)
	assert.Equal(t, "壬辰", res.Luck.Pillars[0].Label)
	assert.Equal(t, "癸巳", res.Luck.Pillars[1].Label)
}

func TestCalculate_UnresolvedLocationStillCalculates(t *testing.T) {
	in := referenceInput()
	in.Location = location.ByName("Atlantis")

	res, err := saju.Calculate(in, saju.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, location.KindUnresolved, res.Location.Kind)
	assert.False(t, res.TimezoneInfo.HasPoliticalTimeZone)
	assert.Equal(t, 0, res.TimezoneInfo.Details.TotalAdjustmentMinutes)
}

// =============================================================================
// INPUT ERRORS
// =============================================================================

func TestCalculate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*saju.Input)
		field string
	}{
		{"year too early", func(in *saju.Input) { in.BirthDate = time.Date(1799, 12, 31, 0, 0, 0, 0, time.UTC) }, "birthDate"},
		{"year too late", func(in *saju.Input) { in.BirthDate = time.Date(2201, 1, 1, 0, 0, 0, 0, time.UTC) }, "birthDate"},
		{"negative hour", func(in *saju.Input) { in.BirthHour = -0.5 }, "birthHour"},
		{"hour 24", func(in *saju.Input) { in.BirthHour = 24 }, "birthHour"},
		{"gender", func(in *saju.Input) { in.Gender = "X" }, "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			tt.edit(&in)

			res, err := saju.Calculate(in, saju.DefaultConfig())

			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, saju.IsInputError(err))
			var ie *saju.InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestCalculate_RejectsBadConfig(t *testing.T) {
	cfg := saju.DefaultConfig()
	cfg.ReferenceStandardMeridian = 200

	_, err := saju.Calculate(referenceInput(), cfg)

	assert.ErrorIs(t, err, saju.ErrInvalidConfig)
	assert.True(t, saju.IsClientError(err))
	assert.False(t, saju.IsInputError(err))
}

func TestParseGender(t *testing.T) {
	g, err := saju.ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, saju.Female, g)

	_, err = saju.ParseGender("?")
	assert.True(t, saju.IsInputError(err))
}

func TestInput_ClockFromDecimalHour(t *testing.T) {
	in := referenceInput()
	in.BirthHour = 13.5
	assert.Equal(t, time.Date(1990, time.January, 15, 13, 30, 0, 0, time.UTC), in.Clock())

	in.BirthHour = 23.99999999
	assert.Equal(t, time.Date(1990, time.January, 15, 23, 59, 59, 0, time.UTC), in.Clock())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestCalculate_Deterministic(t *testing.T) {
	first, err := saju.Calculate(referenceInput(), saju.DefaultConfig())
	require.NoError(t, err)
	second, err := saju.Calculate(referenceInput(), saju.DefaultConfig())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, resultOpts); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCalculate_SweepInvariants(t *testing.T) {
	cfgs := map[string]saju.Config{"default": saju.DefaultConfig()}
	intl := saju.DefaultConfig()
	intl.UseInternationalMode = true
	intl.UseSecondsPrecision = true
	cfgs["international"] = intl

	places := []location.Query{
		location.ByName("Tokyo"),
		location.ByName("Seoul"),
		location.ByName("New York"),
		location.ByCoordinates(0, -30),
		location.ByName("Atlantis"),
	}

	for name, cfg := range cfgs {
		for day := time.Date(1948, time.January, 3, 0, 0, 0, 0, time.UTC); day.Year() < 2030; day = day.AddDate(0, 0, 97) {
			for i, q := range places {
				in := saju.Input{BirthDate: day, BirthHour: float64((day.Day() + 5*i) % 24), Gender: saju.Female, Location: q}

				res, err := saju.Calculate(in, cfg)
				require.NoError(t, err)

				d := res.TimezoneInfo.Details
				require.Equal(t, d.PoliticalTimeZoneAdjustment+d.LongitudeBasedAdjustment+d.DSTAdjustment+d.RegionalAdjustment,
					d.TotalAdjustmentMinutes, "%s %s %s", name, day, q)

				for _, g := range sexagenary.TenGodGroups {
					m := g.Members()
					require.True(t, res.TenGods.Get(g).Equal(res.TenGods.Get(m[0]).Add(res.TenGods.Get(m[1]))))
				}

				require.True(t, res.Kakukyoku.Type.Valid(), "%s %s", name, day)
				require.NotEmpty(t, res.Kakukyoku.Type.String())
				require.GreaterOrEqual(t, sexagenary.CycleIndex(res.FourPillars[pillars.Day].Stem, res.FourPillars[pillars.Day].Branch), 0)
			}
		}
	}
}

// =============================================================================
// CALCULATOR
// =============================================================================

func TestCalculator_UpdateOptionsAffectsLaterCalls(t *testing.T) {
	calc := saju.NewCalculator()
	in := referenceInput()

	before, err := calc.CalculateInput(in)
	require.NoError(t, err)
	assert.Equal(t, 19, before.TimezoneInfo.Details.LongitudeBasedAdjustment)

	off := false
	cfg, err := calc.UpdateOptions(saju.Patch{UseLocalTime: &off})
	require.NoError(t, err)
	assert.False(t, cfg.UseLocalTime)
	assert.True(t, cfg.UseDST, "untouched fields keep their value")

	after, err := calc.CalculateInput(in)
	require.NoError(t, err)
	assert.Equal(t, 0, after.TimezoneInfo.Details.LongitudeBasedAdjustment)
	assert.Equal(t, 19, before.TimezoneInfo.Details.LongitudeBasedAdjustment, "earlier results are not touched")
}

func TestCalculator_RejectedPatchLeavesOptions(t *testing.T) {
	calc := saju.NewCalculator()
	bad := 500.0

	_, err := calc.UpdateOptions(saju.Patch{ReferenceStandardMeridian: &bad})

	assert.ErrorIs(t, err, saju.ErrInvalidConfig)
	assert.Equal(t, saju.DefaultConfig().ReferenceStandardMeridian, calc.Options().ReferenceStandardMeridian)
}

func TestCalculator_OptionsIsACopy(t *testing.T) {
	cfg := saju.DefaultConfig()
	cfg.RegionalAdjustments = []solartime.RegionalAdjustment{{TimeZone: "Asia/Tokyo", Minutes: 1}}
	calc := saju.NewCalculator(saju.WithConfig(cfg))

	got := calc.Options()
	got.RegionalAdjustments[0].Minutes = 99

	assert.Equal(t, 1, calc.Options().RegionalAdjustments[0].Minutes)
}

func TestCalculator_ZeroLocationUsesDefault(t *testing.T) {
	calc := saju.NewCalculator(saju.WithDefaultLocation(location.ByName("Osaka")))

	res, err := calc.Calculate(time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC), 13, saju.Female, location.Query{})

	require.NoError(t, err)
	assert.Equal(t, "Osaka", res.Location.Name)
}

func TestCalculator_CurrentSajuUsesClock(t *testing.T) {
	fixed := time.Date(1990, time.January, 15, 4, 0, 0, 0, time.UTC) // 13:00 JST
	calc := saju.NewCalculator(saju.WithClock(func() time.Time { return fixed }))

	res, err := calc.CurrentSaju(saju.Male)

	require.NoError(t, err)
	assert.Equal(t, "癸未", res.FourPillars[pillars.Hour].Label())
	assert.Equal(t, "庚辰", res.FourPillars[pillars.Day].Label())
}

func TestCalculator_ConcurrentCallsAndUpdates(t *testing.T) {
	calc := saju.NewCalculator()
	var g errgroup.Group

	for i := 0; i < 16; i++ {
		g.Go(func() error {
			res, err := calc.CalculateInput(referenceInput())
			if err != nil {
				return err
			}
			if got := res.FourPillars[pillars.Day].Label(); got != "庚辰" {
				return errors.New("unexpected day pillar " + got)
			}
			return nil
		})
	}
	for i := 0; i < 4; i++ {
		seconds := i%2 == 0
		g.Go(func() error {
			_, err := calc.UpdateOptions(saju.Patch{UseSecondsPrecision: &seconds})
			return err
		})
	}

	require.NoError(t, g.Wait())
}

func TestCalculator_LogsOptionUpdates(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	calc := saju.NewCalculator(saju.WithLogger(zap.New(core)))

	on := true
	_, err := calc.UpdateOptions(saju.Patch{UseInternationalMode: &on})
	require.NoError(t, err)

	entries := logs.FilterMessage("options updated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["useInternationalMode"])
}

func TestCalculator_CalculateWithLeavesOptions(t *testing.T) {
	// GIVEN: A calculator with default options
	calc := saju.NewCalculator()
	off := false

	// WHEN: One call disables the longitude correction
	res, err := calc.CalculateWith(referenceInput(), saju.Patch{UseLocalTime: &off})
	require.NoError(t, err)

	// THEN: That call sees it and the stored options do not
	assert.Equal(t, 0, res.TimezoneInfo.Details.LongitudeBasedAdjustment)
	assert.True(t, calc.Options().UseLocalTime)

	again, err := calc.CalculateInput(referenceInput())
	require.NoError(t, err)
	assert.Equal(t, 19, again.TimezoneInfo.Details.LongitudeBasedAdjustment)
}

func TestCalculator_ResolveLocation(t *testing.T) {
	calc := saju.NewCalculator()

	known, ok := calc.ResolveLocation(location.ByName("Sapporo")).(location.Known)
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", known.TimeZone)

	_, ok = calc.ResolveLocation(location.ByName("Atlantis")).(location.Unresolved)
	assert.True(t, ok)
}

func TestPatch_MergePrefersLater(t *testing.T) {
	on, off := true, false
	m := 120.0
	a := saju.Patch{UseDST: &on, UseLocalTime: &on}
	b := saju.Patch{UseDST: &off, ReferenceStandardMeridian: &m}

	cfg := a.Merge(b).Apply(saju.DefaultConfig())

	assert.False(t, cfg.UseDST)
	assert.True(t, cfg.UseLocalTime)
	assert.Equal(t, 120.0, cfg.ReferenceStandardMeridian)
	assert.True(t, saju.Patch{}.Merge(saju.Patch{}).IsEmpty())
}
