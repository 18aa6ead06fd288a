package solartime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/solartime"
)

var tokyo = location.Known{
	Name:        "Tokyo",
	Country:     "Japan",
	Coordinates: location.Coordinates{Latitude: 35.6895, Longitude: 139.6917},
	TimeZone:    "Asia/Tokyo",
}

var newYork = location.Known{
	Name:        "New York",
	Country:     "United States",
	Coordinates: location.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
	TimeZone:    "America/New_York",
}

func defaults() solartime.Options {
	return solartime.Options{
		UseStandardTimeZone:       true,
		UseDST:                    true,
		UseHistoricalDST:          true,
		UseLocalTime:              true,
		ReferenceStandardMeridian: solartime.DefaultReferenceMeridian,
	}
}

func clock(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func assertAdditive(t *testing.T, d solartime.Details) {
	t.Helper()
	assert.Equal(t,
		d.PoliticalTimeZoneAdjustment+d.LongitudeBasedAdjustment+d.DSTAdjustment+d.RegionalAdjustment,
		d.TotalAdjustmentMinutes)
}

// =============================================================================
// LONGITUDE
// =============================================================================

func TestAdjust_TokyoLongitude(t *testing.T) {
	// GIVEN Tokyo at 139.6917°E against the 135° reference meridian
	res := solartime.Adjust(clock(1990, time.January, 15, 13, 0), tokyo, defaults())

	// THEN only the longitude stage moves the clock, by +19 minutes
	d := res.Info.Details
	assert.Equal(t, 0, d.PoliticalTimeZoneAdjustment)
	assert.Equal(t, 19, d.LongitudeBasedAdjustment)
	assert.Equal(t, 0, d.DSTAdjustment)
	assert.Equal(t, 0, d.RegionalAdjustment)
	assert.Equal(t, 19, d.TotalAdjustmentMinutes)
	assert.Equal(t, clock(1990, time.January, 15, 13, 19), res.Adjusted)

	assert.True(t, res.Info.HasPoliticalTimeZone)
	assert.Equal(t, "Asia/Tokyo", res.Info.PoliticalTimeZone)
	assert.Equal(t, 540, res.Info.TimeZoneOffsetMinutes)
	assert.False(t, res.Info.IsDST)
}

func TestAdjust_LocalTimeDisabled(t *testing.T) {
	opts := defaults()
	opts.UseLocalTime = false

	res := solartime.Adjust(clock(1990, time.January, 15, 13, 0), tokyo, opts)

	assert.Equal(t, 0, res.Info.Details.TotalAdjustmentMinutes)
	assert.Equal(t, clock(1990, time.January, 15, 13, 0), res.Adjusted)
}

func TestAdjust_SecondsPrecision(t *testing.T) {
	opts := defaults()
	opts.UseSecondsPrecision = true

	res := solartime.Adjust(clock(1990, time.January, 15, 13, 0), tokyo, opts)

	// 4.6917° x 240 s = 1126.008 s
	assert.Equal(t, 1126, res.Info.Details.LongitudeBasedAdjustmentSeconds)
	assert.Equal(t, 1126, res.Info.Details.TotalAdjustmentSeconds)
	assert.Equal(t, time.Date(1990, time.January, 15, 13, 18, 46, 0, time.UTC), res.Adjusted)
	assertAdditive(t, res.Info.Details)
}

func TestAdjust_InstantIsCloseToRealUTC(t *testing.T) {
	res := solartime.Adjust(clock(1990, time.January, 15, 13, 0), tokyo, defaults())

	want := time.Date(1990, time.January, 15, 4, 0, 0, 0, time.UTC)
	assert.WithinDuration(t, want, res.Instant(), time.Minute)
}

// =============================================================================
// DST
// =============================================================================

func TestAdjust_HistoricalDST1950(t *testing.T) {
	at := clock(1950, time.July, 1, 12, 0)

	t.Run("enabled", func(t *testing.T) {
		res := solartime.Adjust(at, tokyo, defaults())
		assert.True(t, res.Info.IsDST)
		assert.Equal(t, -60, res.Info.Details.DSTAdjustment)
		assert.Equal(t, 600, res.Info.TimeZoneOffsetMinutes)
		assertAdditive(t, res.Info.Details)
	})

	t.Run("disabled", func(t *testing.T) {
		opts := defaults()
		opts.UseHistoricalDST = false

		res := solartime.Adjust(at, tokyo, opts)
		assert.False(t, res.Info.IsDST)
		assert.Equal(t, 0, res.Info.Details.DSTAdjustment)
		assert.Equal(t, 540, res.Info.TimeZoneOffsetMinutes)
	})
}

func TestAdjust_HistoricalWindowEdges(t *testing.T) {
	tests := []struct {
		name  string
		at    time.Time
		isDST bool
	}{
		{"day before start", clock(1950, time.May, 6, 23, 59), false},
		{"start", clock(1950, time.May, 7, 0, 0), true},
		{"repeated hour", clock(1950, time.September, 10, 0, 30), true},
		{"after repeated hour", clock(1950, time.September, 10, 1, 0), false},
		{"winter same year", clock(1950, time.December, 1, 12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := solartime.Adjust(tt.at, tokyo, defaults())
			assert.Equal(t, tt.isDST, res.Info.IsDST)
		})
	}
}

func TestAdjust_TzdataDST(t *testing.T) {
	// GIVEN a summer reading in New York under international mode
	opts := defaults()
	opts.UseInternationalMode = true

	res := solartime.Adjust(clock(2000, time.July, 1, 12, 0), newYork, opts)

	assert.True(t, res.Info.IsDST)
	assert.Equal(t, -60, res.Info.Details.DSTAdjustment)
	assert.Equal(t, -240, res.Info.TimeZoneOffsetMinutes)
	assert.Equal(t, -75.0, res.Info.FrameMeridian)
}

func TestAdjust_DSTDisabled(t *testing.T) {
	opts := defaults()
	opts.UseDST = false

	res := solartime.Adjust(clock(2000, time.July, 1, 12, 0), newYork, opts)

	assert.False(t, res.Info.IsDST)
	assert.Equal(t, 0, res.Info.Details.DSTAdjustment)
}

// =============================================================================
// FRAMES
// =============================================================================

func TestAdjust_FramesAgreeOnLocalMeanTime(t *testing.T) {
	at := clock(2000, time.January, 15, 12, 0)

	ref := solartime.Adjust(at, newYork, defaults())
	intlOpts := defaults()
	intlOpts.UseInternationalMode = true
	intl := solartime.Adjust(at, newYork, intlOpts)

	// reference: 840 political, -836 longitude; international: 0 and +4
	assert.Equal(t, 840, ref.Info.Details.PoliticalTimeZoneAdjustment)
	assert.Equal(t, -836, ref.Info.Details.LongitudeBasedAdjustment)
	assert.Equal(t, 0, intl.Info.Details.PoliticalTimeZoneAdjustment)
	assert.Equal(t, 4, intl.Info.Details.LongitudeBasedAdjustment)

	assert.Equal(t, intl.Adjusted, ref.Adjusted)
	assert.Equal(t, intl.Instant(), ref.Instant())
}

// =============================================================================
// LOCATION VARIANTS
// =============================================================================

func TestAdjust_LongitudeOnly(t *testing.T) {
	loc := location.LongitudeOnly{Coordinates: location.Coordinates{Latitude: 0, Longitude: -33}}

	res := solartime.Adjust(clock(2000, time.January, 1, 12, 0), loc, defaults())

	assert.False(t, res.Info.HasPoliticalTimeZone)
	assert.Equal(t, 0, res.Info.Details.PoliticalTimeZoneAdjustment)
	assert.Equal(t, -12, res.Info.Details.LongitudeBasedAdjustment)
	assert.Equal(t, -30.0, res.Info.FrameMeridian)
	assertAdditive(t, res.Info.Details)
}

func TestAdjust_UnresolvedIsZero(t *testing.T) {
	at := clock(2000, time.January, 1, 12, 0)

	res := solartime.Adjust(at, location.Unresolved{Query: "Atlantis"}, defaults())

	assert.Equal(t, solartime.Details{}, res.Info.Details)
	assert.False(t, res.Info.HasPoliticalTimeZone)
	assert.Empty(t, res.Info.PoliticalTimeZone)
	assert.Equal(t, at, res.Adjusted)
}

func TestAdjust_UnknownZoneDegradesToLongitude(t *testing.T) {
	loc := tokyo
	loc.TimeZone = "Mars/Olympus"

	res := solartime.Adjust(clock(1990, time.January, 15, 13, 0), loc, defaults())

	assert.False(t, res.Info.HasPoliticalTimeZone)
	assert.Equal(t, 135.0, res.Info.FrameMeridian)
	assert.Equal(t, 19, res.Info.Details.LongitudeBasedAdjustment)
}

// =============================================================================
// REGIONAL
// =============================================================================

func TestAdjust_RegionalTable(t *testing.T) {
	opts := defaults()
	opts.RegionalAdjustments = []solartime.RegionalAdjustment{
		{TimeZone: "Asia/Tokyo", From: clock(1989, time.January, 1, 0, 0), To: clock(1991, time.January, 1, 0, 0), Minutes: 3},
		{TimeZone: "Asia/Seoul", From: clock(1900, time.January, 1, 0, 0), Minutes: 30},
		{TimeZone: "Asia/Tokyo", From: clock(2000, time.January, 1, 0, 0), Minutes: 7},
	}

	res := solartime.Adjust(clock(1990, time.January, 15, 13, 0), tokyo, opts)

	assert.Equal(t, 3, res.Info.Details.RegionalAdjustment)
	assert.Equal(t, 22, res.Info.Details.TotalAdjustmentMinutes)
	assertAdditive(t, res.Info.Details)
}

func TestAdjust_LocalMeanTimeEraCancels(t *testing.T) {
	// GIVEN a reading from before Japan adopted standard time
	at := clock(1880, time.June, 1, 12, 0)

	for _, seconds := range []bool{false, true} {
		opts := defaults()
		opts.UseSecondsPrecision = seconds

		res := solartime.Adjust(at, tokyo, opts)

		// THEN the clock already was local mean time
		require.True(t, res.Info.LocalMeanTimeEra)
		assert.Equal(t, 0, res.Info.Details.TotalAdjustmentMinutes)
		assert.NotZero(t, res.Info.Details.RegionalAdjustment)
		assert.Equal(t, 0, res.Info.Details.TotalAdjustmentSeconds)
		assert.Equal(t, at, res.Adjusted)
		assertAdditive(t, res.Info.Details)
	}
}

func TestHistoricalWindows_ReturnsCopy(t *testing.T) {
	w := solartime.HistoricalWindows()
	require.Len(t, w, 4)
	w[0].DeltaMinutes = 0
	assert.Equal(t, 60, solartime.HistoricalWindows()[0].DeltaMinutes)
}
