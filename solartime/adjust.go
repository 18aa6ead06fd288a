/*
Package solartime turns a civil clock reading at a place into the adjusted
wall time the pillars are cast from.

PURPOSE:
  A birth certificate records what the clock on the wall said. The chart
  needs the sun's position: local mean solar time. The gap between the two
  is the sum of four independent corrections, each reported separately.

PIPELINE (strictly ordered, each stage toggled by Options):
  1. Political  - standard UTC offset of the zone on that date

  2. DST        - tzdata summer time, or the historical window table

  3. Longitude  - round((longitude - meridian) x 4) minutes

  4. Regional   - residual table, plus local-mean-time era cancellation

    total = political + dst + longitude + regional

FRAMES:
  Reference mode (default): every chart is expressed against one reference
  meridian (135°E, JST). political = meridian x 4 - standard offset.
  International mode: each clock is read in its own zone. political = 0 and
  the longitude stage measures from the zone's own standard meridian.
  Both modes land on the same local mean time; only the split differs.

LOCATION VARIANTS:
  Known          all four stages
  LongitudeOnly  political = 0, longitude from the nautical meridian
  Unresolved     everything zero, HasPoliticalTimeZone = false

SEE ALSO:
  - dst.go:      historical windows, standard/DST split
  - regional.go: residual corrections
*/
package solartime

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/saju-engine/location"
)

// =============================================================================
// OPTIONS & RESULT
// =============================================================================

// DefaultReferenceMeridian is the JST meridian.
const DefaultReferenceMeridian = 135.0

// Options toggles each stage. The zero value disables every stage.
type Options struct {
	UseStandardTimeZone       bool
	UseDST                    bool
	UseHistoricalDST          bool
	UseLocalTime              bool
	UseSecondsPrecision       bool
	UseInternationalMode      bool
	ReferenceStandardMeridian float64
	RegionalAdjustments       []RegionalAdjustment
}

// Details reports every stage in signed minutes. Total is always the sum of
// the four stage values.
type Details struct {
	PoliticalTimeZoneAdjustment int `json:"politicalTimeZoneAdjustment"`
	LongitudeBasedAdjustment    int `json:"longitudeBasedAdjustment"`
	DSTAdjustment               int `json:"dstAdjustment"`
	RegionalAdjustment          int `json:"regionalAdjustment"`
	TotalAdjustmentMinutes      int `json:"totalAdjustmentMinutes"`

	// Populated with seconds precision only.
	LongitudeBasedAdjustmentSeconds int `json:"longitudeBasedAdjustmentSeconds,omitempty"`
	TotalAdjustmentSeconds          int `json:"totalAdjustmentSeconds,omitempty"`
}

// Info is recomputed for every call.
type Info struct {
	PoliticalTimeZone     string  `json:"politicalTimeZone,omitempty"`
	HasPoliticalTimeZone  bool    `json:"hasPoliticalTimeZone"`
	IsDST                 bool    `json:"isDST"`
	TimeZoneOffsetMinutes int     `json:"timeZoneOffsetMinutes"`
	FrameMeridian         float64 `json:"frameMeridian"`
	LocalMeanTimeEra      bool    `json:"localMeanTimeEra,omitempty"`
	Details               Details `json:"adjustmentDetails"`
}

// Result is the adjusted wall time plus its best-effort UTC instant.
type Result struct {
	// Adjusted is a wall-clock reading held in a UTC-located time.Time; only
	// its fields are meaningful.
	Adjusted time.Time
	// FrameOffset is the UTC offset of the frame Adjusted is expressed in.
	FrameOffset time.Duration
	Info        Info
}

// Instant converts the adjusted wall time back to a real instant.
func (r Result) Instant() time.Time { return r.Adjusted.Add(-r.FrameOffset) }

// =============================================================================
// ADJUST
// =============================================================================

// Adjust runs the pipeline. clock is the civil wall time at the place, held
// in a UTC-located time.Time.
func Adjust(clock time.Time, loc location.Location, opts Options) Result {
	ref := opts.ReferenceStandardMeridian
	var (
		info      Info
		political int
		dst       int
		lonSec    int
		meridian  = ref
		lon       float64
		hasLon    bool
		zone      string
		zoned     time.Time
	)

	switch l := loc.(type) {
	case location.Known:
		tz, err := time.LoadLocation(l.TimeZone)
		if err != nil {
			return Adjust(clock, location.LongitudeOnly{Coordinates: l.Coordinates}, opts)
		}
		zone = l.TimeZone
		zoned = time.Date(clock.Year(), clock.Month(), clock.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, tz)
		lon, hasLon = l.Coordinates.Longitude, true
		info.PoliticalTimeZone = zone
		info.HasPoliticalTimeZone = true

		stdSec, deltaSec := splitOffset(zoned)
		std := stdSec / 60

		if historicalCoverage(zone, clock) {
			if w, ok := historicalDST(zone, clock); ok && opts.UseDST && opts.UseHistoricalDST {
				info.IsDST = true
				dst = -w.DeltaMinutes
			}
		} else if opts.UseDST && deltaSec != 0 {
			info.IsDST = true
			dst = -deltaSec / 60
		}
		info.TimeZoneOffsetMinutes = std - dst

		if opts.UseStandardTimeZone {
			if opts.UseInternationalMode {
				meridian = float64(std) / 4
			} else {
				political = roundMinutes(decimal.NewFromFloat(ref).Mul(decimal.NewFromInt(4))) - std
			}
		}

	case location.LongitudeOnly:
		lon, hasLon = l.Coordinates.Longitude, true
		meridian = math.Round(lon/15) * 15

	case location.Unresolved:
		// no political data; every stage stays zero

	default:
		panic(fmt.Sprintf("solartime: unexpected location variant %T", loc))
	}

	lonMin := 0
	if opts.UseLocalTime && hasLon {
		delta := decimal.NewFromFloat(lon).Sub(decimal.NewFromFloat(meridian))
		lonMin = roundMinutes(delta.Mul(decimal.NewFromInt(4)))
		lonSec = roundMinutes(delta.Mul(decimal.NewFromInt(240)))
	}

	regional := 0
	regionalSec := 0
	if zone != "" {
		var lmt bool
		regional, lmt = regionalMinutes(zone, clock, zoned, opts.RegionalAdjustments, political+dst+lonMin)
		regionalSec = regional * 60
		if lmt {
			info.LocalMeanTimeEra = true
			regionalSec = -((political+dst)*60 + lonSec)
		}
	}

	info.FrameMeridian = meridian
	info.Details = Details{
		PoliticalTimeZoneAdjustment: political,
		LongitudeBasedAdjustment:    lonMin,
		DSTAdjustment:               dst,
		RegionalAdjustment:          regional,
		TotalAdjustmentMinutes:      political + lonMin + dst + regional,
	}

	var adjusted time.Time
	if opts.UseSecondsPrecision {
		totalSec := (political+dst)*60 + lonSec + regionalSec
		info.Details.LongitudeBasedAdjustmentSeconds = lonSec
		info.Details.TotalAdjustmentSeconds = totalSec
		adjusted = clock.Add(time.Duration(totalSec) * time.Second)
	} else {
		adjusted = clock.Add(time.Duration(info.Details.TotalAdjustmentMinutes) * time.Minute).Truncate(time.Minute)
	}

	// The adjusted reading is local mean time when the longitude stage ran,
	// otherwise it is clock time of the meridian frame.
	frame := meridian
	if opts.UseLocalTime && hasLon {
		frame = lon
	}
	if info.LocalMeanTimeEra {
		frame = lon
	}

	return Result{
		Adjusted:    adjusted,
		FrameOffset: time.Duration(frame * 4 * float64(time.Minute)),
		Info:        info,
	}
}

// roundMinutes rounds half away from zero, matching Math.round for the
// positive offsets that dominate and staying symmetric for western longitudes.
func roundMinutes(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}
