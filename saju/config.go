package saju

import (
	"math"

	"github.com/warp/saju-engine/solartime"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config is the immutable option set a calculation runs under.
type Config struct {
	UseLocalTime              bool                           `json:"useLocalTime" yaml:"use_local_time"`
	UseDST                    bool                           `json:"useDST" yaml:"use_dst"`
	UseHistoricalDST          bool                           `json:"useHistoricalDST" yaml:"use_historical_dst"`
	UseStandardTimeZone       bool                           `json:"useStandardTimeZone" yaml:"use_standard_time_zone"`
	UseSecondsPrecision       bool                           `json:"useSecondsPrecision" yaml:"use_seconds_precision"`
	ReferenceStandardMeridian float64                        `json:"referenceStandardMeridian" yaml:"reference_standard_meridian"`
	UseInternationalMode      bool                           `json:"useInternationalMode" yaml:"use_international_mode"`
	RegionalAdjustments       []solartime.RegionalAdjustment `json:"regionalAdjustments,omitempty" yaml:"regional_adjustments,omitempty"`
}

// DefaultConfig corrects for zone, summer time (historical windows included)
// and longitude against the JST meridian, to the minute.
func DefaultConfig() Config {
	return Config{
		UseLocalTime:              true,
		UseDST:                    true,
		UseHistoricalDST:          true,
		UseStandardTimeZone:       true,
		UseSecondsPrecision:       false,
		ReferenceStandardMeridian: solartime.DefaultReferenceMeridian,
		UseInternationalMode:      false,
	}
}

// Validate checks the numeric options.
func (c Config) Validate() error {
	m := c.ReferenceStandardMeridian
	if math.IsNaN(m) || m < -180 || m > 180 {
		return &ConfigError{Field: "referenceStandardMeridian", Reason: "must be within [-180, 180]"}
	}
	for _, r := range c.RegionalAdjustments {
		if r.TimeZone == "" {
			return &ConfigError{Field: "regionalAdjustments", Reason: "every entry needs a time zone"}
		}
		if !r.To.IsZero() && !r.To.After(r.From) {
			return &ConfigError{Field: "regionalAdjustments", Reason: "entry for " + r.TimeZone + " ends before it starts"}
		}
	}
	return nil
}

// clone copies the slice so callers cannot reach into engine state.
func (c Config) clone() Config {
	if c.RegionalAdjustments != nil {
		c.RegionalAdjustments = append([]solartime.RegionalAdjustment(nil), c.RegionalAdjustments...)
	}
	return c
}

func (c Config) solarOptions() solartime.Options {
	return solartime.Options{
		UseStandardTimeZone:       c.UseStandardTimeZone,
		UseDST:                    c.UseDST,
		UseHistoricalDST:          c.UseHistoricalDST,
		UseLocalTime:              c.UseLocalTime,
		UseSecondsPrecision:       c.UseSecondsPrecision,
		UseInternationalMode:      c.UseInternationalMode,
		ReferenceStandardMeridian: c.ReferenceStandardMeridian,
		RegionalAdjustments:       c.RegionalAdjustments,
	}
}

// =============================================================================
// PATCH - Partial updates
// =============================================================================

// Patch is a partial Config. Nil fields are left alone.
type Patch struct {
	UseLocalTime              *bool                           `json:"useLocalTime,omitempty" yaml:"use_local_time"`
	UseDST                    *bool                           `json:"useDST,omitempty" yaml:"use_dst"`
	UseHistoricalDST          *bool                           `json:"useHistoricalDST,omitempty" yaml:"use_historical_dst"`
	UseStandardTimeZone       *bool                           `json:"useStandardTimeZone,omitempty" yaml:"use_standard_time_zone"`
	UseSecondsPrecision       *bool                           `json:"useSecondsPrecision,omitempty" yaml:"use_seconds_precision"`
	ReferenceStandardMeridian *float64                        `json:"referenceStandardMeridian,omitempty" yaml:"reference_standard_meridian"`
	UseInternationalMode      *bool                           `json:"useInternationalMode,omitempty" yaml:"use_international_mode"`
	RegionalAdjustments       *[]solartime.RegionalAdjustment `json:"regionalAdjustments,omitempty" yaml:"regional_adjustments,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool { return p == Patch{} }

// Apply merges the patch over c.
func (p Patch) Apply(c Config) Config {
	c = c.clone()
	setBool(&c.UseLocalTime, p.UseLocalTime)
	setBool(&c.UseDST, p.UseDST)
	setBool(&c.UseHistoricalDST, p.UseHistoricalDST)
	setBool(&c.UseStandardTimeZone, p.UseStandardTimeZone)
	setBool(&c.UseSecondsPrecision, p.UseSecondsPrecision)
	setBool(&c.UseInternationalMode, p.UseInternationalMode)
	if p.ReferenceStandardMeridian != nil {
		c.ReferenceStandardMeridian = *p.ReferenceStandardMeridian
	}
	if p.RegionalAdjustments != nil {
		c.RegionalAdjustments = append([]solartime.RegionalAdjustment(nil), (*p.RegionalAdjustments)...)
	}
	return c
}

// Merge returns p with every field q sets taken from q.
func (p Patch) Merge(q Patch) Patch {
	pick := func(a, b *bool) *bool {
		if b != nil {
			return b
		}
		return a
	}
	p.UseLocalTime = pick(p.UseLocalTime, q.UseLocalTime)
	p.UseDST = pick(p.UseDST, q.UseDST)
	p.UseHistoricalDST = pick(p.UseHistoricalDST, q.UseHistoricalDST)
	p.UseStandardTimeZone = pick(p.UseStandardTimeZone, q.UseStandardTimeZone)
	p.UseSecondsPrecision = pick(p.UseSecondsPrecision, q.UseSecondsPrecision)
	p.UseInternationalMode = pick(p.UseInternationalMode, q.UseInternationalMode)
	if q.ReferenceStandardMeridian != nil {
		p.ReferenceStandardMeridian = q.ReferenceStandardMeridian
	}
	if q.RegionalAdjustments != nil {
		p.RegionalAdjustments = q.RegionalAdjustments
	}
	return p
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
