package solartime

import "time"

// =============================================================================
// REGIONAL ADJUSTMENTS - Residual corrections
// =============================================================================

// RegionalAdjustment is a caller-supplied residual correction for a zone and
// a wall-clock date range [From, To). A zero To means open-ended.
type RegionalAdjustment struct {
	TimeZone string    `json:"time_zone" yaml:"time_zone"`
	From     time.Time `json:"from" yaml:"from"`
	To       time.Time `json:"to,omitempty" yaml:"to"`
	Minutes  int       `json:"minutes" yaml:"minutes"`
	Note     string    `json:"note,omitempty" yaml:"note"`
}

func (r RegionalAdjustment) applies(zone string, clock time.Time) bool {
	if r.TimeZone != zone || clock.Before(r.From) {
		return false
	}
	return r.To.IsZero() || clock.Before(r.To)
}

// localMeanTimeEra reports whether tzdata says clocks in the zone still kept
// local mean time at that moment, before any standard time was adopted.
func localMeanTimeEra(t time.Time) bool {
	name, _ := t.Zone()
	return name == "LMT"
}

// regionalMinutes sums the table entries and, in the local-mean-time era,
// adds whatever cancels the other stages: the clock already was solar time.
func regionalMinutes(zone string, clock, zoned time.Time, table []RegionalAdjustment, others int) (int, bool) {
	if localMeanTimeEra(zoned) {
		return -others, true
	}
	total := 0
	for _, r := range table {
		if r.applies(zone, clock) {
			total += r.Minutes
		}
	}
	return total, false
}
