package solartime

import "time"

// =============================================================================
// HISTORICAL DST - Windows the engine decides itself
// =============================================================================

// HistoricalWindow is a DST period expressed in local standard time,
// [Start, End). While it is active clocks ran DeltaMinutes ahead.
type HistoricalWindow struct {
	TimeZone     string
	Start        time.Time // wall clock, UTC-located
	End          time.Time // wall clock, UTC-located, standard time
	DeltaMinutes int
	Note         string
}

func wall(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// Japan ran summer time under the occupation from the first Saturday of May
// (April in 1949) at 24:00 until the second Saturday of September at 25:00.
var historicalWindows = []HistoricalWindow{
	{TimeZone: "Asia/Tokyo", Start: wall(1948, time.May, 2), End: wall(1948, time.September, 12), DeltaMinutes: 60, Note: "Japan summer time 1948"},
	{TimeZone: "Asia/Tokyo", Start: wall(1949, time.April, 3), End: wall(1949, time.September, 11), DeltaMinutes: 60, Note: "Japan summer time 1949"},
	{TimeZone: "Asia/Tokyo", Start: wall(1950, time.May, 7), End: wall(1950, time.September, 10), DeltaMinutes: 60, Note: "Japan summer time 1950"},
	{TimeZone: "Asia/Tokyo", Start: wall(1951, time.May, 6), End: wall(1951, time.September, 9), DeltaMinutes: 60, Note: "Japan summer time 1951"},
}

// HistoricalWindows returns a copy of the built-in window table.
func HistoricalWindows() []HistoricalWindow {
	out := make([]HistoricalWindow, len(historicalWindows))
	copy(out, historicalWindows)
	return out
}

// historicalCoverage reports whether the window table owns the DST decision
// for this zone and year. When it does, tzdata's own answer is ignored.
func historicalCoverage(zone string, clock time.Time) bool {
	for _, w := range historicalWindows {
		if w.TimeZone == zone && w.Start.Year() == clock.Year() {
			return true
		}
	}
	return false
}

// historicalDST returns the window containing the wall clock time. The hour
// repeated when clocks fell back is read as summer time.
func historicalDST(zone string, clock time.Time) (HistoricalWindow, bool) {
	for _, w := range historicalWindows {
		if w.TimeZone != zone {
			continue
		}
		end := w.End.Add(time.Duration(w.DeltaMinutes) * time.Minute)
		if !clock.Before(w.Start) && clock.Before(end) {
			return w, true
		}
	}
	return HistoricalWindow{}, false
}

// =============================================================================
// TZDATA SPLIT - standard offset vs DST delta
// =============================================================================

// splitOffset separates the offset in force at t into standard offset and
// DST delta, both in seconds. tzdata only reports the total, so the standard
// offset is read from the nearest neighbouring period that is not DST.
func splitOffset(t time.Time) (std, delta int) {
	_, total := t.Zone()
	if !t.IsDST() {
		return total, 0
	}
	start, end := t.ZoneBounds()
	var probes []time.Time
	if !start.IsZero() {
		probes = append(probes, start.Add(-time.Second))
	}
	if !end.IsZero() {
		probes = append(probes, end)
	}
	for _, probe := range probes {
		p := probe.In(t.Location())
		if !p.IsDST() {
			_, off := p.Zone()
			return off, total - off
		}
	}
	return total - 3600, 3600
}
