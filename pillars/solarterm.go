package pillars

import (
	"math"
	"sort"
	"time"
)

// =============================================================================
// SOLAR LONGITUDE
// =============================================================================

const (
	unixEpochJD    = 2440587.5
	j2000JD        = 2451545.0
	daysPerCentury = 36525.0
	tropicalYear   = 365.2422
)

func julianDay(t time.Time) float64 {
	return unixEpochJD + float64(t.UnixNano())/float64(24*time.Hour)
}

// SolarLongitude returns the sun's apparent ecliptic longitude in degrees
// [0, 360) at the instant t, using the low-precision series from Meeus,
// Astronomical Algorithms ch. 25. Accuracy is about 0.01°, which places a
// term boundary within roughly a quarter of an hour.
func SolarLongitude(t time.Time) float64 {
	T := (julianDay(t) - j2000JD) / daysPerCentury

	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := rad(357.52911 + 35999.05029*T - 0.0001537*T*T)
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)
	omega := rad(125.04 - 1934.136*T)

	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(omega)
	return normDeg(lambda)
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// =============================================================================
// MONTH TERMS (節)
// =============================================================================

// Term is one of the twelve month-opening solar terms.
type Term struct {
	Name      string    `json:"name"`
	Longitude float64   `json:"longitude"`
	Instant   time.Time `json:"instant"`
}

// monthTerms opens each solar month, starting with 立春 at 315°.
var monthTerms = [12]struct {
	name string
	lon  float64
}{
	{"立春", 315}, {"啓蟄", 345}, {"清明", 15}, {"立夏", 45},
	{"芒種", 75}, {"小暑", 105}, {"立秋", 135}, {"白露", 165},
	{"寒露", 195}, {"立冬", 225}, {"大雪", 255}, {"小寒", 285},
}

// MonthIndex maps a solar longitude to the solar month: 0 is the 寅 month
// opened by 立春, 11 the 丑 month opened by 小寒.
func MonthIndex(lambda float64) int {
	return int(normDeg(lambda-315) / 30)
}

// TermName is the name of the term that opened the month containing lambda.
func TermName(lambda float64) string { return monthTerms[MonthIndex(lambda)].name }

// TermInstant finds the instant during the Gregorian year in which the sun
// reaches the given longitude.
func TermInstant(year int, lon float64) time.Time {
	vernal := time.Date(year, time.March, 20, 12, 0, 0, 0, time.UTC)
	guess := vernal.Add(days(normDeg(lon) / 360 * tropicalYear))
	if guess.Year() > year {
		guess = guess.Add(-days(tropicalYear))
	}

	t := guess
	for i := 0; i < 50; i++ {
		diff := normDeg(lon-SolarLongitude(t)+180) - 180
		if math.Abs(diff) < 1e-7 {
			break
		}
		t = t.Add(days(diff / 360 * tropicalYear))
	}
	return t.Truncate(time.Second)
}

// Terms lists the twelve month terms that fall in the Gregorian year, in
// chronological order.
func Terms(year int) []Term {
	out := make([]Term, 0, len(monthTerms))
	for _, mt := range monthTerms {
		out = append(out, Term{Name: mt.name, Longitude: mt.lon, Instant: TermInstant(year, mt.lon)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instant.Before(out[j].Instant) })
	return out
}

func days(d float64) time.Duration { return time.Duration(d * float64(24*time.Hour)) }
