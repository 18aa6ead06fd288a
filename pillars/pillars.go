/*
Package pillars casts the four stem/branch pillars from an adjusted wall time.

PURPOSE:
  The year, month, day and hour of a birth each map onto one of the sixty
  stem/branch pairs. Year and month follow the sun (solar terms), day and
  hour follow the clock.

RULES:
  Year   solar-term year, boundary at 立春 (315°).
         stem = (y - 4) mod 10, branch = (y - 4) mod 12
  Month  branch from the solar month (寅 first), stem rotates from the year
         stem: 甲己→丙寅 乙庚→戊寅 丙辛→庚寅 丁壬→壬寅 戊癸→甲寅
  Day    epoch 1900-01-01 = 甲戌, one step of the cycle per civil day
  Hour   two-hour branches with 23:00 in 子; the stem rotates from the day
         stem (甲己→甲子 乙庚→丙子 ...). The 23:00 hour keeps its own date.

TERM RESOLUTION:
  Day-level (default): a date on which a term begins belongs wholly to the
  new month, so the sun is sampled at 24:00 of the adjusted date.
  Exact (international mode): the sun is sampled at the birth instant.

SEE ALSO:
  - solarterm.go: solar longitude and term instants
  - combination:  rewrites stems after casting
  - tengod:       fills the ten-god fields
*/
package pillars

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/saju-engine/sexagenary"
)

// =============================================================================
// PILLAR TYPES
// =============================================================================

// Position indexes FourPillars.
type Position int

const (
	Year Position = iota
	Month
	Day
	Hour
)

var positionNames = [4]string{"year", "month", "day", "hour"}

func (p Position) String() string {
	if p < Year || p > Hour {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// Positions in chart order.
var Positions = [4]Position{Year, Month, Day, Hour}

// HiddenTenGod is one hidden stem of a branch and its relation to the day
// master.
type HiddenTenGod struct {
	Stem   sexagenary.Stem   `json:"stem"`
	TenGod sexagenary.TenGod `json:"tenGod"`
	Weight decimal.Decimal   `json:"weight"`
}

// Pillar is one stem/branch pair with everything later stages attach to it.
type Pillar struct {
	Stem   sexagenary.Stem   `json:"stem"`
	Branch sexagenary.Branch `json:"branch"`

	// Set by the combination stage.
	OriginalStem    *sexagenary.Stem    `json:"originalStem,omitempty"`
	EnhancedElement *sexagenary.Element `json:"enhancedElement,omitempty"`

	// Set by the ten-god stage.
	StemTenGod   sexagenary.TenGod `json:"stemTenGod"`
	BranchTenGod sexagenary.TenGod `json:"branchTenGod"`
	HiddenStems  []HiddenTenGod    `json:"hiddenStemsTenGods"`
	IsDayMaster  bool              `json:"isDayMaster,omitempty"`
}

// Label is the two-character name, e.g. 庚辰.
func (p Pillar) Label() string { return sexagenary.Label(p.Stem, p.Branch) }

// Transformed reports whether a stem combination replaced the stem.
func (p Pillar) Transformed() bool { return p.OriginalStem != nil && *p.OriginalStem != p.Stem }

func (p Pillar) MarshalJSON() ([]byte, error) {
	type plain Pillar
	return json.Marshal(struct {
		Label string `json:"label"`
		plain
	}{p.Label(), plain(p)})
}

// FourPillars is always exactly four pillars, indexed by Position.
type FourPillars [4]Pillar

// DayMaster is the stem every relation is measured from.
func (fp FourPillars) DayMaster() sexagenary.Stem { return fp[Day].Stem }

// Branches returns the four branches in chart order.
func (fp FourPillars) Branches() [4]sexagenary.Branch {
	return [4]sexagenary.Branch{fp[Year].Branch, fp[Month].Branch, fp[Day].Branch, fp[Hour].Branch}
}

func (fp FourPillars) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Pillar{
		"year":  fp[Year],
		"month": fp[Month],
		"day":   fp[Day],
		"hour":  fp[Hour],
	})
}

func (fp *FourPillars) UnmarshalJSON(b []byte) error {
	var m map[string]Pillar
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, pos := range Positions {
		p, ok := m[pos.String()]
		if !ok {
			return fmt.Errorf("pillars: missing %s pillar", pos)
		}
		fp[pos] = p
	}
	return nil
}

// =============================================================================
// CYCLE ARITHMETIC
// =============================================================================

var dayEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// YearPillar for a solar-term year.
func YearPillar(solarYear int) (sexagenary.Stem, sexagenary.Branch) {
	return sexagenary.StemFromIndex(solarYear - 4), sexagenary.BranchFromIndex(solarYear - 4)
}

// MonthPillar for a solar month index (0 = 寅).
func MonthPillar(yearStem sexagenary.Stem, monthIndex int) (sexagenary.Stem, sexagenary.Branch) {
	first := sexagenary.StemFromIndex(int(yearStem)%5*2 + 2)
	return first.Next(monthIndex), sexagenary.BranchFromIndex(2 + monthIndex)
}

// DayPillar for a civil date; only the date fields of d are read.
func DayPillar(d time.Time) (sexagenary.Stem, sexagenary.Branch) {
	date := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	// Unix seconds; a Duration saturates past about 292 years.
	n := int((date.Unix() - dayEpoch.Unix()) / 86400)
	return sexagenary.StemFromIndex(n), sexagenary.BranchFromIndex(10 + n)
}

// HourPillar for a clock hour 0-23 on a day with the given stem.
func HourPillar(dayStem sexagenary.Stem, hour int) (sexagenary.Stem, sexagenary.Branch) {
	branch := sexagenary.BranchFromIndex((hour + 1) / 2)
	start := sexagenary.StemFromIndex(int(dayStem) % 5 * 2)
	return start.Next(int(branch)), branch
}

// =============================================================================
// CASTING
// =============================================================================

// Moment is an adjusted wall time and the frame it is expressed in.
type Moment struct {
	Wall        time.Time     // wall fields only, UTC-located
	FrameOffset time.Duration // UTC offset of the wall reading's frame
	ExactTerms  bool          // sample the sun at the instant, not end of day
}

// Chart is the cast pillars plus the solar position they were read from.
type Chart struct {
	Pillars        FourPillars `json:"pillars"`
	SolarYear      int         `json:"solarYear"`
	SolarLongitude float64     `json:"solarLongitude"`
	MonthTerm      string      `json:"monthTerm"`
}

// Cast computes the four bare pillars. Ten-god and combination fields are
// left zero.
func Cast(m Moment) Chart {
	w := m.Wall
	var sample time.Time
	if m.ExactTerms {
		sample = w.Add(-m.FrameOffset)
	} else {
		endOfDay := time.Date(w.Year(), w.Month(), w.Day()+1, 0, 0, 0, 0, time.UTC)
		sample = endOfDay.Add(-m.FrameOffset)
	}
	lambda := SolarLongitude(sample)

	solarYear := w.Year()
	if w.Month() <= time.February && lambda >= 270 && lambda < 315 {
		solarYear--
	}
	monthIdx := MonthIndex(lambda)

	var fp FourPillars
	fp[Year].Stem, fp[Year].Branch = YearPillar(solarYear)
	fp[Month].Stem, fp[Month].Branch = MonthPillar(fp[Year].Stem, monthIdx)
	fp[Day].Stem, fp[Day].Branch = DayPillar(w)
	fp[Hour].Stem, fp[Hour].Branch = HourPillar(fp[Day].Stem, w.Hour())

	return Chart{
		Pillars:        fp,
		SolarYear:      solarYear,
		SolarLongitude: lambda,
		MonthTerm:      TermName(lambda),
	}
}
