/*
Package luck lays out the ten-year luck pillars (大運) that follow from a
chart.

PURPOSE:
  The month pillar is the seed of the luck sequence. Depending on the year
  stem's polarity and the gender it walks forward or backward through the
  sixty cycle, one pillar per decade.

RULES:
  Direction  yang year + male or yin year + female  → forward
             otherwise                              → backward
  Start age  days from birth to the next month term (forward) or back to
             the previous one (backward), divided by three
*/
package luck

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/sexagenary"
)

// DefaultCycles is how many decades are laid out.
const DefaultCycles = 8

// Pillar is one decade of the sequence.
type Pillar struct {
	Index    int               `json:"index"`
	Stem     sexagenary.Stem   `json:"stem"`
	Branch   sexagenary.Branch `json:"branch"`
	Label    string            `json:"label"`
	StartAge decimal.Decimal   `json:"startAge"`
}

// Cycle is the full sequence.
type Cycle struct {
	Forward  bool            `json:"forward"`
	StartAge decimal.Decimal `json:"startAge"`
	Pillars  []Pillar        `json:"pillars"`
}

// Forward reports the direction for a year stem and gender.
func Forward(yearStem sexagenary.Stem, male bool) bool {
	return (yearStem.Polarity() == sexagenary.Yang) == male
}

var three = decimal.NewFromInt(3)

// Compute lays out n decades for a birth at instant whose cast pillars are
// fp.
func Compute(fp pillars.FourPillars, instant time.Time, male bool, n int) Cycle {
	forward := Forward(fp[pillars.Year].Stem, male)

	term := adjacentTerm(instant, forward)
	gap := term.Sub(instant)
	if gap < 0 {
		gap = -gap
	}
	days := decimal.NewFromFloat(gap.Hours() / 24)
	start := days.Div(three).Round(1)

	step := 1
	if !forward {
		step = -1
	}

	// The sequence follows the month pillar as cast, not a combined stem.
	month := fp[pillars.Month]
	seed := month.Stem
	if month.OriginalStem != nil {
		seed = *month.OriginalStem
	}
	out := Cycle{Forward: forward, StartAge: start, Pillars: make([]Pillar, n)}
	for i := 0; i < n; i++ {
		s := seed.Next(step * (i + 1))
		b := month.Branch.Next(step * (i + 1))
		out.Pillars[i] = Pillar{
			Index:    i + 1,
			Stem:     s,
			Branch:   b,
			Label:    sexagenary.Label(s, b),
			StartAge: start.Add(decimal.NewFromInt(int64(10 * i))),
		}
	}
	return out
}

// adjacentTerm is the first month term after instant, or the last one at or
// before it.
func adjacentTerm(instant time.Time, forward bool) time.Time {
	y := instant.Year()
	var terms []pillars.Term
	for _, year := range []int{y - 1, y, y + 1} {
		terms = append(terms, pillars.Terms(year)...)
	}
	if forward {
		for _, t := range terms {
			if t.Instant.After(instant) {
				return t.Instant
			}
		}
	} else {
		for i := len(terms) - 1; i >= 0; i-- {
			if !terms[i].Instant.After(instant) {
				return terms[i].Instant
			}
		}
	}
	return instant
}
