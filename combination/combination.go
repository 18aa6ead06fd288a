/*
Package combination applies stem combinations (干合) and branch unions (支合)
to a freshly cast chart.

PURPOSE:
  Neighbouring pillars interact. Two stems from a fixed pair may merge into a
  new element; two branches from a fixed pair may reinforce one. Both rule
  sets are declared as tables here and evaluated by a single resolver that
  walks the three adjacent pillar pairs (year-month, month-day, day-hour).

STEM COMBINATION (stems first):
  甲己→土 乙庚→金 丙辛→水 丁壬→木 戊癸→火
  - contested: a stem matching both neighbours transforms with neither
  - day master: the pair binds, the day stem never changes
  - blocked: a branch carries the element that controls the target
  - otherwise both stems become the target element, polarity kept
  Every stem matched by a pair gets OriginalStem; it equals Stem unless the
  pair transformed.

BRANCH UNION (after stems):
  子丑→土 寅亥→木 卯戌→火 辰酉→金 巳申→水 午未→火
  - clashed: either branch clashes (冲) with a third pillar's branch
  - unsupported: no visible stem carries the target element
  - otherwise both pillars get EnhancedElement; branches are not replaced

SEE ALSO:
  - sexagenary/relations.go: Clashes
  - pillars: the chart being rewritten
*/
package combination

import (
	"fmt"

	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/sexagenary"
)

// =============================================================================
// RULE TABLES
// =============================================================================

// Rule is one unordered pair and the element it produces.
type Rule[T comparable] struct {
	A, B   T
	Target sexagenary.Element
}

func (r Rule[T]) matches(x, y T) bool {
	return (x == r.A && y == r.B) || (x == r.B && y == r.A)
}

// StemRules are the five stem combinations.
var StemRules = []Rule[sexagenary.Stem]{
	{sexagenary.Jia, sexagenary.Ji, sexagenary.Earth},
	{sexagenary.Yi, sexagenary.Geng, sexagenary.Metal},
	{sexagenary.Bing, sexagenary.Xin, sexagenary.Water},
	{sexagenary.Ding, sexagenary.Ren, sexagenary.Wood},
	{sexagenary.Wu, sexagenary.Gui, sexagenary.Fire},
}

// BranchRules are the six branch unions.
var BranchRules = []Rule[sexagenary.Branch]{
	{sexagenary.Rat, sexagenary.Ox, sexagenary.Earth},
	{sexagenary.Tiger, sexagenary.Pig, sexagenary.Wood},
	{sexagenary.Rabbit, sexagenary.Dog, sexagenary.Fire},
	{sexagenary.Dragon, sexagenary.Rooster, sexagenary.Metal},
	{sexagenary.Snake, sexagenary.Monkey, sexagenary.Water},
	{sexagenary.Horse, sexagenary.Goat, sexagenary.Fire},
}

// adjacent pillar pairs in chart order
var adjacent = [3][2]pillars.Position{
	{pillars.Year, pillars.Month},
	{pillars.Month, pillars.Day},
	{pillars.Day, pillars.Hour},
}

// candidate is a rule hit on one adjacent pair.
type candidate struct {
	pair   [2]pillars.Position
	target sexagenary.Element
}

// resolve is the generic pass: find every adjacent pair matching a rule.
func resolve[T comparable](rules []Rule[T], value func(pillars.Position) T) []candidate {
	var out []candidate
	for _, pair := range adjacent {
		x, y := value(pair[0]), value(pair[1])
		for _, r := range rules {
			if r.matches(x, y) {
				out = append(out, candidate{pair: pair, target: r.Target})
				break
			}
		}
	}
	return out
}

// =============================================================================
// OUTCOMES
// =============================================================================

// Kind separates the two rule families.
type Kind string

const (
	KindStem   Kind = "stem"
	KindBranch Kind = "branch"
)

// Outcome is what happened to a matched pair.
type Outcome string

const (
	Transformed Outcome = "transformed"
	Bound       Outcome = "bound"
	Contested   Outcome = "contested"
	Blocked     Outcome = "blocked"
	Enhanced    Outcome = "enhanced"
	Clashed     Outcome = "clashed"
	Unsupported Outcome = "unsupported"
)

// Event records one matched pair.
type Event struct {
	Kind      Kind                `json:"kind"`
	Positions [2]pillars.Position `json:"-"`
	Pillars   [2]string           `json:"pillars"`
	Target    sexagenary.Element  `json:"target"`
	Outcome   Outcome             `json:"outcome"`
}

func newEvent(kind Kind, c candidate, o Outcome) Event {
	return Event{
		Kind:      kind,
		Positions: c.pair,
		Pillars:   [2]string{c.pair[0].String(), c.pair[1].String()},
		Target:    c.target,
		Outcome:   o,
	}
}

// =============================================================================
// APPLY
// =============================================================================

// Apply returns the chart after both passes and the events that explain it.
// The input is not modified.
func Apply(fp pillars.FourPillars) (pillars.FourPillars, []Event) {
	for _, pos := range pillars.Positions {
		if !fp[pos].Stem.Valid() || !fp[pos].Branch.Valid() {
			panic(fmt.Sprintf("combination: %s pillar is not a stem/branch pair: %d/%d",
				pos, fp[pos].Stem, fp[pos].Branch))
		}
	}

	out := fp
	events := applyStems(&out)
	events = append(events, applyBranches(&out)...)
	return out, events
}

func applyStems(fp *pillars.FourPillars) []Event {
	cands := resolve(StemRules, func(p pillars.Position) sexagenary.Stem { return fp[p].Stem })

	var hits [4]int
	for _, c := range cands {
		hits[c.pair[0]]++
		hits[c.pair[1]]++
	}

	events := make([]Event, 0, len(cands))
	for _, c := range cands {
		a, b := c.pair[0], c.pair[1]
		switch {
		case hits[a] > 1 || hits[b] > 1:
			keep(&fp[a], &fp[b])
			events = append(events, newEvent(KindStem, c, Contested))
		case a == pillars.Day || b == pillars.Day:
			keep(&fp[a], &fp[b])
			events = append(events, newEvent(KindStem, c, Bound))
		case blocked(fp, c.target):
			keep(&fp[a], &fp[b])
			events = append(events, newEvent(KindStem, c, Blocked))
		default:
			transform(&fp[a], c.target)
			transform(&fp[b], c.target)
			events = append(events, newEvent(KindStem, c, Transformed))
		}
	}
	return events
}

// blocked reports whether any branch carries the element that controls the
// target.
func blocked(fp *pillars.FourPillars, target sexagenary.Element) bool {
	for _, b := range fp.Branches() {
		if b.Element() == target.ControlledBy() {
			return true
		}
	}
	return false
}

// keep records a matched stem that stays as it is.
func keep(ps ...*pillars.Pillar) {
	for _, p := range ps {
		if p.OriginalStem == nil {
			orig := p.Stem
			p.OriginalStem = &orig
		}
	}
}

func transform(p *pillars.Pillar, target sexagenary.Element) {
	orig := p.Stem
	p.OriginalStem = &orig
	p.Stem = sexagenary.StemFor(target, orig.Polarity())
}

func applyBranches(fp *pillars.FourPillars) []Event {
	cands := resolve(BranchRules, func(p pillars.Position) sexagenary.Branch { return fp[p].Branch })

	events := make([]Event, 0, len(cands))
	for _, c := range cands {
		switch {
		case clashedWithThird(fp, c.pair):
			events = append(events, newEvent(KindBranch, c, Clashed))
		case !visibleStem(fp, c.target):
			events = append(events, newEvent(KindBranch, c, Unsupported))
		default:
			for _, pos := range c.pair {
				e := c.target
				fp[pos].EnhancedElement = &e
			}
			events = append(events, newEvent(KindBranch, c, Enhanced))
		}
	}
	return events
}

func clashedWithThird(fp *pillars.FourPillars, pair [2]pillars.Position) bool {
	for _, other := range pillars.Positions {
		if other == pair[0] || other == pair[1] {
			continue
		}
		for _, pos := range pair {
			if sexagenary.Clashes(fp[pos].Branch, fp[other].Branch) {
				return true
			}
		}
	}
	return false
}

func visibleStem(fp *pillars.FourPillars, e sexagenary.Element) bool {
	for _, pos := range pillars.Positions {
		if fp[pos].Stem.Element() == e {
			return true
		}
	}
	return false
}
