/*
Package tengod relates every stem of a chart to the day master and weighs
the result.

PURPOSE:
  Once the pillars are final, each visible stem and each hidden stem is
  classified against the day stem (sexagenary.Relation). The weighted totals
  drive strength, pattern and yojin.

WEIGHTING:
  - the three non-day stems count 1.0 each
  - every hidden stem of all four branches counts its qi weight
    (1.0 primary, 0.7 middle, 0.4 residual), the day branch included
  - the day stem itself is not counted

  Group totals (比劫 印 食傷 財 官殺) are never stored: Counts.Get sums the
  two members on every read.

ELEMENT PROFILE:
  All four stems count 1.0, hidden stems their weight, and each pillar
  carrying a union-enhanced element adds 0.5 to that element.
*/
package tengod

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/sexagenary"
)

// =============================================================================
// ANNOTATION
// =============================================================================

// Annotate fills the ten-god fields of every pillar. The day pillar's stem is
// marked as the day master (比肩 against itself).
func Annotate(fp pillars.FourPillars) pillars.FourPillars {
	dm := fp.DayMaster()
	for _, pos := range pillars.Positions {
		p := &fp[pos]
		p.StemTenGod = sexagenary.Relation(dm, p.Stem)
		p.IsDayMaster = pos == pillars.Day
		p.BranchTenGod = sexagenary.Relation(dm, p.Branch.PrimaryStem())

		hidden := p.Branch.HiddenStems()
		p.HiddenStems = make([]pillars.HiddenTenGod, len(hidden))
		for i, h := range hidden {
			p.HiddenStems[i] = pillars.HiddenTenGod{
				Stem:   h.Stem,
				TenGod: sexagenary.Relation(dm, h.Stem),
				Weight: h.Weight,
			}
		}
	}
	return fp
}

// =============================================================================
// COUNTS
// =============================================================================

var one = decimal.NewFromInt(1)

// Counts holds the weighted total of each atomic ten god.
type Counts struct {
	atomic [10]decimal.Decimal
}

// Count weighs an annotated chart.
func Count(fp pillars.FourPillars) Counts {
	var c Counts
	for i := range c.atomic {
		c.atomic[i] = decimal.Zero
	}
	for _, pos := range pillars.Positions {
		p := fp[pos]
		if pos != pillars.Day {
			c.add(p.StemTenGod, one)
		}
		for _, h := range p.HiddenStems {
			c.add(h.TenGod, h.Weight)
		}
	}
	return c
}

func (c *Counts) add(g sexagenary.TenGod, w decimal.Decimal) {
	if g.IsGroup() {
		panic("tengod: cannot count a group directly: " + g.String())
	}
	c.atomic[g] = c.atomic[g].Add(w)
}

// Get returns the weight of an atomic ten god, or the sum of both members
// for a group.
func (c Counts) Get(g sexagenary.TenGod) decimal.Decimal {
	if g.IsGroup() {
		m := g.Members()
		return c.atomic[m[0]].Add(c.atomic[m[1]])
	}
	return c.atomic[g]
}

// Total is the weight of everything counted.
func (c Counts) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range c.atomic {
		sum = sum.Add(v)
	}
	return sum
}

// Share is Get(g) / Total, zero for an empty chart.
func (c Counts) Share(g sexagenary.TenGod) decimal.Decimal {
	total := c.Total()
	if total.IsZero() {
		return decimal.Zero
	}
	return c.Get(g).Div(total)
}

// Map lists all fifteen values, groups included.
func (c Counts) Map() map[sexagenary.TenGod]decimal.Decimal {
	out := make(map[sexagenary.TenGod]decimal.Decimal, 15)
	for _, g := range sexagenary.AtomicTenGods {
		out[g] = c.Get(g)
	}
	for _, g := range sexagenary.TenGodGroups {
		out[g] = c.Get(g)
	}
	return out
}

func (c Counts) MarshalJSON() ([]byte, error) { return json.Marshal(c.Map()) }

func (c *Counts) UnmarshalJSON(b []byte) error {
	var m map[sexagenary.TenGod]decimal.Decimal
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, g := range sexagenary.AtomicTenGods {
		c.atomic[g] = m[g]
	}
	return nil
}

// =============================================================================
// ELEMENT PROFILE
// =============================================================================

var enhancementBonus = decimal.RequireFromString("0.5")

// ElementProfile is the weighted presence of each element in the chart.
type ElementProfile struct {
	values [5]decimal.Decimal
}

// Profile weighs the elements of a chart after combination.
func Profile(fp pillars.FourPillars) ElementProfile {
	var ep ElementProfile
	for i := range ep.values {
		ep.values[i] = decimal.Zero
	}
	for _, pos := range pillars.Positions {
		p := fp[pos]
		ep.add(p.Stem.Element(), one)
		for _, h := range p.Branch.HiddenStems() {
			ep.add(h.Stem.Element(), h.Weight)
		}
		if p.EnhancedElement != nil {
			ep.add(*p.EnhancedElement, enhancementBonus)
		}
	}
	return ep
}

func (ep *ElementProfile) add(e sexagenary.Element, w decimal.Decimal) {
	ep.values[e] = ep.values[e].Add(w)
}

// Get returns the weight of one element.
func (ep ElementProfile) Get(e sexagenary.Element) decimal.Decimal { return ep.values[e] }

// Total is the sum over all five elements.
func (ep ElementProfile) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range ep.values {
		sum = sum.Add(v)
	}
	return sum
}

// Strongest returns the heaviest element; ties go to the earlier element in
// generating order.
func (ep ElementProfile) Strongest() sexagenary.Element {
	best := sexagenary.Wood
	for _, e := range sexagenary.Elements {
		if ep.values[e].GreaterThan(ep.values[best]) {
			best = e
		}
	}
	return best
}

// Weakest returns the lightest element, ties as for Strongest.
func (ep ElementProfile) Weakest() sexagenary.Element {
	worst := sexagenary.Wood
	for _, e := range sexagenary.Elements {
		if ep.values[e].LessThan(ep.values[worst]) {
			worst = e
		}
	}
	return worst
}

func (ep ElementProfile) MarshalJSON() ([]byte, error) {
	m := make(map[sexagenary.Element]decimal.Decimal, 5)
	for _, e := range sexagenary.Elements {
		m[e] = ep.values[e]
	}
	return json.Marshal(m)
}

func (ep *ElementProfile) UnmarshalJSON(b []byte) error {
	var m map[sexagenary.Element]decimal.Decimal
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, e := range sexagenary.Elements {
		ep.values[e] = m[e]
	}
	return nil
}
