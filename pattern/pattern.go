/*
Package pattern classifies a chart's body strength and its governing
pattern (格局 / kakukyoku).

PURPOSE:
  The weighted ten-god counts say how much of the chart feeds the day master
  and how much drains it. That balance decides the strength, and the
  strength decides which pattern rules apply.

STATE MACHINE:
  strength  ratio = (比劫 + 印) / total
            >= 0.75 extreme strong   >= 0.55 strong
            <= 0.25 extreme weak     <= 0.45 weak     else neutral
      |
      +-- extreme --> special ladder (first group with >= 30% share wins)
      |                 strong: 比劫→従旺格  印→従強格
      |                 weak:   食傷→従児格  財→従財格  官殺→従殺格
      |                         outflow >= 60% and min/max >= 0.5 → 従勢格
      |                 nothing qualifies --> normal
      |
      +-- otherwise --> normal: month branch ten god
                          比肩→建禄格 劫財→月刃格 食神→食神格 傷官→傷官格
                          偏財→偏財格 正財→正財格 偏官→偏官格 正官→正官格
                          偏印→偏印格 正印→印綬格

  Every path ends in exactly one label. A missing table entry is a bug and
  panics.
*/
package pattern

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/saju-engine/sexagenary"
	"github.com/warp/saju-engine/tengod"
)

// =============================================================================
// LABELS
// =============================================================================

// Type is one of the sixteen pattern labels.
type Type int

const (
	Kenroku  Type = iota // 建禄格
	Getsujin             // 月刃格
	Shokujin             // 食神格
	Shougan              // 傷官格
	Henzai               // 偏財格
	Seizai               // 正財格
	Henkan               // 偏官格
	Seikan               // 正官格
	Heni                 // 偏印格
	Injyu                // 印綬格
	Juuou                // 従旺格
	Jukyou               // 従強格
	Juji                 // 従児格
	Juzai                // 従財格
	Jusatsu              // 従殺格
	Jusei                // 従勢格
)

var typeNames = [16]string{
	"建禄格", "月刃格", "食神格", "傷官格", "偏財格", "正財格", "偏官格", "正官格", "偏印格", "印綬格",
	"従旺格", "従強格", "従児格", "従財格", "従殺格", "従勢格",
}

// Types lists every label.
var Types = func() []Type {
	out := make([]Type, len(typeNames))
	for i := range out {
		out[i] = Type(i)
	}
	return out
}()

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func (t Type) Valid() bool { return t >= Kenroku && t <= Jusei }

// Category of the label.
func (t Type) Category() Category {
	if t >= Juuou {
		return Special
	}
	return Normal
}

func ParseType(s string) (Type, error) {
	for i, n := range typeNames {
		if n == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("pattern: unknown type %q", s)
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Category separates ordinary patterns from the follow (従) patterns.
type Category string

const (
	Normal  Category = "normal"
	Special Category = "special"
)

// Strength of the day master.
type Strength string

const (
	Strong  Strength = "strong"
	Weak    Strength = "weak"
	Neutral Strength = "neutral"
)

// Kakukyoku is the classification of one chart.
type Kakukyoku struct {
	Type            Type            `json:"type"`
	Category        Category        `json:"category"`
	Strength        Strength        `json:"strength"`
	ExtremeStrength bool            `json:"extremeStrength"`
	SupportRatio    decimal.Decimal `json:"supportRatio"`
}

// =============================================================================
// THRESHOLDS
// =============================================================================

var (
	extremeStrong   = decimal.RequireFromString("0.75")
	strong          = decimal.RequireFromString("0.55")
	weak            = decimal.RequireFromString("0.45")
	extremeWeak     = decimal.RequireFromString("0.25")
	specialShare    = decimal.RequireFromString("0.30")
	outflowShare    = decimal.RequireFromString("0.60")
	outflowEvenness = decimal.RequireFromString("0.5")
)

type ladderStep struct {
	group   sexagenary.TenGod
	pattern Type
}

var strongLadder = []ladderStep{
	{sexagenary.GroupHikou, Juuou},
	{sexagenary.GroupIn, Jukyou},
}

// Ordered: 財 is tried before 官殺.
var weakLadder = []ladderStep{
	{sexagenary.GroupShokushou, Juji},
	{sexagenary.GroupZai, Juzai},
	{sexagenary.GroupKansatsu, Jusatsu},
}

var outflow = []sexagenary.TenGod{
	sexagenary.Shokujin, sexagenary.Shougan,
	sexagenary.Henzai, sexagenary.Seizai,
	sexagenary.Henkan, sexagenary.Seikan,
}

// =============================================================================
// CLASSIFY
// =============================================================================

// Classify runs the state machine. monthBranch is the ten god of the month
// branch's primary hidden stem.
func Classify(c tengod.Counts, monthBranch sexagenary.TenGod) Kakukyoku {
	ratio := SupportRatio(c)
	k := Kakukyoku{SupportRatio: ratio.Round(4)}

	switch {
	case ratio.GreaterThanOrEqual(extremeStrong):
		k.Strength, k.ExtremeStrength = Strong, true
	case ratio.GreaterThanOrEqual(strong):
		k.Strength = Strong
	case ratio.LessThanOrEqual(extremeWeak):
		k.Strength, k.ExtremeStrength = Weak, true
	case ratio.LessThanOrEqual(weak):
		k.Strength = Weak
	default:
		k.Strength = Neutral
	}

	if k.ExtremeStrength {
		if t, ok := special(c, k.Strength); ok {
			k.Type, k.Category = t, Special
			return k
		}
	}

	k.Type = NormalPattern(monthBranch)
	k.Category = Normal
	return k
}

// SupportRatio is (比劫 + 印) / total, one half for an empty chart.
func SupportRatio(c tengod.Counts) decimal.Decimal {
	total := c.Total()
	if total.IsZero() {
		return decimal.RequireFromString("0.5")
	}
	support := c.Get(sexagenary.GroupHikou).Add(c.Get(sexagenary.GroupIn))
	return support.Div(total)
}

func special(c tengod.Counts, s Strength) (Type, bool) {
	ladder := strongLadder
	if s == Weak {
		ladder = weakLadder
	}
	for _, step := range ladder {
		if c.Share(step.group).GreaterThanOrEqual(specialShare) {
			return step.pattern, true
		}
	}
	if s == Weak && followsPower(c) {
		return Jusei, true
	}
	return 0, false
}

// followsPower: the six outflow gods carry at least 60% of the chart and no
// one of them dwarfs the others.
func followsPower(c tengod.Counts) bool {
	sum := decimal.Zero
	lo, hi := c.Get(outflow[0]), c.Get(outflow[0])
	for _, g := range outflow {
		v := c.Get(g)
		sum = sum.Add(v)
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	total := c.Total()
	if total.IsZero() || hi.IsZero() {
		return false
	}
	return sum.Div(total).GreaterThanOrEqual(outflowShare) &&
		lo.Div(hi).GreaterThanOrEqual(outflowEvenness)
}

// NormalPattern maps the month branch ten god to its ordinary pattern.
func NormalPattern(monthBranch sexagenary.TenGod) Type {
	switch monthBranch {
	case sexagenary.Hiken:
		return Kenroku
	case sexagenary.Kouzai:
		return Getsujin
	case sexagenary.Shokujin:
		return Shokujin
	case sexagenary.Shougan:
		return Shougan
	case sexagenary.Henzai:
		return Henzai
	case sexagenary.Seizai:
		return Seizai
	case sexagenary.Henkan:
		return Henkan
	case sexagenary.Seikan:
		return Seikan
	case sexagenary.Heni:
		return Heni
	case sexagenary.Seiin:
		return Injyu
	}
	panic(fmt.Sprintf("pattern: no normal pattern for %s", monthBranch))
}
