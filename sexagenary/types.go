/*
Package sexagenary provides the static tables of the sexagenary cycle.

PURPOSE:
  Every other package in the engine reasons in terms of heavenly stems,
  earthly branches and the five elements. This package owns those symbols
  and nothing else: no time handling, no weighting, no pattern logic.

KEY CONCEPTS IN THIS FILE (types.go):
  - Element: wood, fire, earth, metal, water with the generating and
    controlling cycles
  - Polarity: yang or yin
  - Stem: one of the ten heavenly stems (甲乙丙丁戊己庚辛壬癸)
  - Branch: one of the twelve earthly branches (子丑寅卯辰巳午未申酉戌亥)
  - HiddenStem: a stem contained in a branch with its qi weight

DESIGN PRINCIPLES:
  1. Ordinals: Stem and Branch are small integers so cycle arithmetic is
     plain modular arithmetic
  2. Immutability: all tables are package-level values, never written
  3. Precision: hidden stem weights are decimal.Decimal so sums such as
     0.7 + 0.4 stay exact when compared against thresholds

USAGE:
  s := sexagenary.StemFromIndex(6)        // 庚
  b := sexagenary.BranchFromIndex(4)      // 辰
  s.Element()                             // metal
  b.HiddenStems()                         // 戊 1.0, 乙 0.7, 癸 0.4

SEE ALSO:
  - tengod.go: ten-god relations between stems
  - relations.go: clash and union helpers between branches
*/
package sexagenary

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ELEMENT - The five phases
// =============================================================================

type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// Elements lists the five elements in generating order.
var Elements = [5]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [5]string{"wood", "fire", "earth", "metal", "water"}
var elementKanji = [5]string{"木", "火", "土", "金", "水"}

func (e Element) String() string {
	if e < Wood || e > Water {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

func (e Element) Kanji() string { return elementKanji[e] }

// Generates returns the element this one produces (木→火→土→金→水→木).
func (e Element) Generates() Element { return (e + 1) % 5 }

// GeneratedBy returns the element that produces this one.
func (e Element) GeneratedBy() Element { return (e + 4) % 5 }

// Controls returns the element this one overcomes (木→土→水→火→金→木).
func (e Element) Controls() Element { return (e + 2) % 5 }

// ControlledBy returns the element that overcomes this one.
func (e Element) ControlledBy() Element { return (e + 3) % 5 }

// ParseElement accepts the English name or the kanji.
func ParseElement(s string) (Element, error) {
	for i := range elementNames {
		if s == elementNames[i] || s == elementKanji[i] {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

func (e Element) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Element) UnmarshalText(b []byte) error {
	v, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// =============================================================================
// POLARITY
// =============================================================================

type Polarity int

const (
	Yang Polarity = iota
	Yin
)

func (p Polarity) String() string {
	if p == Yang {
		return "yang"
	}
	return "yin"
}

func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// =============================================================================
// STEM - Heavenly stems
// =============================================================================

// Stem is a heavenly stem, ordinal 0 (甲) through 9 (癸).
type Stem int

const (
	Jia Stem = iota
	Yi
	Bing
	Ding
	Wu
	Ji
	Geng
	Xin
	Ren
	Gui
)

const stemKanji = "甲乙丙丁戊己庚辛壬癸"

var stemNames = []rune(stemKanji)

// StemFromIndex wraps any integer into the 10-cycle.
func StemFromIndex(i int) Stem { return Stem(mod(i, 10)) }

// StemFor returns the stem of the given element and polarity.
func StemFor(e Element, p Polarity) Stem { return Stem(int(e)*2 + int(p)) }

func (s Stem) Index() int         { return int(s) }
func (s Stem) Element() Element   { return Element(int(s) / 2) }
func (s Stem) Polarity() Polarity { return Polarity(int(s) % 2) }
func (s Stem) Next(n int) Stem    { return StemFromIndex(int(s) + n) }
func (s Stem) Valid() bool        { return s >= Jia && s <= Gui }

func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return string(stemNames[s])
}

// ParseStem accepts a single stem kanji.
func ParseStem(s string) (Stem, error) {
	r := []rune(s)
	if len(r) == 1 {
		for i, n := range stemNames {
			if n == r[0] {
				return Stem(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown stem %q", s)
}

func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stem) UnmarshalText(b []byte) error {
	v, err := ParseStem(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// =============================================================================
// BRANCH - Earthly branches
// =============================================================================

// Branch is an earthly branch, ordinal 0 (子) through 11 (亥).
type Branch int

const (
	Rat Branch = iota
	Ox
	Tiger
	Rabbit
	Dragon
	Snake
	Horse
	Goat
	Monkey
	Rooster
	Dog
	Pig
)

const branchKanji = "子丑寅卯辰巳午未申酉戌亥"

var branchNames = []rune(branchKanji)

var branchElements = [12]Element{
	Water, Earth, Wood, Wood, Earth, Fire,
	Fire, Earth, Metal, Metal, Earth, Water,
}

// HiddenStem is a stem contained in a branch (蔵干).
type HiddenStem struct {
	Stem   Stem
	Weight decimal.Decimal
}

// Qi weights. Primary qi (本気), middle qi (中気), residual qi (余気).
var (
	WeightPrimary  = decimal.NewFromInt(1)
	WeightMiddle   = decimal.RequireFromString("0.7")
	WeightResidual = decimal.RequireFromString("0.4")
)

var hiddenStems = [12][]HiddenStem{
	Rat:     {{Gui, WeightPrimary}},
	Ox:      {{Ji, WeightPrimary}, {Gui, WeightMiddle}, {Xin, WeightResidual}},
	Tiger:   {{Jia, WeightPrimary}, {Bing, WeightMiddle}, {Wu, WeightResidual}},
	Rabbit:  {{Yi, WeightPrimary}},
	Dragon:  {{Wu, WeightPrimary}, {Yi, WeightMiddle}, {Gui, WeightResidual}},
	Snake:   {{Bing, WeightPrimary}, {Geng, WeightMiddle}, {Wu, WeightResidual}},
	Horse:   {{Ding, WeightPrimary}, {Ji, WeightMiddle}},
	Goat:    {{Ji, WeightPrimary}, {Ding, WeightMiddle}, {Yi, WeightResidual}},
	Monkey:  {{Geng, WeightPrimary}, {Ren, WeightMiddle}, {Wu, WeightResidual}},
	Rooster: {{Xin, WeightPrimary}},
	Dog:     {{Wu, WeightPrimary}, {Xin, WeightMiddle}, {Ding, WeightResidual}},
	Pig:     {{Ren, WeightPrimary}, {Jia, WeightMiddle}},
}

// BranchFromIndex wraps any integer into the 12-cycle.
func BranchFromIndex(i int) Branch { return Branch(mod(i, 12)) }

func (b Branch) Index() int         { return int(b) }
func (b Branch) Element() Element   { return branchElements[b] }
func (b Branch) Polarity() Polarity { return Polarity(int(b) % 2) }
func (b Branch) Next(n int) Branch  { return BranchFromIndex(int(b) + n) }
func (b Branch) Valid() bool        { return b >= Rat && b <= Pig }

// HiddenStems returns the branch's hidden stems, primary qi first.
// The returned slice is shared; callers must not modify it.
func (b Branch) HiddenStems() []HiddenStem { return hiddenStems[b] }

// PrimaryStem returns the primary qi stem.
func (b Branch) PrimaryStem() Stem { return hiddenStems[b][0].Stem }

func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return string(branchNames[b])
}

// ParseBranch accepts a single branch kanji.
func ParseBranch(s string) (Branch, error) {
	r := []rune(s)
	if len(r) == 1 {
		for i, n := range branchNames {
			if n == r[0] {
				return Branch(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown branch %q", s)
}

func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Branch) UnmarshalText(text []byte) error {
	v, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// =============================================================================
// SEXAGENARY PAIR
// =============================================================================

// Label joins a stem and branch, e.g. 庚辰.
func Label(s Stem, b Branch) string { return s.String() + b.String() }

// CycleIndex returns the 0-59 position of a stem/branch pair, or -1 when the
// pair has mismatched parity and so never occurs in the cycle.
func CycleIndex(s Stem, b Branch) int {
	if int(s)%2 != int(b)%2 {
		return -1
	}
	for i := 0; i < 60; i++ {
		if i%10 == int(s) && i%12 == int(b) {
			return i
		}
	}
	return -1
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
