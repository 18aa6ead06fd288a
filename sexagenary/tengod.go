package sexagenary

import "fmt"

// =============================================================================
// TEN GOD - Relation of a stem to the day master (十神)
// =============================================================================

// TenGod is a closed enumeration: ten atomic relations followed by the five
// paired groups. Group values never come out of Relation; they only appear as
// keys of aggregated counts.
type TenGod int

const (
	Hiken    TenGod = iota // 比肩
	Kouzai                 // 劫財
	Shokujin               // 食神
	Shougan                // 傷官
	Henzai                 // 偏財
	Seizai                 // 正財
	Henkan                 // 偏官
	Seikan                 // 正官
	Heni                   // 偏印
	Seiin                  // 正印

	GroupHikou     // 比劫
	GroupIn        // 印
	GroupShokushou // 食傷
	GroupZai       // 財
	GroupKansatsu  // 官殺
)

// AtomicTenGods lists the ten relations in canonical order.
var AtomicTenGods = [10]TenGod{Hiken, Kouzai, Shokujin, Shougan, Henzai, Seizai, Henkan, Seikan, Heni, Seiin}

// TenGodGroups lists the five paired aggregates.
var TenGodGroups = [5]TenGod{GroupHikou, GroupIn, GroupShokushou, GroupZai, GroupKansatsu}

var tenGodNames = [15]string{
	"比肩", "劫財", "食神", "傷官", "偏財", "正財", "偏官", "正官", "偏印", "正印",
	"比劫", "印", "食傷", "財", "官殺",
}

func (g TenGod) String() string {
	if g < Hiken || g > GroupKansatsu {
		return fmt.Sprintf("TenGod(%d)", int(g))
	}
	return tenGodNames[g]
}

func (g TenGod) IsGroup() bool { return g >= GroupHikou && g <= GroupKansatsu }

// Group returns the paired aggregate an atomic relation belongs to.
// A group returns itself.
func (g TenGod) Group() TenGod {
	if g.IsGroup() {
		return g
	}
	return GroupHikou + g/2
}

// Members returns the two atomic relations summed into a group.
func (g TenGod) Members() [2]TenGod {
	if !g.IsGroup() {
		panic(fmt.Sprintf("sexagenary: %s is not a ten-god group", g))
	}
	first := (g - GroupHikou) * 2
	return [2]TenGod{first, first + 1}
}

// ParseTenGod accepts any of the fifteen kanji labels.
func ParseTenGod(s string) (TenGod, error) {
	for i, n := range tenGodNames {
		if n == s {
			return TenGod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ten god %q", s)
}

func (g TenGod) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *TenGod) UnmarshalText(b []byte) error {
	v, err := ParseTenGod(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// Relation classifies target against the day master dm.
//
//	same element              same polarity → 比肩, else 劫財
//	target generates dm       → 偏印 / 正印
//	dm generates target       → 食神 / 傷官
//	target controls dm        → 偏官 / 正官
//	dm controls target        → 偏財 / 正財
func Relation(dm, target Stem) TenGod {
	d, t := dm.Element(), target.Element()
	offset := TenGod(0)
	if dm.Polarity() != target.Polarity() {
		offset = 1
	}
	switch t {
	case d:
		return Hiken + offset
	case d.GeneratedBy():
		return Heni + offset
	case d.Generates():
		return Shokujin + offset
	case d.ControlledBy():
		return Henkan + offset
	case d.Controls():
		return Henzai + offset
	}
	panic("sexagenary: element cycle is not closed")
}

// GroupElement returns the element that a ten-god group represents for a
// given day master.
func GroupElement(dm Stem, g TenGod) Element {
	d := dm.Element()
	switch g.Group() {
	case GroupHikou:
		return d
	case GroupIn:
		return d.GeneratedBy()
	case GroupShokushou:
		return d.Generates()
	case GroupZai:
		return d.Controls()
	case GroupKansatsu:
		return d.ControlledBy()
	}
	panic(fmt.Sprintf("sexagenary: no element for %s", g))
}
