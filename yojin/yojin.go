/*
Package yojin resolves the useful god (用神) of a classified chart.

PURPOSE:
  Given the pattern and the day master's strength, pick the ten-god group
  that balances the chart (用神), the one that helps it (喜神, kijin) and
  the two that work against it (忌神 kijin2, 仇神 kyujin). Elements follow
  from the day master.

TABLE:
  Normal patterns are keyed by the group the pattern is named after and the
  strength; the follow (従) patterns by label alone. Neutral charts keep
  the pattern's own god and carry no 仇神.

  Pure lookup. No scoring happens here.
*/
package yojin

import (
	"fmt"

	"github.com/warp/saju-engine/pattern"
	"github.com/warp/saju-engine/sexagenary"
)

// =============================================================================
// TYPES
// =============================================================================

// God is one ten-god group and the element it stands for in this chart.
type God struct {
	TenGod  sexagenary.TenGod  `json:"tenGod"`
	Element sexagenary.Element `json:"element"`
}

// Yojin is the useful god recommendation.
type Yojin struct {
	TenGod      sexagenary.TenGod  `json:"tenGod"`
	Element     sexagenary.Element `json:"element"`
	Description string             `json:"description"`
	Kijin       *God               `json:"kijin,omitempty"`
	Kijin2      *God               `json:"kijin2,omitempty"`
	Kyujin      *God               `json:"kyujin,omitempty"`
}

// entry is one table row. avoid is nil when the row has no 仇神.
type entry struct {
	use, help, caution sexagenary.TenGod
	avoid              *sexagenary.TenGod
	note               string
}

const (
	hikou     = sexagenary.GroupHikou
	in        = sexagenary.GroupIn
	shokushou = sexagenary.GroupShokushou
	zai       = sexagenary.GroupZai
	kansatsu  = sexagenary.GroupKansatsu
)

func g(t sexagenary.TenGod) *sexagenary.TenGod { return &t }

// =============================================================================
// TABLE
// =============================================================================

type normalKey struct {
	family   sexagenary.TenGod
	strength pattern.Strength
}

var normalTable = map[normalKey]entry{
	{hikou, pattern.Strong}:  {kansatsu, zai, in, g(hikou), "restrain the surplus with officers"},
	{hikou, pattern.Neutral}: {shokushou, zai, in, nil, "let the day master flow outward"},
	{hikou, pattern.Weak}:    {hikou, in, kansatsu, g(zai), "stand with peers"},

	{shokushou, pattern.Strong}:  {shokushou, zai, in, g(hikou), "drain through output"},
	{shokushou, pattern.Neutral}: {shokushou, zai, in, nil, "keep the output flowing"},
	{shokushou, pattern.Weak}:    {in, hikou, zai, g(shokushou), "curb the output with resource"},

	{zai, pattern.Strong}:  {zai, shokushou, hikou, g(in), "take up the wealth"},
	{zai, pattern.Neutral}: {zai, shokushou, hikou, nil, "keep the wealth intact"},
	{zai, pattern.Weak}:    {hikou, in, kansatsu, g(shokushou), "share the load with peers"},

	{kansatsu, pattern.Strong}:  {kansatsu, zai, shokushou, g(hikou), "accept the officer"},
	{kansatsu, pattern.Neutral}: {kansatsu, zai, shokushou, nil, "keep the officer clean"},
	{kansatsu, pattern.Weak}:    {in, hikou, zai, g(shokushou), "transform the officer through resource"},

	{in, pattern.Strong}:  {zai, shokushou, kansatsu, g(in), "break the excess resource with wealth"},
	{in, pattern.Neutral}: {in, kansatsu, zai, nil, "protect the resource"},
	{in, pattern.Weak}:    {in, kansatsu, zai, g(shokushou), "lean on resource"},
}

var specialTable = map[pattern.Type]entry{
	pattern.Juuou:   {hikou, in, kansatsu, g(zai), "follow the flourishing day master"},
	pattern.Jukyou:  {in, hikou, zai, g(shokushou), "follow the strong resource"},
	pattern.Juji:    {shokushou, zai, in, g(hikou), "follow the output"},
	pattern.Juzai:   {zai, shokushou, hikou, g(in), "follow the wealth"},
	pattern.Jusatsu: {kansatsu, zai, shokushou, g(hikou), "follow the officer"},
	pattern.Jusei:   {zai, shokushou, hikou, g(in), "follow the prevailing power through wealth"},
}

// family is the group a normal pattern is named after.
func family(t pattern.Type) sexagenary.TenGod {
	switch t {
	case pattern.Kenroku, pattern.Getsujin:
		return hikou
	case pattern.Shokujin, pattern.Shougan:
		return shokushou
	case pattern.Henzai, pattern.Seizai:
		return zai
	case pattern.Henkan, pattern.Seikan:
		return kansatsu
	case pattern.Heni, pattern.Injyu:
		return in
	}
	panic(fmt.Sprintf("yojin: %s is not a normal pattern", t))
}

// =============================================================================
// RESOLVE
// =============================================================================

// Resolve looks up the recommendation for a day master and classification.
func Resolve(dm sexagenary.Stem, k pattern.Kakukyoku) Yojin {
	var (
		e  entry
		ok bool
	)
	if k.Type.Category() == pattern.Special {
		e, ok = specialTable[k.Type]
	} else {
		e, ok = normalTable[normalKey{family(k.Type), k.Strength}]
	}
	if !ok {
		panic(fmt.Sprintf("yojin: no entry for %s (%s)", k.Type, k.Strength))
	}

	god := func(t sexagenary.TenGod) *God {
		return &God{TenGod: t, Element: sexagenary.GroupElement(dm, t)}
	}

	y := Yojin{
		TenGod:      e.use,
		Element:     sexagenary.GroupElement(dm, e.use),
		Description: fmt.Sprintf("%s (%s): %s", k.Type, k.Strength, e.note),
		Kijin:       god(e.help),
		Kijin2:      god(e.caution),
	}
	if e.avoid != nil {
		y.Kyujin = god(*e.avoid)
	}
	return y
}
