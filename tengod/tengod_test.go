package tengod_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/sexagenary"
	"github.com/warp/saju-engine/tengod"
)

func chart(t *testing.T, labels ...string) pillars.FourPillars {
	t.Helper()
	var fp pillars.FourPillars
	for i, l := range labels {
		r := []rune(l)
		s, err := sexagenary.ParseStem(string(r[0]))
		require.NoError(t, err)
		b, err := sexagenary.ParseBranch(string(r[1]))
		require.NoError(t, err)
		fp[i] = pillars.Pillar{Stem: s, Branch: b}
	}
	return fp
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// reference is 1990-01-15 13:00 Tokyo.
func reference(t *testing.T) pillars.FourPillars {
	return tengod.Annotate(chart(t, "己巳", "丁丑", "庚辰", "癸未"))
}

// =============================================================================
// ANNOTATION
// =============================================================================

func TestAnnotate_ReferenceChart(t *testing.T) {
	fp := reference(t)

	assert.Equal(t, sexagenary.Seiin, fp[pillars.Year].StemTenGod)
	assert.Equal(t, sexagenary.Seikan, fp[pillars.Month].StemTenGod)
	assert.Equal(t, sexagenary.Shougan, fp[pillars.Hour].StemTenGod)

	// the day pillar is the day master, 比肩 against itself
	assert.Equal(t, sexagenary.Hiken, fp[pillars.Day].StemTenGod)
	assert.True(t, fp[pillars.Day].IsDayMaster)
	assert.False(t, fp[pillars.Year].IsDayMaster)

	// 巳's primary qi is 丙, 偏官 for 庚
	assert.Equal(t, sexagenary.Henkan, fp[pillars.Year].BranchTenGod)
	// 丑's primary qi is 己, 正印 for 庚
	assert.Equal(t, sexagenary.Seiin, fp[pillars.Month].BranchTenGod)
}

func TestAnnotate_HiddenStemsInOrder(t *testing.T) {
	fp := reference(t)

	hidden := fp[pillars.Day].HiddenStems // 辰: 戊 乙 癸
	require.Len(t, hidden, 3)
	assert.Equal(t, sexagenary.Wu, hidden[0].Stem)
	assert.Equal(t, sexagenary.Heni, hidden[0].TenGod)
	assertDecimal(t, "1", hidden[0].Weight)
	assert.Equal(t, sexagenary.Seizai, hidden[1].TenGod)
	assertDecimal(t, "0.7", hidden[1].Weight)
	assert.Equal(t, sexagenary.Shougan, hidden[2].TenGod)
	assertDecimal(t, "0.4", hidden[2].Weight)
}

// =============================================================================
// COUNTS
// =============================================================================

func TestCount_ReferenceChart(t *testing.T) {
	c := tengod.Count(reference(t))

	want := map[sexagenary.TenGod]string{
		sexagenary.Hiken: "0.7", sexagenary.Kouzai: "0.4",
		sexagenary.Shokujin: "0", sexagenary.Shougan: "2.1",
		sexagenary.Henzai: "0", sexagenary.Seizai: "1.1",
		sexagenary.Henkan: "1", sexagenary.Seikan: "1.7",
		sexagenary.Heni: "1.4", sexagenary.Seiin: "3",
		sexagenary.GroupHikou: "1.1", sexagenary.GroupIn: "4.4",
		sexagenary.GroupShokushou: "2.1", sexagenary.GroupZai: "1.1",
		sexagenary.GroupKansatsu: "2.7",
	}
	for g, v := range want {
		assertDecimal(t, v, c.Get(g), g.String())
	}
	assertDecimal(t, "11.4", c.Total())
}

func TestCount_GroupsAreSums(t *testing.T) {
	for _, labels := range [][]string{
		{"己巳", "丁丑", "庚辰", "癸未"},
		{"甲子", "丙寅", "戊辰", "庚申"},
		{"壬戌", "癸亥", "甲子", "乙丑"},
	} {
		c := tengod.Count(tengod.Annotate(chart(t, labels...)))
		for _, g := range sexagenary.TenGodGroups {
			m := g.Members()
			assert.True(t, c.Get(g).Equal(c.Get(m[0]).Add(c.Get(m[1]))), g.String())
		}
	}
}

func TestCount_Share(t *testing.T) {
	c := tengod.Count(reference(t))
	share := c.Share(sexagenary.GroupIn).InexactFloat64()
	assert.InDelta(t, 4.4/11.4, share, 1e-9)

	assert.True(t, tengod.Counts{}.Share(sexagenary.GroupIn).IsZero())
}

func TestCounts_JSON(t *testing.T) {
	c := tengod.Count(reference(t))

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Len(t, m, 15)
	assert.Equal(t, "4.4", m["印"])
	assert.Equal(t, "3", m["正印"])

	var back tengod.Counts
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, c.Total().Equal(back.Total()))
}

// =============================================================================
// ELEMENT PROFILE
// =============================================================================

func TestProfile_ReferenceChart(t *testing.T) {
	ep := tengod.Profile(reference(t))

	assertDecimal(t, "1.1", ep.Get(sexagenary.Wood))
	assertDecimal(t, "2.7", ep.Get(sexagenary.Fire))
	assertDecimal(t, "4.4", ep.Get(sexagenary.Earth))
	assertDecimal(t, "2.1", ep.Get(sexagenary.Metal))
	assertDecimal(t, "2.1", ep.Get(sexagenary.Water))
	assertDecimal(t, "12.4", ep.Total())
	assert.Equal(t, sexagenary.Earth, ep.Strongest())
	assert.Equal(t, sexagenary.Wood, ep.Weakest())
}

func TestProfile_EnhancementBonus(t *testing.T) {
	fp := reference(t)
	base := tengod.Profile(fp)

	fire := sexagenary.Fire
	fp[pillars.Year].EnhancedElement = &fire
	fp[pillars.Hour].EnhancedElement = &fire

	got := tengod.Profile(fp)
	assert.True(t, got.Get(sexagenary.Fire).Sub(base.Get(sexagenary.Fire)).Equal(decimal.NewFromInt(1)))
}
