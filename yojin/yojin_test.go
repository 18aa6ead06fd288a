package yojin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/saju-engine/pattern"
	"github.com/warp/saju-engine/sexagenary"
	"github.com/warp/saju-engine/yojin"
)

func TestResolve_ReferenceChart(t *testing.T) {
	// GIVEN a neutral 印綬格 chart with a 庚 day master
	y := yojin.Resolve(sexagenary.Geng, pattern.Kakukyoku{Type: pattern.Injyu, Strength: pattern.Neutral})

	// THEN resource (earth for metal) is protected, officers (fire) help
	assert.Equal(t, sexagenary.GroupIn, y.TenGod)
	assert.Equal(t, sexagenary.Earth, y.Element)
	require.NotNil(t, y.Kijin)
	assert.Equal(t, sexagenary.GroupKansatsu, y.Kijin.TenGod)
	assert.Equal(t, sexagenary.Fire, y.Kijin.Element)
	require.NotNil(t, y.Kijin2)
	assert.Equal(t, sexagenary.GroupZai, y.Kijin2.TenGod)
	assert.Equal(t, sexagenary.Wood, y.Kijin2.Element)
	assert.Nil(t, y.Kyujin)
	assert.Contains(t, y.Description, "印綬格")
}

func TestResolve_WeakChartLeansOnSupport(t *testing.T) {
	y := yojin.Resolve(sexagenary.Jia, pattern.Kakukyoku{Type: pattern.Seikan, Strength: pattern.Weak})

	assert.Equal(t, sexagenary.GroupIn, y.TenGod)
	assert.Equal(t, sexagenary.Water, y.Element)
	require.NotNil(t, y.Kyujin)
	assert.Equal(t, sexagenary.GroupShokushou, y.Kyujin.TenGod)
	assert.Equal(t, sexagenary.Fire, y.Kyujin.Element)
}

func TestResolve_SpecialIgnoresStrength(t *testing.T) {
	a := yojin.Resolve(sexagenary.Bing, pattern.Kakukyoku{Type: pattern.Juzai, Strength: pattern.Weak})
	b := yojin.Resolve(sexagenary.Bing, pattern.Kakukyoku{Type: pattern.Juzai, Strength: pattern.Strong})

	assert.Equal(t, sexagenary.GroupZai, a.TenGod)
	assert.Equal(t, sexagenary.Metal, a.Element)
	assert.Equal(t, a.TenGod, b.TenGod)
}

func TestResolve_EveryPatternAndStrength(t *testing.T) {
	for _, typ := range pattern.Types {
		for _, s := range []pattern.Strength{pattern.Strong, pattern.Neutral, pattern.Weak} {
			assert.NotPanics(t, func() {
				y := yojin.Resolve(sexagenary.Wu, pattern.Kakukyoku{Type: typ, Strength: s})
				assert.True(t, y.TenGod.IsGroup())
				assert.NotEqual(t, y.TenGod, y.Kijin2.TenGod)
			}, "%s/%s", typ, s)
		}
	}
}

func TestResolve_UnknownStrengthPanics(t *testing.T) {
	assert.Panics(t, func() {
		yojin.Resolve(sexagenary.Wu, pattern.Kakukyoku{Type: pattern.Seikan, Strength: "sideways"})
	})
}
