package fortune_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/saju-engine/fortune"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/sexagenary"
)

func reference() pillars.FourPillars {
	var fp pillars.FourPillars
	fp[pillars.Year] = pillars.Pillar{Stem: sexagenary.Ji, Branch: sexagenary.Snake}
	fp[pillars.Month] = pillars.Pillar{Stem: sexagenary.Ding, Branch: sexagenary.Ox}
	fp[pillars.Day] = pillars.Pillar{Stem: sexagenary.Geng, Branch: sexagenary.Dragon}
	fp[pillars.Hour] = pillars.Pillar{Stem: sexagenary.Gui, Branch: sexagenary.Goat}
	return fp
}

func TestFortunes_ReferenceChart(t *testing.T) {
	got := fortune.Fortunes(reference())

	assert.Equal(t, fortune.TwelveFortunes{fortune.Chousei, fortune.Bo, fortune.You, fortune.Kantai}, got)
}

func TestStageOf_YangForwardYinBackward(t *testing.T) {
	// 甲 is born at 亥 and peaks at 卯
	assert.Equal(t, fortune.Chousei, fortune.StageOf(sexagenary.Jia, sexagenary.Pig))
	assert.Equal(t, fortune.Teiou, fortune.StageOf(sexagenary.Jia, sexagenary.Rabbit))

	// 乙 is born at 午 and peaks at 寅
	assert.Equal(t, fortune.Chousei, fortune.StageOf(sexagenary.Yi, sexagenary.Horse))
	assert.Equal(t, fortune.Mokuyoku, fortune.StageOf(sexagenary.Yi, sexagenary.Snake))
	assert.Equal(t, fortune.Teiou, fortune.StageOf(sexagenary.Yi, sexagenary.Tiger))
}

func TestStageOf_EveryStemVisitsEveryStage(t *testing.T) {
	for s := sexagenary.Jia; s <= sexagenary.Gui; s++ {
		seen := map[fortune.Stage]bool{}
		for b := sexagenary.Rat; b <= sexagenary.Pig; b++ {
			seen[fortune.StageOf(s, b)] = true
		}
		assert.Len(t, seen, 12, s.String())
	}
}

func TestSpiritKillers_ReferenceChart(t *testing.T) {
	got := fortune.SpiritKillers(reference())

	assert.Equal(t, fortune.TwelveSpiritKillers{
		fortune.Chisatsu, fortune.Kagaisatsu, fortune.Tensatsu, fortune.Getsusatsu,
	}, got)
}

func TestKillerStart_ByTriad(t *testing.T) {
	tests := map[sexagenary.Branch]sexagenary.Branch{
		sexagenary.Monkey: sexagenary.Snake, sexagenary.Rat: sexagenary.Snake, sexagenary.Dragon: sexagenary.Snake,
		sexagenary.Tiger: sexagenary.Pig, sexagenary.Horse: sexagenary.Pig, sexagenary.Dog: sexagenary.Pig,
		sexagenary.Snake: sexagenary.Tiger, sexagenary.Rooster: sexagenary.Tiger, sexagenary.Ox: sexagenary.Tiger,
		sexagenary.Pig: sexagenary.Monkey, sexagenary.Rabbit: sexagenary.Monkey, sexagenary.Goat: sexagenary.Monkey,
	}
	for base, want := range tests {
		assert.Equal(t, want, fortune.KillerStart(base), base.String())
	}
}

func TestJSON_KeyedByPosition(t *testing.T) {
	raw, err := json.Marshal(fortune.Fortunes(reference()))
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, map[string]string{"year": "長生", "month": "墓", "day": "養", "hour": "冠帯"}, m)
}

func TestStage_UnmarshalText(t *testing.T) {
	var s fortune.Stage
	require.NoError(t, s.UnmarshalText([]byte("帝旺")))
	assert.Equal(t, fortune.Teiou, s)
	assert.Error(t, s.UnmarshalText([]byte("?")))
}
