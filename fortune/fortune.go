/*
Package fortune holds the two per-pillar lookups that annotate a chart
without changing it: the twelve fortunes (十二運) and the twelve spirit
killers (十二神殺).

TWELVE FORTUNES:
  The day stem's life cycle read at each pillar's branch. Every stem is born
  (長生) at a fixed branch; yang stems walk the cycle forward through the
  branches, yin stems backward.

    甲亥 乙午 丙寅 丁酉 戊寅 己酉 庚巳 辛子 壬申 癸卯

TWELVE SPIRIT KILLERS:
  Keyed by the year branch's triad. 劫殺 sits on the branch after the
  triad's last member, the rest follow forward in order.

    申子辰→巳  寅午戌→亥  巳酉丑→寅  亥卯未→申
*/
package fortune

import (
	"encoding/json"
	"fmt"

	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/sexagenary"
)

// =============================================================================
// TWELVE FORTUNES
// =============================================================================

// Stage is one of the twelve life stages, 長生 first.
type Stage int

const (
	Chousei  Stage = iota // 長生
	Mokuyoku              // 沐浴
	Kantai                // 冠帯
	Kenroku               // 建禄
	Teiou                 // 帝旺
	Sui                   // 衰
	Byou                  // 病
	Shi                   // 死
	Bo                    // 墓
	Zetsu                 // 絶
	Tai                   // 胎
	You                   // 養
)

var stageNames = [12]string{"長生", "沐浴", "冠帯", "建禄", "帝旺", "衰", "病", "死", "墓", "絶", "胎", "養"}

func (s Stage) String() string {
	if s < Chousei || s > You {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stage) UnmarshalText(b []byte) error {
	for i, n := range stageNames {
		if n == string(b) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("fortune: unknown stage %q", b)
}

var birthBranch = [10]sexagenary.Branch{
	sexagenary.Pig,     // 甲
	sexagenary.Horse,   // 乙
	sexagenary.Tiger,   // 丙
	sexagenary.Rooster, // 丁
	sexagenary.Tiger,   // 戊
	sexagenary.Rooster, // 己
	sexagenary.Snake,   // 庚
	sexagenary.Rat,     // 辛
	sexagenary.Monkey,  // 壬
	sexagenary.Rabbit,  // 癸
}

// StageOf returns the stage of stem s at branch b.
func StageOf(s sexagenary.Stem, b sexagenary.Branch) Stage {
	start := int(birthBranch[s])
	if s.Polarity() == sexagenary.Yang {
		return Stage(mod(int(b)-start, 12))
	}
	return Stage(mod(start-int(b), 12))
}

// TwelveFortunes is the day stem's stage at each pillar.
type TwelveFortunes [4]Stage

// Fortunes reads the day master's stage at every branch.
func Fortunes(fp pillars.FourPillars) TwelveFortunes {
	var out TwelveFortunes
	dm := fp.DayMaster()
	for _, pos := range pillars.Positions {
		out[pos] = StageOf(dm, fp[pos].Branch)
	}
	return out
}

func (tf TwelveFortunes) MarshalJSON() ([]byte, error) { return marshalByPosition(tf[:]) }

// =============================================================================
// TWELVE SPIRIT KILLERS
// =============================================================================

// Killer is one of the twelve spirit killers, 劫殺 first.
type Killer int

const (
	Kousatsu     Killer = iota // 劫殺
	Saisatsu                   // 災殺
	Tensatsu                   // 天殺
	Chisatsu                   // 地殺
	Nensatsu                   // 年殺
	Getsusatsu                 // 月殺
	Boushinsatsu               // 亡身殺
	Shouseisatsu               // 将星殺
	Hanansatsu                 // 攀鞍殺
	Ekibasatsu                 // 駅馬殺
	Rokugaisatsu               // 六害殺
	Kagaisatsu                 // 華蓋殺
)

var killerNames = [12]string{"劫殺", "災殺", "天殺", "地殺", "年殺", "月殺", "亡身殺", "将星殺", "攀鞍殺", "駅馬殺", "六害殺", "華蓋殺"}

func (k Killer) String() string {
	if k < Kousatsu || k > Kagaisatsu {
		return fmt.Sprintf("Killer(%d)", int(k))
	}
	return killerNames[k]
}

func (k Killer) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Killer) UnmarshalText(b []byte) error {
	for i, n := range killerNames {
		if n == string(b) {
			*k = Killer(i)
			return nil
		}
	}
	return fmt.Errorf("fortune: unknown spirit killer %q", b)
}

// KillerStart is the branch carrying 劫殺 for charts whose year branch is
// base.
func KillerStart(base sexagenary.Branch) sexagenary.Branch {
	triad := sexagenary.Triad(base)
	return triad[2].Next(1)
}

// KillerOf returns the spirit killer at branch b for year branch base.
func KillerOf(base, b sexagenary.Branch) Killer {
	return Killer(mod(int(b)-int(KillerStart(base)), 12))
}

// TwelveSpiritKillers is the spirit killer at each pillar.
type TwelveSpiritKillers [4]Killer

// SpiritKillers reads every branch against the year branch.
func SpiritKillers(fp pillars.FourPillars) TwelveSpiritKillers {
	var out TwelveSpiritKillers
	base := fp[pillars.Year].Branch
	for _, pos := range pillars.Positions {
		out[pos] = KillerOf(base, fp[pos].Branch)
	}
	return out
}

func (tk TwelveSpiritKillers) MarshalJSON() ([]byte, error) { return marshalByPosition(tk[:]) }

// =============================================================================
// HELPERS
// =============================================================================

func marshalByPosition[T fmt.Stringer](values []T) ([]byte, error) {
	m := make(map[string]string, len(values))
	for i, v := range values {
		m[pillars.Position(i).String()] = v.String()
	}
	return json.Marshal(m)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
