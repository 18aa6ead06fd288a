package saju

import (
	"time"

	"github.com/warp/saju-engine/combination"
	"github.com/warp/saju-engine/fortune"
	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/luck"
	"github.com/warp/saju-engine/pattern"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/solartime"
	"github.com/warp/saju-engine/tengod"
	"github.com/warp/saju-engine/yojin"
)

// =============================================================================
// RESULT
// =============================================================================

// SolarTerm records where the sun stood when the pillars were cast.
type SolarTerm struct {
	Year      int     `json:"year"`
	Longitude float64 `json:"longitude"`
	MonthTerm string  `json:"monthTerm"`
}

// Result is everything one calculation produces. It holds no reference to
// engine state and may be shared freely.
type Result struct {
	Gender              Gender                      `json:"gender"`
	FourPillars         pillars.FourPillars         `json:"fourPillars"`
	TenGods             tengod.Counts               `json:"tenGods"`
	ElementProfile      tengod.ElementProfile       `json:"elementProfile"`
	TwelveFortunes      fortune.TwelveFortunes      `json:"twelveFortunes"`
	TwelveSpiritKillers fortune.TwelveSpiritKillers `json:"twelveSpiritKillers"`
	Kakukyoku           pattern.Kakukyoku           `json:"kakukyoku"`
	Yojin               yojin.Yojin                 `json:"yojin"`
	Combinations        []combination.Event         `json:"combinations"`
	Luck                luck.Cycle                  `json:"luck"`
	TimezoneInfo        solartime.Info              `json:"timezoneInfo"`
	Location            location.Summary            `json:"location"`
	SolarTerm           SolarTerm                   `json:"solarTerm"`

	// Options is the option set this result was calculated under.
	Options Config `json:"options"`

	// ProcessedDateTime is the adjusted wall time the pillars were cast from.
	ProcessedDateTime time.Time `json:"processedDateTime"`
}

// DayMaster is the day stem.
func (r *Result) DayMaster() string { return r.FourPillars.DayMaster().String() }
