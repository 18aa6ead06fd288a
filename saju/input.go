package saju

import (
	"math"
	"strings"
	"time"

	"github.com/warp/saju-engine/location"
)

// =============================================================================
// INPUT
// =============================================================================

const (
	MinYear = 1800
	MaxYear = 2200
)

// Gender selects the direction of the luck pillars.
type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender accepts M/F in any case, and male/female.
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return Male, nil
	case "F", "FEMALE":
		return Female, nil
	}
	return "", &InputError{Field: "gender", Value: s, Reason: "must be M or F"}
}

// Input is one birth to calculate.
type Input struct {
	// BirthDate is the civil date; clock fields are ignored.
	BirthDate time.Time `json:"birthDate"`
	// BirthHour is the clock time as a decimal hour: 13.5 is 13:30.
	BirthHour float64        `json:"birthHour"`
	Gender    Gender         `json:"gender"`
	Location  location.Query `json:"location"`
}

// Validate rejects out-of-range input before any stage runs.
func (in Input) Validate() error {
	if y := in.BirthDate.Year(); y < MinYear || y > MaxYear {
		return &InputError{Field: "birthDate", Value: in.BirthDate.Format("2006-01-02"), Reason: "year must be within [1800, 2200]"}
	}
	if math.IsNaN(in.BirthHour) || in.BirthHour < 0 || in.BirthHour >= 24 {
		return &InputError{Field: "birthHour", Value: in.BirthHour, Reason: "must be within [0, 24)"}
	}
	if in.Gender != Male && in.Gender != Female {
		return &InputError{Field: "gender", Value: in.Gender, Reason: "must be M or F"}
	}
	return nil
}

// Clock is the civil wall time of the birth, UTC-located, to the second.
func (in Input) Clock() time.Time {
	secs := int(math.Round(in.BirthHour * 3600))
	if secs >= 24*3600 {
		secs = 24*3600 - 1
	}
	d := in.BirthDate
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, secs, 0, time.UTC)
}

// DecimalHour converts a clock reading to the decimal hour Input expects.
func DecimalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
