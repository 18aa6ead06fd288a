/*
Package factory provides JSON to Go conversion for chart requests.

PURPOSE:
  Converts JSON birth records and option documents into saju.Input and
  saju.Patch values. Profiles in the store, scenario files and the HTTP API
  all speak this one document shape, so a birth saved by one can be replayed
  by another.

JSON SCHEMA:
  {
    "birth_date": "1990-01-15",
    "birth_hour": 13.5,
    "gender": "M",
    "location": "Tokyo, Japan",
    "options": {
      "use_local_time": true,
      "use_dst": true,
      "reference_standard_meridian": 135,
      "regional_adjustments": [
        {"time_zone": "Asia/Tokyo", "from": "1900-01-01", "minutes": 3}
      ]
    }
  }

  birth_hour accepts a decimal hour (13.5) or a clock string ("13:30",
  "13:30:15"). location accepts a place name, a coordinate object
  ({"latitude": 35.0, "longitude": 139.0}) or a full object with name,
  country, time_zone and coordinates.

USAGE:
  f := NewFactory()

  in, patch, err := f.ParseRequest(jsonString)
  cfg := patch.Apply(calc.Options())

  patch, err := f.ParseOptions(`{"use_dst": false}`)

SEE ALSO:
  - saju/input.go:  Input
  - saju/config.go: Config, Patch
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/saju"
	"github.com/warp/saju-engine/solartime"
)

const dateLayout = "2006-01-02"

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RequestJSON is the JSON representation of one birth.
type RequestJSON struct {
	BirthDate string        `json:"birth_date"`
	BirthHour HourJSON      `json:"birth_hour"`
	Gender    string        `json:"gender"`
	Location  *LocationJSON `json:"location,omitempty"`
	Options   *OptionsJSON  `json:"options,omitempty"`
}

// HourJSON is a decimal hour that also unmarshals from "HH:MM[:SS]".
type HourJSON float64

// LocationJSON is a place name or an object.
type LocationJSON struct {
	Name      string   `json:"name,omitempty"`
	Country   string   `json:"country,omitempty"`
	TimeZone  string   `json:"time_zone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// OptionsJSON is a partial option set. Absent fields are left alone.
type OptionsJSON struct {
	UseLocalTime              *bool          `json:"use_local_time,omitempty"`
	UseDST                    *bool          `json:"use_dst,omitempty"`
	UseHistoricalDST          *bool          `json:"use_historical_dst,omitempty"`
	UseStandardTimeZone       *bool          `json:"use_standard_time_zone,omitempty"`
	UseSecondsPrecision       *bool          `json:"use_seconds_precision,omitempty"`
	ReferenceStandardMeridian *float64       `json:"reference_standard_meridian,omitempty"`
	UseInternationalMode      *bool          `json:"use_international_mode,omitempty"`
	RegionalAdjustments       []RegionalJSON `json:"regional_adjustments,omitempty"`
}

// RegionalJSON is one extra correction entry. "to" may be omitted for an
// open-ended window.
type RegionalJSON struct {
	TimeZone string `json:"time_zone"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Minutes  int    `json:"minutes"`
	Note     string `json:"note,omitempty"`
}

// =============================================================================
// FLEXIBLE FIELDS
// =============================================================================

func (h *HourJSON) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseClock(s)
		if err != nil {
			return err
		}
		*h = HourJSON(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("birth_hour must be a number or \"HH:MM\": %w", err)
	}
	*h = HourJSON(f)
	return nil
}

// ParseClock reads "HH:MM" or "HH:MM:SS" as a decimal hour.
func ParseClock(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM or HH:MM:SS", s)
	}
	limits := []int{24, 60, 60}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n >= limits[i] {
			return 0, fmt.Errorf("invalid clock %q", s)
		}
		fields[i] = n
	}
	return float64(fields[0]) + float64(fields[1])/60 + float64(fields[2])/3600, nil
}

func (l *LocationJSON) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &l.Name)
	}
	type plain LocationJSON
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = LocationJSON(p)
	return nil
}

// MarshalJSON writes a bare name as a string.
func (l LocationJSON) MarshalJSON() ([]byte, error) {
	if l.Country == "" && l.TimeZone == "" && l.Latitude == nil && l.Longitude == nil {
		return json.Marshal(l.Name)
	}
	type plain LocationJSON
	return json.Marshal(plain(l))
}

// =============================================================================
// FACTORY
// =============================================================================

// Factory converts JSON documents to engine values.
type Factory struct{}

// NewFactory creates a new factory.
func NewFactory() *Factory {
	return &Factory{}
}

// ParseRequest parses a JSON string into an Input and the option patch it
// carries. The patch is empty when the document has no options.
func (f *Factory) ParseRequest(jsonStr string) (saju.Input, saju.Patch, error) {
	var rj RequestJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return saju.Input{}, saju.Patch{}, fmt.Errorf("failed to parse request JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// ParseOptions parses a JSON options document.
func (f *Factory) ParseOptions(jsonStr string) (saju.Patch, error) {
	var oj OptionsJSON
	if err := json.Unmarshal([]byte(jsonStr), &oj); err != nil {
		return saju.Patch{}, fmt.Errorf("failed to parse options JSON: %w", err)
	}
	return f.OptionsFromJSON(oj)
}

// FromJSON converts RequestJSON to an Input and Patch. Field problems come
// back as *saju.InputError or *saju.ConfigError.
func (f *Factory) FromJSON(rj RequestJSON) (saju.Input, saju.Patch, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(rj.BirthDate))
	if err != nil {
		return saju.Input{}, saju.Patch{}, &saju.InputError{Field: "birthDate", Value: rj.BirthDate, Reason: "must be YYYY-MM-DD"}
	}
	gender, err := saju.ParseGender(rj.Gender)
	if err != nil {
		return saju.Input{}, saju.Patch{}, err
	}

	in := saju.Input{
		BirthDate: date,
		BirthHour: float64(rj.BirthHour),
		Gender:    gender,
	}
	if rj.Location != nil {
		q, err := parseLocation(*rj.Location)
		if err != nil {
			return saju.Input{}, saju.Patch{}, err
		}
		in.Location = q
	}
	if err := in.Validate(); err != nil {
		return saju.Input{}, saju.Patch{}, err
	}

	var patch saju.Patch
	if rj.Options != nil {
		if patch, err = f.OptionsFromJSON(*rj.Options); err != nil {
			return saju.Input{}, saju.Patch{}, err
		}
	}
	return in, patch, nil
}

// OptionsFromJSON converts OptionsJSON to a Patch.
func (f *Factory) OptionsFromJSON(oj OptionsJSON) (saju.Patch, error) {
	p := saju.Patch{
		UseLocalTime:              oj.UseLocalTime,
		UseDST:                    oj.UseDST,
		UseHistoricalDST:          oj.UseHistoricalDST,
		UseStandardTimeZone:       oj.UseStandardTimeZone,
		UseSecondsPrecision:       oj.UseSecondsPrecision,
		ReferenceStandardMeridian: oj.ReferenceStandardMeridian,
		UseInternationalMode:      oj.UseInternationalMode,
	}
	if oj.RegionalAdjustments != nil {
		regional := make([]solartime.RegionalAdjustment, 0, len(oj.RegionalAdjustments))
		for _, rj := range oj.RegionalAdjustments {
			r, err := parseRegional(rj)
			if err != nil {
				return saju.Patch{}, err
			}
			regional = append(regional, r)
		}
		p.RegionalAdjustments = &regional
	}
	return p, nil
}

// ToJSON converts an Input back to its document form. Hours are written
// as decimals.
func (f *Factory) ToJSON(in saju.Input) RequestJSON {
	rj := RequestJSON{
		BirthDate: in.BirthDate.Format(dateLayout),
		BirthHour: HourJSON(in.BirthHour),
		Gender:    string(in.Gender),
	}
	if !in.Location.IsZero() {
		q := in.Location
		lj := &LocationJSON{Name: q.Name, Country: q.Country, TimeZone: q.TimeZone}
		if q.Coordinates != nil {
			lat, lon := q.Coordinates.Latitude, q.Coordinates.Longitude
			lj.Latitude, lj.Longitude = &lat, &lon
		}
		rj.Location = lj
	}
	return rj
}

// OptionsToJSON converts a full Config to a document with every field set.
func (f *Factory) OptionsToJSON(c saju.Config) OptionsJSON {
	oj := OptionsJSON{
		UseLocalTime:              &c.UseLocalTime,
		UseDST:                    &c.UseDST,
		UseHistoricalDST:          &c.UseHistoricalDST,
		UseStandardTimeZone:       &c.UseStandardTimeZone,
		UseSecondsPrecision:       &c.UseSecondsPrecision,
		ReferenceStandardMeridian: &c.ReferenceStandardMeridian,
		UseInternationalMode:      &c.UseInternationalMode,
	}
	for _, r := range c.RegionalAdjustments {
		rj := RegionalJSON{TimeZone: r.TimeZone, From: r.From.Format(dateLayout), Minutes: r.Minutes, Note: r.Note}
		if !r.To.IsZero() {
			rj.To = r.To.Format(dateLayout)
		}
		oj.RegionalAdjustments = append(oj.RegionalAdjustments, rj)
	}
	return oj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseLocation(lj LocationJSON) (location.Query, error) {
	q := location.Query{
		Name:     strings.TrimSpace(lj.Name),
		Country:  strings.TrimSpace(lj.Country),
		TimeZone: strings.TrimSpace(lj.TimeZone),
	}
	switch {
	case lj.Latitude == nil && lj.Longitude == nil:
	case lj.Latitude == nil || lj.Longitude == nil:
		return location.Query{}, &saju.InputError{Field: "location", Value: lj, Reason: "latitude and longitude go together"}
	default:
		q.Coordinates = &location.Coordinates{Latitude: *lj.Latitude, Longitude: *lj.Longitude}
	}
	return q, nil
}

func parseRegional(rj RegionalJSON) (solartime.RegionalAdjustment, error) {
	r := solartime.RegionalAdjustment{
		TimeZone: rj.TimeZone,
		Minutes:  rj.Minutes,
		Note:     rj.Note,
	}
	from, err := time.Parse(dateLayout, rj.From)
	if err != nil {
		return r, &saju.ConfigError{Field: "regionalAdjustments", Reason: fmt.Sprintf("invalid from date %q", rj.From)}
	}
	r.From = from
	if rj.To != "" {
		to, err := time.Parse(dateLayout, rj.To)
		if err != nil {
			return r, &saju.ConfigError{Field: "regionalAdjustments", Reason: fmt.Sprintf("invalid to date %q", rj.To)}
		}
		r.To = to
	}
	return r, nil
}
