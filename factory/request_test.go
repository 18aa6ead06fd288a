package factory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/saju"
)

func TestParseRequest_NameLocation(t *testing.T) {
	// GIVEN: A birth document with a place name and a decimal hour
	f := NewFactory()
	doc := `{"birth_date":"1990-01-15","birth_hour":13.5,"gender":"m","location":"Tokyo, Japan"}`

	// WHEN: Parsing
	in, patch, err := f.ParseRequest(doc)

	// THEN: The input carries every field and the patch is empty
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), in.BirthDate)
	assert.Equal(t, 13.5, in.BirthHour)
	assert.Equal(t, saju.Male, in.Gender)
	assert.Equal(t, location.ByName("Tokyo, Japan"), in.Location)
	assert.True(t, patch.IsEmpty())
}

func TestParseRequest_ClockStringAndCoordinates(t *testing.T) {
	// GIVEN: A clock string and a coordinate object
	f := NewFactory()
	doc := `{"birth_date":"2000-06-01","birth_hour":"07:45:36","gender":"F",
		"location":{"latitude":43.06,"longitude":141.35,"time_zone":"Asia/Tokyo"}}`

	// WHEN: Parsing
	in, _, err := f.ParseRequest(doc)

	// THEN: The hour is decimal and the coordinates are kept
	require.NoError(t, err)
	assert.InDelta(t, 7.76, in.BirthHour, 1e-9)
	require.NotNil(t, in.Location.Coordinates)
	assert.Equal(t, 141.35, in.Location.Coordinates.Longitude)
	assert.Equal(t, "Asia/Tokyo", in.Location.TimeZone)
}

func TestParseRequest_Options(t *testing.T) {
	// GIVEN: A document carrying an options block
	f := NewFactory()
	doc := `{"birth_date":"1990-01-15","birth_hour":13.5,"gender":"M",
		"options":{"use_dst":false,"reference_standard_meridian":120,
		"regional_adjustments":[{"time_zone":"Asia/Tokyo","from":"1900-01-01","minutes":3}]}}`

	// WHEN: Parsing and applying the patch
	_, patch, err := f.ParseRequest(doc)
	require.NoError(t, err)
	cfg := patch.Apply(saju.DefaultConfig())

	// THEN: Only named options change
	assert.False(t, cfg.UseDST)
	assert.True(t, cfg.UseLocalTime)
	assert.Equal(t, 120.0, cfg.ReferenceStandardMeridian)
	require.Len(t, cfg.RegionalAdjustments, 1)
	assert.Equal(t, 3, cfg.RegionalAdjustments[0].Minutes)
	assert.True(t, cfg.RegionalAdjustments[0].To.IsZero())
}

func TestParseRequest_Rejections(t *testing.T) {
	f := NewFactory()
	tests := []struct {
		name      string
		doc       string
		wantInput bool
	}{
		{"malformed JSON", `{"birth_date":`, false},
		{"bad date", `{"birth_date":"15/01/1990","birth_hour":1,"gender":"M"}`, true},
		{"bad gender", `{"birth_date":"1990-01-15","birth_hour":1,"gender":"X"}`, true},
		{"hour out of range", `{"birth_date":"1990-01-15","birth_hour":24,"gender":"M"}`, true},
		{"year out of range", `{"birth_date":"1799-12-31","birth_hour":1,"gender":"M"}`, true},
		{"half coordinates", `{"birth_date":"1990-01-15","birth_hour":1,"gender":"M","location":{"latitude":35}}`, true},
		{"bad clock", `{"birth_date":"1990-01-15","birth_hour":"25:00","gender":"M"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.ParseRequest(tt.doc)
			require.Error(t, err)
			assert.Equal(t, tt.wantInput, saju.IsInputError(err))
		})
	}
}

func TestParseOptions_BadRegionalDate(t *testing.T) {
	// GIVEN: A regional entry with an unreadable date
	f := NewFactory()

	// WHEN: Parsing
	_, err := f.ParseOptions(`{"regional_adjustments":[{"time_zone":"Asia/Tokyo","from":"soon","minutes":3}]}`)

	// THEN: It is a configuration error the client can fix
	require.Error(t, err)
	assert.ErrorIs(t, err, saju.ErrInvalidConfig)
	assert.True(t, saju.IsClientError(err))
}

func TestToJSON_RoundTrip(t *testing.T) {
	// GIVEN: An input with a named, coordinate-carrying location
	f := NewFactory()
	in := saju.Input{
		BirthDate: time.Date(1985, 11, 3, 0, 0, 0, 0, time.UTC),
		BirthHour: 22.25,
		Gender:    saju.Female,
		Location: location.Query{
			Name:        "Osaka",
			Coordinates: &location.Coordinates{Latitude: 34.69, Longitude: 135.5},
		},
	}

	// WHEN: Writing the document and reading it back
	raw, err := json.Marshal(f.ToJSON(in))
	require.NoError(t, err)
	got, _, err := f.ParseRequest(string(raw))

	// THEN: Nothing is lost
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestLocationJSON_BareNameMarshalsAsString(t *testing.T) {
	raw, err := json.Marshal(LocationJSON{Name: "Seoul"})
	require.NoError(t, err)
	assert.JSONEq(t, `"Seoul"`, string(raw))
}

func TestOptionsToJSON_Complete(t *testing.T) {
	// GIVEN: The default configuration
	f := NewFactory()
	cfg := saju.DefaultConfig()

	// WHEN: Converting to a document and back
	patch, err := f.OptionsFromJSON(f.OptionsToJSON(cfg))
	require.NoError(t, err)

	// THEN: Applying it to any base reproduces the defaults
	base := saju.Config{ReferenceStandardMeridian: 0}
	assert.Equal(t, cfg, patch.Apply(base))
}

func TestParseClock(t *testing.T) {
	v, err := ParseClock("23:59")
	require.NoError(t, err)
	assert.InDelta(t, 23+59.0/60, v, 1e-9)

	_, err = ParseClock("12")
	assert.Error(t, err)
	_, err = ParseClock("12:60")
	assert.Error(t, err)
}
