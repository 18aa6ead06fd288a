/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with births
  whose charts show one engine feature each. Every birth is saved as a
  profile and charted under one or more option sets, so the chart history
  of a profile shows the feature side by side.

AVAILABLE SCENARIOS:
  reference:        1990-01-15 13:00 Tokyo, minute and second precision
  occupation-dst:   A 1950 Tokyo summer birth with and without the
                    historical summer-time window
  japan-longitude:  One civil time in five Japanese cities, east to west
  overseas:         Seoul and New York in international mode, plus an
                    unplaceable birthplace

HOW SCENARIOS WORK:
  1. Reset database (clear all data)
  2. Save each birth as a profile
  3. Chart each profile once per option variant

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "occupation-dst"}

ADDING NEW SCENARIOS:
  1. Append to 'scenarios' with ID, name, description and births
  2. Give a birth Variants to chart it under several option sets

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Profile and chart handlers the loaders reuse
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/warp/saju-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenarioBirth struct {
	Name     string
	Birth    factory.RequestJSON
	Variants []factory.OptionsJSON // nil charts once with the birth's own options
}

type scenario struct {
	ScenarioDTO
	births []scenarioBirth
}

func birth(date string, hour float64, gender, place string) factory.RequestJSON {
	return factory.RequestJSON{
		BirthDate: date,
		BirthHour: factory.HourJSON(hour),
		Gender:    gender,
		Location:  &factory.LocationJSON{Name: place},
	}
}

func on() *bool  { v := true; return &v }
func off() *bool { v := false; return &v }

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "reference",
			Name:        "Reference Birth",
			Description: "1990-01-15 13:00 in Tokyo: 己巳 丁丑 庚辰 癸未, charted to the minute and to the second",
			Category:    "baseline",
		},
		births: []scenarioBirth{{
			Name:  "Reference",
			Birth: birth("1990-01-15", 13, "M", "Tokyo, Japan"),
			Variants: []factory.OptionsJSON{
				{},
				{UseSecondsPrecision: on()},
			},
		}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "occupation-dst",
			Name:        "Occupation Summer Time",
			Description: "A July 1950 Tokyo birth charted with and without the 1948-1951 summer-time window",
			Category:    "timezone",
		},
		births: []scenarioBirth{{
			Name:  "Summer 1950",
			Birth: birth("1950-07-01", 12, "F", "Tokyo"),
			Variants: []factory.OptionsJSON{
				{UseHistoricalDST: on()},
				{UseHistoricalDST: off()},
			},
		}},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "japan-longitude",
			Name:        "Japan East to West",
			Description: "The same civil time in Nemuro, Tokyo, Osaka, Fukuoka and Naha; only the longitude correction differs",
			Category:    "longitude",
		},
		births: []scenarioBirth{
			{Name: "Nemuro", Birth: birth("2001-03-21", 11.1, "M", "Nemuro")},
			{Name: "Tokyo", Birth: birth("2001-03-21", 11.1, "M", "Tokyo")},
			{Name: "Osaka", Birth: birth("2001-03-21", 11.1, "M", "Osaka")},
			{Name: "Fukuoka", Birth: birth("2001-03-21", 11.1, "M", "Fukuoka")},
			{Name: "Naha", Birth: birth("2001-03-21", 11.1, "M", "Naha")},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "overseas",
			Name:        "Overseas Births",
			Description: "Seoul and New York charted in their own frame, and a birthplace that cannot be placed",
			Category:    "international",
		},
		births: []scenarioBirth{
			{
				Name:     "Seoul",
				Birth:    birth("1988-09-17", 20.5, "F", "Seoul"),
				Variants: []factory.OptionsJSON{{}, {UseInternationalMode: on()}},
			},
			{
				Name:     "New York",
				Birth:    birth("1995-07-04", 9, "M", "New York"),
				Variants: []factory.OptionsJSON{{UseInternationalMode: on()}},
			},
			{Name: "Unknown place", Birth: birth("1975-12-01", 6, "F", "Atlantis")},
		},
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	id := h.currentScenario
	h.mu.Unlock()

	if s, ok := findScenario(id); ok {
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	resp, err := h.loadScenario(r.Context(), s)
	if err != nil {
		h.currentScenario = ""
		h.fail(w, r, fmt.Sprintf("Failed to load scenario %s", s.ID), err)
		return
	}
	h.currentScenario = s.ID
	h.Logger.Info("scenario loaded", zap.String("scenario", s.ID), zap.Int("charts", resp.Charts))
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// SCENARIO LOADER
// =============================================================================

func (h *Handler) loadScenario(ctx context.Context, s scenario) (*LoadScenarioResponse, error) {
	if err := h.Store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset database: %w", err)
	}

	resp := &LoadScenarioResponse{Scenario: s.ScenarioDTO, Profiles: []ProfileDTO{}}
	for _, b := range s.births {
		p, err := h.saveProfile(ctx, CreateProfileRequest{Name: b.Name, Birth: b.Birth})
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", b.Name, err)
		}
		resp.Profiles = append(resp.Profiles, toProfileDTO(*p))

		variants := b.Variants
		if len(variants) == 0 {
			variants = []factory.OptionsJSON{{}}
		}
		for _, v := range variants {
			extra, err := h.Factory.OptionsFromJSON(v)
			if err != nil {
				return nil, err
			}
			if _, err := h.chartProfile(ctx, p.ID, extra); err != nil {
				return nil, fmt.Errorf("chart %s: %w", b.Name, err)
			}
			resp.Charts++
		}
	}
	return resp, nil
}
