/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Birth and option
  documents are the factory's own types so a profile saved through the API
  can be replayed by the CLI or a scenario file unchanged.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Calculation:
    factory.RequestJSON (request), saju.Result (response)
    BatchRequest, BatchResponse, BatchItemDTO

  Profiles:
    ProfileDTO, CreateProfileRequest, ChartDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest, LoadScenarioResponse

VALIDATION:
  Validation is done by the factory and the engine, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/request.go: RequestJSON, OptionsJSON
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/saju-engine/factory"
	"github.com/warp/saju-engine/saju"
	"github.com/warp/saju-engine/store/sqlite"
)

// =============================================================================
// CALCULATION
// =============================================================================

// MaxBatchSize bounds one batch request.
const MaxBatchSize = 100

// BatchRequest calculates several births in one call.
type BatchRequest struct {
	Requests []factory.RequestJSON `json:"requests"`
}

// BatchItemDTO is one entry of a batch response, in request order.
type BatchItemDTO struct {
	Index  int            `json:"index"`
	Result *saju.Result   `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse wraps the batch results.
type BatchResponse struct {
	Results   []BatchItemDTO `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// =============================================================================
// PROFILES
// =============================================================================

// ProfileDTO represents a saved birth in API responses.
type ProfileDTO struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Birth     factory.RequestJSON `json:"birth"`
	CreatedAt string              `json:"created_at,omitempty"`
	UpdatedAt string              `json:"updated_at,omitempty"`
}

// CreateProfileRequest is the request to create or replace a profile.
type CreateProfileRequest struct {
	ID    string              `json:"id,omitempty"`
	Name  string              `json:"name"`
	Birth factory.RequestJSON `json:"birth"`
}

// ChartDTO is a stored chart snapshot.
type ChartDTO struct {
	ID        string              `json:"id"`
	ProfileID string              `json:"profile_id"`
	Pillars   string              `json:"pillars"`
	Options   factory.OptionsJSON `json:"options"`
	Result    json.RawMessage     `json:"result"`
	CreatedAt string              `json:"created_at"`
}

func toProfileDTO(p sqlite.ProfileRecord) ProfileDTO {
	dto := ProfileDTO{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	json.Unmarshal([]byte(p.RequestJSON), &dto.Birth)
	return dto
}

func toChartDTO(c sqlite.ChartRecord) ChartDTO {
	dto := ChartDTO{
		ID:        c.ID,
		ProfileID: c.ProfileID,
		Pillars:   c.Pillars,
		Result:    json.RawMessage(c.ResultJSON),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	json.Unmarshal([]byte(c.OptionsJSON), &dto.Options)
	return dto
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// LoadScenarioResponse reports what a scenario created.
type LoadScenarioResponse struct {
	Scenario ScenarioDTO  `json:"scenario"`
	Profiles []ProfileDTO `json:"profiles"`
	Charts   int          `json:"charts"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
