/*
handlers.go - HTTP API handlers for the saju engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP request and
  response, JSON serialization, and delegates to the calculator, the
  factory and the store.

ENDPOINTS:
  Calculation:
    POST   /api/saju/calculate          One chart from a birth document
    POST   /api/saju/batch              Many charts, calculated in parallel
    GET    /api/saju/current?gender=M   Chart of the present moment

  Options:
    GET    /api/options                 Current engine options
    PUT    /api/options                 Merge a partial option document

  Locations:
    GET    /api/locations/resolve?q=Osaka
    GET    /api/locations/resolve?lat=35.0&lon=135.7

  Profiles:
    GET    /api/profiles                List saved births
    POST   /api/profiles                Save a birth
    GET    /api/profiles/{id}           One saved birth
    DELETE /api/profiles/{id}           Delete a birth and its charts
    POST   /api/profiles/{id}/chart     Calculate and store a snapshot
    GET    /api/profiles/{id}/charts    Stored snapshots, newest first

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Calc: the engine, owns the live options
  - Store: profiles, charts and the persisted option document
  - Factory: JSON document to engine value conversion
  - Current: optional background refresher for /api/saju/current

ERROR HANDLING:
  Errors are returned as JSON {"error", "details"} with:
  - 400: Malformed body, rejected birth data or options
  - 404: Profile not found
  - 500: Internal errors (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/saju-engine/factory"
	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/saju"
	"github.com/warp/saju-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Calc    *saju.Calculator
	Factory *factory.Factory
	Logger  *zap.Logger

	// Current serves /api/saju/current from a warm cache when set.
	Current *CurrentChartRefresher

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler. A nil logger discards output.
func NewHandler(store *sqlite.Store, calc *saju.Calculator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Calc:    calc,
		Factory: factory.NewFactory(),
		Logger:  logger,
	}
}

// LoadOptions restores the option document saved by the last PUT
// /api/options, if any.
func (h *Handler) LoadOptions(ctx context.Context) error {
	doc, err := h.Store.LoadOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored options: %w", err)
	}
	if doc == "" {
		return nil
	}
	patch, err := h.Factory.ParseOptions(doc)
	if err != nil {
		return err
	}
	if _, err := h.Calc.UpdateOptions(patch); err != nil {
		return fmt.Errorf("stored options rejected: %w", err)
	}
	h.Logger.Info("restored stored options")
	return nil
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate returns the chart for one birth document. Options in the
// document apply to this call only.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req factory.RequestJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := h.calculateDoc(req)
	if err != nil {
		h.fail(w, r, "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) calculateDoc(req factory.RequestJSON) (*saju.Result, error) {
	in, patch, err := h.Factory.FromJSON(req)
	if err != nil {
		return nil, err
	}
	return h.Calc.CalculateWith(in, patch)
}

// CalculateBatch calculates every document in parallel. A bad document
// fails only its own entry.
func (h *Handler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Requests) == 0 {
		writeError(w, http.StatusBadRequest, "No requests in batch", nil)
		return
	}
	if len(req.Requests) > MaxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Batch too large (max %d)", MaxBatchSize), nil)
		return
	}

	items := make([]BatchItemDTO, len(req.Requests))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range req.Requests {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = h.batchItem(i, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(w, r, "Batch cancelled", err)
		return
	}

	resp := BatchResponse{Results: items}
	for _, item := range items {
		if item.Error != nil {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// batchItem runs one entry. A panic becomes an internal error on that
// entry instead of taking the server down.
func (h *Handler) batchItem(i int, doc factory.RequestJSON) (item BatchItemDTO) {
	item.Index = i
	defer func() {
		if p := recover(); p != nil {
			h.Logger.Error("batch entry panicked", zap.Int("index", i), zap.Any("panic", p))
			item.Result = nil
			item.Error = &ErrorResponse{Error: "Internal error"}
		}
	}()

	res, err := h.calculateDoc(doc)
	if err != nil {
		item.Error = &ErrorResponse{Error: "Calculation failed", Details: err.Error()}
		return item
	}
	item.Result = res
	return item
}

// CurrentSaju returns the chart of the present moment at the default
// location.
func (h *Handler) CurrentSaju(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("gender")
	if raw == "" {
		raw = string(saju.Male)
	}
	gender, err := saju.ParseGender(raw)
	if err != nil {
		h.fail(w, r, "Invalid gender", err)
		return
	}

	if h.Current != nil {
		if res, ok := h.Current.Latest(gender); ok {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	res, err := h.Calc.CurrentSaju(gender)
	if err != nil {
		h.fail(w, r, "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// OPTION HANDLERS
// =============================================================================

// GetOptions returns the full current option set.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Factory.OptionsToJSON(h.Calc.Options()))
}

// UpdateOptions merges a partial option document and persists the result.
func (h *Handler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	var req factory.OptionsJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	patch, err := h.Factory.OptionsFromJSON(req)
	if err != nil {
		h.fail(w, r, "Invalid options", err)
		return
	}
	cfg, err := h.Calc.UpdateOptions(patch)
	if err != nil {
		h.fail(w, r, "Invalid options", err)
		return
	}

	doc := h.Factory.OptionsToJSON(cfg)
	raw, _ := json.Marshal(doc)
	if err := h.Store.SaveOptions(r.Context(), string(raw)); err != nil {
		h.fail(w, r, "Options applied but not saved", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// LOCATION HANDLERS
// =============================================================================

// ResolveLocation shows how a place name or coordinate pair is placed.
func (h *Handler) ResolveLocation(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	var q location.Query
	switch {
	case strings.TrimSpace(qs.Get("q")) != "":
		q = location.ByName(qs.Get("q"))
	case qs.Get("lat") != "" || qs.Get("lon") != "":
		lat, errLat := strconv.ParseFloat(qs.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(qs.Get("lon"), 64)
		if err := errors.Join(errLat, errLon); err != nil {
			writeError(w, http.StatusBadRequest, "lat and lon must both be numbers", err)
			return
		}
		q = location.ByCoordinates(lat, lon)
	default:
		writeError(w, http.StatusBadRequest, "Provide q or lat and lon", nil)
		return
	}

	writeJSON(w, http.StatusOK, location.Summarize(h.Calc.ResolveLocation(q)))
}

// =============================================================================
// PROFILE HANDLERS
// =============================================================================

// ListProfiles returns all saved births.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.ListProfiles(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list profiles", err)
		return
	}

	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toProfileDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProfile validates and saves a birth.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Profile name is required", nil)
		return
	}

	// Validate by parsing
	if _, _, err := h.Factory.FromJSON(req.Birth); err != nil {
		h.fail(w, r, "Invalid birth", err)
		return
	}

	p, err := h.saveProfile(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfileDTO(*p))
}

func (h *Handler) saveProfile(ctx context.Context, req CreateProfileRequest) (*sqlite.ProfileRecord, error) {
	doc, err := json.Marshal(req.Birth)
	if err != nil {
		return nil, err
	}
	return h.Store.SaveProfile(ctx, sqlite.ProfileRecord{
		ID:          req.ID,
		Name:        strings.TrimSpace(req.Name),
		RequestJSON: string(doc),
	})
}

// GetProfile returns a single profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(*p))
}

// DeleteProfile removes a profile and its charts.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateChart calculates the profile's chart and stores a snapshot. An
// optional options body is merged over the options saved with the birth.
func (h *Handler) CreateChart(w http.ResponseWriter, r *http.Request) {
	var override factory.OptionsJSON
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	extra, err := h.Factory.OptionsFromJSON(override)
	if err != nil {
		h.fail(w, r, "Invalid options", err)
		return
	}

	chart, err := h.chartProfile(r.Context(), chi.URLParam(r, "id"), extra)
	if err != nil {
		h.fail(w, r, "Failed to chart profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, toChartDTO(*chart))
}

func (h *Handler) chartProfile(ctx context.Context, id string, extra saju.Patch) (*sqlite.ChartRecord, error) {
	p, err := h.Store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	in, patch, err := h.Factory.ParseRequest(p.RequestJSON)
	if err != nil {
		return nil, fmt.Errorf("stored birth %s unreadable: %w", id, err)
	}

	res, err := h.Calc.CalculateWith(in, patch.Merge(extra))
	if err != nil {
		return nil, err
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	optionsJSON, _ := json.Marshal(h.Factory.OptionsToJSON(res.Options))

	labels := make([]string, 0, len(res.FourPillars))
	for _, pillar := range res.FourPillars {
		labels = append(labels, pillar.Label())
	}

	return h.Store.AddChart(ctx, sqlite.ChartRecord{
		ProfileID:   id,
		Pillars:     strings.Join(labels, " "),
		OptionsJSON: string(optionsJSON),
		ResultJSON:  string(resultJSON),
	})
}

// ListCharts returns a profile's snapshots, newest first.
func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetProfile(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to get profile", err)
		return
	}

	charts, err := h.Store.ListCharts(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to list charts", err)
		return
	}

	dtos := make([]ChartDTO, len(charts))
	for i, c := range charts {
		dtos[i] = toChartDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// statusFor maps engine and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case saju.IsClientError(err):
		return http.StatusBadRequest
	case sqlite.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status it maps to. Server-side failures are
// logged with the request ID.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("requestID", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message, fields...)
	} else {
		h.Logger.Debug(message, fields...)
	}
	writeError(w, status, message, err)
}
