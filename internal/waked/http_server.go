package waked

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gowake/wakesim/internal/farm"
	"github.com/gowake/wakesim/internal/report"
	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/config"
	"github.com/gowake/wakesim/pkg/logger"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *RunStore
	solver   *wake.Solver
	Executor *RunExecutor
}

func NewHTTPServer(store *RunStore, solver *wake.Solver, executor *RunExecutor) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		solver:   solver,
		Executor: executor,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/evaluate", s.handleEvaluate)
	s.mux.HandleFunc("/v1/field", s.handleField)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleEvaluate handles POST /v1/evaluate: a synchronous batch evaluation
// of the case as given, optionally with explicit yaw vectors.
func (s *HTTPServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		CaseYAML string      `json:"case_yaml"`
		Yaw      [][]float64 `json:"yaw,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	batch, ok := s.buildBatch(w, req.CaseYAML, req.Yaw)
	if !ok {
		return
	}

	results, err := s.solver.Evaluate(batch)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	rows := make([]map[string]any, len(results))
	for i, res := range results {
		cond := batch.Scenarios[i].Condition
		rows[i] = map[string]any{
			"wind_direction":       cond.Direction,
			"wind_speed":           cond.Speed,
			"turbulence_intensity": cond.TI,
			"farm_power":           res.FarmPower,
			"turbine_powers":       res.Powers,
			"turbine_speeds":       res.Speeds,
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"results": rows})
}

// handleField handles POST /v1/field: a synchronous velocity field sample
// for one scenario of the case.
func (s *HTTPServer) handleField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		CaseYAML string    `json:"case_yaml"`
		Scenario int       `json:"scenario,omitempty"`
		Yaw      []float64 `json:"yaw,omitempty"`
		Plane    struct {
			Orientation string  `json:"orientation"`
			Height      float64 `json:"height,omitempty"`
			CrossStream float64 `json:"cross_stream,omitempty"`
			Downstream  float64 `json:"downstream,omitempty"`
			Axis1Min    float64 `json:"axis1_min"`
			Axis1Max    float64 `json:"axis1_max"`
			Axis2Min    float64 `json:"axis2_min"`
			Axis2Max    float64 `json:"axis2_max"`
			N1          int     `json:"n1"`
			N2          int     `json:"n2"`
		} `json:"plane"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	batch, ok := s.buildBatch(w, req.CaseYAML, nil)
	if !ok {
		return
	}
	if req.Scenario < 0 || req.Scenario >= len(batch.Scenarios) {
		s.writeError(w, http.StatusBadRequest, "scenario index out of range")
		return
	}
	sc := batch.Scenarios[req.Scenario]
	if req.Yaw != nil {
		sc = sc.WithYaw(req.Yaw)
	}

	plane := wake.FieldPlane{
		Orientation: wake.PlaneOrientation(req.Plane.Orientation),
		Height:      req.Plane.Height,
		CrossStream: req.Plane.CrossStream,
		Downstream:  req.Plane.Downstream,
		Axis1Min:    req.Plane.Axis1Min,
		Axis1Max:    req.Plane.Axis1Max,
		Axis2Min:    req.Plane.Axis2Min,
		Axis2Max:    req.Plane.Axis2Max,
		N1:          req.Plane.N1,
		N2:          req.Plane.N2,
	}

	grid, err := s.solver.SampleField(batch.Layout, sc, plane)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"axis1": grid.Axis1,
		"axis2": grid.Axis2,
		"speed": grid.Speed,
	})
}

// handleRuns handles /v1/runs endpoint
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRunByID handles /v1/runs/{id} and related endpoints
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	if strings.HasSuffix(path, ":stop") {
		runID := strings.TrimSuffix(path, ":stop")
		if r.Method == http.MethodPost {
			s.handleStopRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/result") {
		runID := strings.TrimSuffix(path, "/result")
		if r.Method == http.MethodGet {
			s.handleRunResult(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/export") {
		runID := strings.TrimSuffix(path, "/export")
		if r.Method == http.MethodGet {
			s.handleExportRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetRun(w, r, path)
	} else {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateRun handles POST /v1/runs: register the case and start the
// optimization in the background.
func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RunID    string `json:"run_id,omitempty"`
		CaseYAML string `json:"case_yaml"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CaseYAML == "" {
		s.writeError(w, http.StatusBadRequest, "case_yaml is required")
		return
	}

	// Reject malformed cases before a run record exists.
	if _, err := config.ParseCaseYAMLString(req.CaseYAML); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.store.Create(req.RunID, req.CaseYAML)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "already exists"):
			s.writeError(w, http.StatusConflict, err.Error())
		case strings.Contains(err.Error(), "cannot contain"):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if _, err := s.Executor.Start(rec.ID); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("run created", "run_id", rec.ID)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run": convertRunToJSON(rec),
	})
}

// handleListRuns handles GET /v1/runs with pagination and filtering
func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var statusFilter RunStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		statusFilter = ParseRunStatus(statusStr)
	}

	runs := s.store.ListFiltered(limit, offset, statusFilter)

	runsJSON := make([]map[string]any, 0, len(runs))
	for _, rec := range runs {
		runsJSON = append(runsJSON, convertRunToJSON(rec))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs": runsJSON,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
			"count":  len(runs),
		},
	})
}

// handleGetRun handles GET /v1/runs/{id}
func (s *HTTPServer) handleGetRun(w http.ResponseWriter, _ *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": convertRunToJSON(rec),
	})
}

// handleStopRun handles POST /v1/runs/{id}:stop
func (s *HTTPServer) handleStopRun(w http.ResponseWriter, _ *http.Request, runID string) {
	updated, err := s.Executor.Stop(runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			s.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrRunIDMissing):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Info("run cancelled", "run_id", runID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": convertRunToJSON(updated),
	})
}

// handleRunResult handles GET /v1/runs/{id}/result
func (s *HTTPServer) handleRunResult(w http.ResponseWriter, _ *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if rec.Table == nil {
		s.writeError(w, http.StatusPreconditionFailed, "results not available")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":            rec.ID,
		"results":           rec.Table,
		"weighted_uplift_w": rec.Table.WeightedUplift(),
	})
}

// handleExportRun handles GET /v1/runs/{id}/export: the results table as
// CSV for download.
func (s *HTTPServer) handleExportRun(w http.ResponseWriter, _ *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if rec.Table == nil {
		s.writeError(w, http.StatusPreconditionFailed, "results not available")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+runID+`.csv"`)
	if _, err := w.Write([]byte(report.RenderCSV(rec.Table))); err != nil {
		logger.Error("failed to write CSV export", "run_id", runID, "error", err)
	}
}

// buildBatch parses the case payload into a batch, applying optional yaw
// vectors, writing the HTTP error itself on failure.
func (s *HTTPServer) buildBatch(w http.ResponseWriter, caseYAML string, yaw [][]float64) (wake.Batch, bool) {
	if caseYAML == "" {
		s.writeError(w, http.StatusBadRequest, "case_yaml is required")
		return wake.Batch{}, false
	}
	c, err := config.ParseCaseYAMLString(caseYAML)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return wake.Batch{}, false
	}
	batch, err := config.BuildBatch(c)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return wake.Batch{}, false
	}
	if yaw != nil {
		if len(yaw) != len(batch.Scenarios) {
			s.writeError(w, http.StatusBadRequest, "yaw must carry one vector per scenario")
			return wake.Batch{}, false
		}
		for i := range batch.Scenarios {
			batch.Scenarios[i] = batch.Scenarios[i].WithYaw(yaw[i])
		}
	}
	return batch, true
}

// writeEngineError maps solver errors onto HTTP statuses: validation
// failures are the client's fault, anything else is ours.
func (s *HTTPServer) writeEngineError(w http.ResponseWriter, err error) {
	var layoutErr *farm.InvalidLayoutError
	var yawErr *wake.InvalidYawError
	switch {
	case errors.As(err, &layoutErr), errors.As(err, &yawErr), errors.Is(err, wake.ErrEmptyBatch):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// Helper functions

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

func convertRunToJSON(rec *RunRecord) map[string]any {
	return map[string]any{
		"id":                 rec.ID,
		"status":             string(rec.Status),
		"created_at_unix_ms": rec.CreatedAtUnixMs,
		"started_at_unix_ms": rec.StartedAtUnixMs,
		"ended_at_unix_ms":   rec.EndedAtUnixMs,
		"error":              rec.Error,
	}
}
