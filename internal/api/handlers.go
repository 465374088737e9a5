package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/pengo/internal/breakeven"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/store"
)

// maxBodyBytes bounds request bodies; an input with a long event list stays far below it
const maxBodyBytes = 1 << 20

// Handler holds all dependencies for HTTP handlers. The engine is stateless;
// every request projects against the current reference snapshot.
type Handler struct {
	Engine    *calculation.Engine
	Reference *refdata.Provider
	Recorder  store.Recorder
	Parser    *config.InputParser
	Exporter  *store.BalanceFileExporter
	Logger    calculation.Logger
}

// NewHandler creates a handler. A nil recorder disables usage statistics.
func NewHandler(engine *calculation.Engine, ref *refdata.Provider, rec store.Recorder) *Handler {
	if rec == nil {
		rec = store.NewNoopRecorder()
	}
	return &Handler{
		Engine:    engine,
		Reference: ref,
		Recorder:  rec,
		Parser:    config.NewInputParser(),
		Logger:    calculation.NopLogger{},
	}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Reference: h.Reference.Source()})
}

// GetReference summarizes the loaded reference tables
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, refdata.Summarize(h.Reference.Snapshot()))
}

// CreateProjection runs a full projection report and records its usage
func (h *Handler) CreateProjection(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	report, err := h.Engine.BuildReport(input, h.Reference.Snapshot())
	if err != nil {
		writeError(w, statusFor(err), "Projection failed", err)
		return
	}

	id := uuid.NewString()
	usage := calculation.UsageFor(input, report)
	usage.ID = id
	h.record(r.Context(), &usage, report.Timeline)

	writeJSON(w, http.StatusOK, ProjectionResponse{ID: id, Report: report})
}

// ProjectTimeline returns the yearly account balances for an input's events
func (h *Handler) ProjectTimeline(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	events, err := domain.ParseEvents(input.Events)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid events", err)
		return
	}

	engine := h.Engine.ForInput(input)
	projection, err := engine.ProjectTimeline(input.Parameters, events, h.Reference.Snapshot(),
		calculation.TimelineOptions{IncludeSickDays: input.Options.IncludeSickDays})
	if err != nil {
		writeError(w, statusFor(err), "Timeline projection failed", err)
		return
	}

	id := uuid.NewString()
	if err := h.Recorder.RecordBalances(r.Context(), id, projection.Balances); err != nil {
		h.Logger.Warnf("record balances %s: %v", id, err)
	}
	if h.Exporter != nil {
		if err := h.Exporter.Export(projection.Balances); err != nil {
			h.Logger.Warnf("export balances: %v", err)
		}
	}

	resp := TimelineResponse{
		ID:         id,
		Projection: projection,
		Chart:      calculation.ChartSeries(projection.Balances),
	}
	if latest, ok := calculation.LatestBalance(projection.Balances); ok {
		resp.Latest = &latest
	}
	writeJSON(w, http.StatusOK, resp)
}

// SolveTarget finds the extra working years needed for a target pension
func (h *Handler) SolveTarget(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Parser.ValidateProjectionInput(&req.Input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !req.TargetPension.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid input", fmt.Errorf("targetPension must be positive"))
		return
	}

	opts := breakeven.DefaultSolverOptions()
	if req.MaxAge > 0 {
		opts.MaxAge = req.MaxAge
	}
	solver := breakeven.NewSolver(h.Engine.ForInput(&req.Input), opts)
	gap, err := solver.YearsToTarget(req.Input.Parameters, h.Reference.Snapshot(), req.Input.Options.IncludeSickDays, req.TargetPension)
	if err != nil {
		writeError(w, statusFor(err), "Target not solved", err)
		return
	}
	writeJSON(w, http.StatusOK, gap)
}

// ListUsage exports the usage statistics, optionally bounded by from/to dates
// (YYYY-MM-DD, both inclusive). format=csv switches from JSON to CSV.
func (h *Handler) ListUsage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter store.UsageFilter
	if v := q.Get("from"); v != "" {
		from, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
		filter.From = from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
		filter.To = to.AddDate(0, 0, 1)
	}

	reports, err := h.Recorder.ListUsage(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list usage", err)
		return
	}

	switch strings.ToLower(q.Get("format")) {
	case "", "json":
		writeJSON(w, http.StatusOK, reports)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=usage.csv")
		w.WriteHeader(http.StatusOK)
		if err := store.WriteUsageCSV(w, reports); err != nil {
			h.Logger.Errorf("write usage csv: %v", err)
		}
	default:
		writeError(w, http.StatusBadRequest, "Unsupported format", fmt.Errorf("format must be json or csv"))
	}
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (*domain.ProjectionInput, bool) {
	var input domain.ProjectionInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	if err := h.Parser.ValidateProjectionInput(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return nil, false
	}
	return &input, true
}

// record stores usage and balances; storage failures never fail the request
func (h *Handler) record(ctx context.Context, usage *domain.UsageReport, timeline *domain.TimelineProjection) {
	if err := h.Recorder.RecordUsage(ctx, usage); err != nil {
		h.Logger.Warnf("record usage %s: %v", usage.ID, err)
		return
	}
	if timeline != nil && len(timeline.Balances) > 0 {
		if err := h.Recorder.RecordBalances(ctx, usage.ID, timeline.Balances); err != nil {
			h.Logger.Warnf("record balances %s: %v", usage.ID, err)
		}
	}
}

// statusFor maps engine error kinds onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, calculation.ErrInvalidParameters), errors.Is(err, calculation.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, calculation.ErrMissingReferenceData), errors.Is(err, calculation.ErrTargetUnreachable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

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
