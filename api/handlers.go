/*
handlers.go - HTTP API handlers for the maturity engine

PURPOSE:
  Presentation layer for calculation runs. Fetches policies, runs the
  engine, writes the results document and reports both the derived
  records and the export outcome.

ENDPOINTS:
  Maturity:
    GET    /api/maturity               Calculate values (no export)
    POST   /api/maturity/run           Calculate and write the XML document
    GET    /api/maturity/export        Download the XML document

  Policies:
    GET    /api/policies               List base records
    POST   /api/policies               Add a base record
    GET    /api/policies/{number}      Get one base record
    DELETE /api/policies/{number}      Remove a base record

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario
    POST   /api/reset                  Remove every policy

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input
  - 404: Policy or scenario not found
  - 409: Duplicate policy number
  - 500: Source or export failure

  A failed export on POST /api/maturity/run still returns the calculated
  records, with "exported": false and "export_error" set, under a 500.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/warp/maturity-engine/batch"
	"github.com/warp/maturity-engine/export"
	"github.com/warp/maturity-engine/maturity"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  maturity.PolicyStore
	Runner *batch.Runner
	Logger *slog.Logger
}

// NewHandler creates a handler whose runs read from store.
func NewHandler(store maturity.PolicyStore, runner *batch.Runner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if runner.Source == nil {
		runner.Source = store
	}
	return &Handler{Store: store, Runner: runner, Logger: logger}
}

// =============================================================================
// MATURITY HANDLERS
// =============================================================================

// Calculate returns the derived records without writing the document.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	records, err := h.Runner.Calculate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}

	writeJSON(w, http.StatusOK, MaturityRunDTO{Records: toMaturityRecordDTOs(records)})
}

// Run calculates all values and writes the results document.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.Runner.Run(r.Context())
	if res == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, toRunDTO(res, err))
		return
	}

	writeJSON(w, http.StatusOK, toRunDTO(res, nil))
}

// DownloadExport streams the results document for the current policies.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	records, err := h.Runner.Calculate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}

	filename := h.Runner.OutputFile
	if filename == "" {
		filename = export.RootElement + ".xml"
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if err := export.Encode(w, records); err != nil {
		h.Logger.Error("failed to stream export", "error", err)
	}
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all base records.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.BaseRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(records))
	for i, rec := range records {
		dtos[i] = toPolicyDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPolicy returns one base record with its derived values.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	rec, err := h.Store.GetPolicy(r.Context(), number)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get policy", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Policy not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toMaturityRecordDTO(maturity.DeriveAndCalculate(*rec)))
}

// CreatePolicy adds a base record.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := req.toBaseRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.SavePolicy(r.Context(), rec); err != nil {
		if errors.Is(err, maturity.ErrDuplicatePolicyNumber) {
			writeError(w, http.StatusConflict, "Policy number already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMaturityRecordDTO(maturity.DeriveAndCalculate(rec)))
}

// DeletePolicy removes a base record.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	if err := h.Store.DeletePolicy(r.Context(), number); err != nil {
		if errors.Is(err, maturity.ErrPolicyNotFound) {
			writeError(w, http.StatusNotFound, "Policy not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete policy", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
