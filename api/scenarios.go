/*
scenarios.go - Demo scenario endpoints

PURPOSE:
  Lets a demo or test client swap the stored policies for one of the
  embedded portfolios in package fixtures, then run the calculation.

USAGE VIA API:
  GET  /api/scenarios
  POST /api/scenarios/load   {"scenario_id": "reference"}
  POST /api/reset

NOTE:
  Loading a scenario resets the store. Only use in development/demo
  environments.

SEE ALSO:
  - fixtures/fixtures.go: Scenario definitions and loader
*/
package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/warp/maturity-engine/fixtures"
)

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := fixtures.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = toScenarioDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario replaces all policies with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	n, err := fixtures.Load(r.Context(), h.Store, req.ScenarioID)
	if err != nil {
		if errors.Is(err, fixtures.ErrUnknownScenario) {
			writeError(w, http.StatusNotFound, "Unknown scenario", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID, "policies", n)
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario_id": req.ScenarioID,
		"policies":    n,
	})
}

// ResetDatabase removes every policy.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
