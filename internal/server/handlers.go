package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/cause"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	status, err := s.store.GetRunStatus(r.Context(), runID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run %s has no terminal status", runID)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "getting run status: %v", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "status": status})
}

func (s *Server) listCauseRecords(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	records, err := s.store.ListCauseRecords(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing cause records: %v", err)
		return
	}
	if records == nil {
		records = []types.CauseRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "records": records})
}

// interruptRequest is the wire form of an interruption.
type interruptRequest struct {
	Status  types.TerminalStatus  `json:"status"`
	Message string                `json:"message,omitempty"`
	Causes  []types.RecordedCause `json:"causes,omitempty"`
}

func (s *Server) interruptRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	var req interruptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding request: %v", err)
		return
	}
	if req.Status == "" {
		req.Status = types.StatusAborted
	}
	if !req.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown status %q", req.Status)
		return
	}

	causes := make([]interrupt.Cause, 0, len(req.Causes))
	for _, c := range req.Causes {
		causes = append(causes, cause.Custom(c.Kind, c.Summary))
	}

	var underlying error
	if req.Message != "" {
		underlying = interrupt.NewAbort("%s", req.Message)
	}
	sig := interrupt.Wrap(req.Status, underlying, causes...)

	applied, err := s.finalizer.Finalize(r.Context(), runID, sig)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "finalizing run: %v", err)
		return
	}
	slog.Info("run interrupted", "runID", runID, "status", applied,
		"requestID", requestIDFrom(r.Context()))

	writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "status": applied})
}
