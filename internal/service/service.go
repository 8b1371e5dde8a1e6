// Package service implements the HTTP API: authentication plus event CRUD
// with synchronous report recomputation on every mutation.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hisab-app/hisab/internal/engine"
	"github.com/hisab-app/hisab/internal/storage"
)

var (
	reportsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hisab_reports_computed_total",
		Help: "Reports successfully recomputed.",
	})

	reportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hisab_report_errors_total",
		Help: "Report computations rejected by validation.",
	})
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields so
// typos surface as 400s instead of silently dropped data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeError maps domain errors to HTTP status codes. Validation failures
// are the client's fault; everything unexpected is a 500 with the detail
// kept in the server log.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err))
	case errors.Is(err, engine.ErrDeductibleExceedsTotal),
		errors.Is(err, engine.ErrPaymentMismatch),
		errors.Is(err, engine.ErrInvalidLiability),
		errors.Is(err, engine.ErrNonFiniteAmount),
		errors.Is(err, engine.ErrDeductibleNotApplied),
		errors.Is(err, engine.ErrUnknownPerson),
		errors.Is(err, engine.ErrNoParticipants):
		writeJSON(w, http.StatusBadRequest, errorBody(err))
	default:
		slog.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
