package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
)

const maxRequestBytes = 1 << 20

// writeJSON serializes the payload with the given status. Encoding failures
// are logged rather than surfaced since the header is already out.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

// readJSON decodes the request body into target, rejecting unknown fields
// and oversized bodies.
func readJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, err error) {
	app.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

// workoutError maps the workout sentinels onto HTTP statuses and falls back
// to a 500 for anything unrecognized.
func (app *application) workoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, workout.ErrInvalidReadiness),
		errors.Is(err, workout.ErrInvalidProfile):
		app.clientError(w, r, http.StatusUnprocessableEntity, err)
	case errors.Is(err, workout.ErrProfileNotFound),
		errors.Is(err, workout.ErrNoActiveSession),
		errors.Is(err, workout.ErrNothingToSync):
		app.clientError(w, r, http.StatusNotFound, err)
	case errors.Is(err, workout.ErrSessionInFlight):
		app.clientError(w, r, http.StatusConflict, err)
	case errors.Is(err, workout.ErrEmptyPlan):
		app.clientError(w, r, http.StatusUnprocessableEntity, err)
	case errors.Is(err, workout.ErrSessionComplete),
		errors.Is(err, workout.ErrNotResting),
		errors.Is(err, workout.ErrRecoveryTooHard),
		errors.Is(err, workout.ErrSessionPaused),
		errors.Is(err, workout.ErrSessionNotPaused):
		app.clientError(w, r, http.StatusConflict, err)
	default:
		app.serverError(w, r, err)
	}
}
