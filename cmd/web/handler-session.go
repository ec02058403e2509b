package main

import (
	"context"
	"net/http"

	"github.com/dicsio100-dev/fitnavi/internal/contexthelpers"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
)

type startSessionRequest struct {
	// Readiness is the self-reported fatigue rating, 1 (fresh) to 10
	// (exhausted). Above 8 switches the session to recovery mode.
	Readiness int `json:"readiness"`
}

type sessionResponse struct {
	State  workout.SessionState `json:"state"`
	Result *workout.Result      `json:"result,omitempty"`
}

// sessionStartPOST submits a readiness rating and starts a session from the
// stored profile.
func (app *application) sessionStartPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	var req startSessionRequest
	if err := readJSON(w, r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}

	state, err := app.workoutService.StartSession(r.Context(), userID, req.Readiness)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, sessionResponse{State: state})
}

// sessionStateGET returns the live session snapshot.
func (app *application) sessionStateGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	state, err := app.workoutService.CurrentState(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, sessionResponse{State: state})
}

// sessionValidateSetPOST marks the current set done. The response carries the
// settlement result when this was the final set.
func (app *application) sessionValidateSetPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	state, result, err := app.workoutService.ValidateSet(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, sessionResponse{State: state, Result: result})
}

func (app *application) sessionSkipRestPOST(w http.ResponseWriter, r *http.Request) {
	app.sessionCommand(w, r, app.workoutService.SkipRest)
}

func (app *application) sessionTooHardPOST(w http.ResponseWriter, r *http.Request) {
	app.sessionCommand(w, r, app.workoutService.SignalTooHard)
}

func (app *application) sessionPausePOST(w http.ResponseWriter, r *http.Request) {
	app.sessionCommand(w, r, app.workoutService.Pause)
}

func (app *application) sessionResumePOST(w http.ResponseWriter, r *http.Request) {
	app.sessionCommand(w, r, app.workoutService.Resume)
}

// sessionAbandonDELETE discards the live session without writing anything.
func (app *application) sessionAbandonDELETE(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	if err := app.workoutService.Abandon(r.Context(), userID); err != nil {
		app.workoutError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionSyncPOST retries persisting a completed session whose save failed.
func (app *application) sessionSyncPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	result, err := app.workoutService.RetrySync(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, sessionResponse{Result: &result})
}

func (app *application) sessionCommand(w http.ResponseWriter, r *http.Request,
	command func(ctx context.Context, userID string) (workout.SessionState, error)) {
	userID := contexthelpers.UserID(r.Context())

	state, err := command(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, sessionResponse{State: state})
}
