package handlers

import (
	"net/http"

	"github.com/onetoc/onetoc-backend/timer"
)

type TimerHandler struct {
	keeper *timer.Keeper
}

func NewTimerHandler(keeper *timer.Keeper) *TimerHandler {
	return &TimerHandler{keeper: keeper}
}

func (h *TimerHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seconds, running := h.keeper.Current(r.Context(), matchID)
	response := jsonResponse{
		"time":      seconds,
		"isRunning": running,
		"formatted": timer.FormatSeconds(seconds),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Toggle запускает остановленный таймер и останавливает запущенный.
func (h *TimerHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.keeper.Toggle(r.Context(), matchID)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	h.writeState(w, r, state)
}

func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.keeper.Reset(r.Context(), matchID)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	h.writeState(w, r, state)
}

func (h *TimerHandler) writeState(w http.ResponseWriter, r *http.Request, state timer.State) {
	response := jsonResponse{
		"time":      state.ElapsedSeconds,
		"isRunning": state.Running,
		"formatted": timer.FormatSeconds(state.ElapsedSeconds),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
