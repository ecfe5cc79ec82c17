package handlers

import (
	"errors"
	"net/http"

	"github.com/onetoc/onetoc-backend/services"
)

type LineupHandler struct {
	lineupService services.LineupService
}

func NewLineupHandler(lineupService services.LineupService) *LineupHandler {
	return &LineupHandler{lineupService: lineupService}
}

func (h *LineupHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slots, err := h.lineupService.GetLineup(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineup": slots}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Set replaces the whole lineup. Starters overflow is not an error: extra
// players land in substitutes and the response flags the redirect so the
// client can show the capacity warning.
func (h *LineupHandler) Set(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SetLineupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.lineupService.SetLineup(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) Move(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PlayerID int                 `json:"player"`
		Target   services.LineupList `json:"target"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PlayerID <= 0 {
		badRequestResponse(w, r, errors.New("player is required"))
		return
	}

	result, err := h.lineupService.MovePlayer(r.Context(), matchID, input.PlayerID, input.Target)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
