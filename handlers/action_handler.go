package handlers

import (
	"net/http"

	"github.com/onetoc/onetoc-backend/services"
)

type ActionHandler struct {
	actionService services.ActionService
}

func NewActionHandler(actionService services.ActionService) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateActionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	action, err := h.actionService.CreateAction(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"action": action}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ActionHandler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromQuery(r, "team")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actions, err := h.actionService.ListActionsByTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"actions": actions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ActionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actionID, err := getIDFromURL(r, "actionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateActionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	action, err := h.actionService.UpdateAction(r.Context(), actionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"action": action}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ActionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actionID, err := getIDFromURL(r, "actionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.actionService.DeleteAction(r.Context(), actionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
