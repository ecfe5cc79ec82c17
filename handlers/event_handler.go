package handlers

import (
	"errors"
	"net/http"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Record создаёт событие по ключу действия, момент берётся из серверного
// таймера матча на время запроса.
func (h *EventHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchID   int    `json:"match"`
		ActionKey string `json:"action"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ActionKey == "" {
		badRequestResponse(w, r, errors.New("action key is required"))
		return
	}

	recorded, err := h.eventService.RecordEvent(r.Context(), input.MatchID, input.ActionKey)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"event":           recorded.Event,
		"counter_updated": recorded.CounterUpdated,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListLog serves GET /api/event?match={id}: active events ordered by
// effective timestamp for the match protocol view.
func (h *EventHandler) ListLog(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromQuery(r, "match")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.ListMatchLog(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListFeed serves GET /api/event/feed?match={id}: newest first, for the
// recording screen's recent-events strip.
func (h *EventHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromQuery(r, "match")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.ListLiveFeed(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdjustAll обрабатывает PATCH /api/event: один delay_start для всех
// перечисленных событий матча.
func (h *EventHandler) AdjustAll(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDs    []int `json:"ids"`
		Update struct {
			DelayStart int `json:"delay_start"`
		} `json:"update"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.AdjustDelays(r.Context(), input.IDs, input.Update.DelayStart)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Patch handles PATCH /api/event/{eventID}. Two mutations share the
// endpoint: an incremental delay_start shift, or status DELETED to hide
// the event from the log.
func (h *EventHandler) Patch(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		DelayStart *int    `json:"delay_start"`
		Status     *string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Status != nil {
		if models.EntityStatus(*input.Status) != models.StatusDeleted {
			badRequestResponse(w, r, errors.New("only status DELETED is accepted"))
			return
		}
		if err := h.eventService.HideEvent(r.Context(), eventID); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if input.DelayStart == nil {
		badRequestResponse(w, r, errors.New("either delay_start or status must be provided"))
		return
	}

	event, err := h.eventService.AdjustDelay(r.Context(), eventID, *input.DelayStart)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
