package handlers

import (
	"net/http"

	"github.com/onetoc/onetoc-backend/services"
)

type MatchInfoHandler struct {
	infoService services.MatchInfoService
}

func NewMatchInfoHandler(infoService services.MatchInfoService) *MatchInfoHandler {
	return &MatchInfoHandler{infoService: infoService}
}

func (h *MatchInfoHandler) GetByMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromQuery(r, "match")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	info, err := h.infoService.GetByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_info": info}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateCounters корректирует счётчики вручную, когда накопленные значения
// разошлись с фактическим протоколом.
func (h *MatchInfoHandler) UpdateCounters(w http.ResponseWriter, r *http.Request) {
	infoID, err := getIDFromURL(r, "infoID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var fields map[string]int
	if err := readJSON(w, r, &fields); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	info, err := h.infoService.UpdateCounters(r.Context(), infoID, fields)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_info": info}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
