package handlers

import (
	"net/http"
	"strconv"

	"github.com/avvvet/arcade-services/internal/matchsvc/dto"
	"github.com/go-chi/chi"
)

func (h *Handler) FindCurrentMatchByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r.URL.Query().Get("userId"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	match, err := h.service.FindCurrentMatchByUser(r.Context(), dto.UserDto{ID: userID})
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current match", match)
}

func (h *Handler) FindCurrentMatchByIntraID(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.FindCurrentMatchByIntraID(r.Context(), chi.URLParam(r, "intraId"))
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current match", match)
}

func (h *Handler) FindCurrentMatchByGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseID(chi.URLParam(r, "gameId"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	matches, err := h.service.FindCurrentMatchByGame(r.Context(), dto.CurrentMatchFindDto{GameID: gameID})
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current matches", matches)
}

func (h *Handler) AddCurrentMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrentMatchAddDto
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	if err := h.service.AddCurrentMatch(r.Context(), req); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "current match added", Code: http.StatusCreated})
}

func (h *Handler) ModifyCurrentMatch(w http.ResponseWriter, r *http.Request) {
	slotID, err := parseID(chi.URLParam(r, "slotId"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	var req dto.CurrentMatchModifyDto
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, err.Error())
		return
	}
	req.SlotID = slotID

	if err := h.service.ModifyCurrentMatch(r.Context(), req); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current matches modified", nil)
}

func (h *Handler) SaveGameInCurrentMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrentMatchSaveGameDto
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	if err := h.service.SaveGameInCurrentMatch(r.Context(), req); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "game saved in current match", nil)
}

// RemoveCurrentMatch handles DELETE /current-match?userId=&slotId=.
func (h *Handler) RemoveCurrentMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrentMatchRemoveDto

	q := r.URL.Query()
	if raw := q.Get("slotId"); raw != "" {
		slotID, err := parseID(raw)
		if err != nil {
			h.badRequest(w, err.Error())
			return
		}
		req.SlotID = &slotID
	} else {
		userID, err := parseID(q.Get("userId"))
		if err != nil {
			h.badRequest(w, err.Error())
			return
		}
		req.UserID = userID
	}

	if err := h.service.RemoveCurrentMatch(r.Context(), req); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current match removed", nil)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
