package handlers

import (
	"net/http"

	"github.com/avvvet/arcade-services/internal/matchsvc/dto"
	"github.com/go-chi/chi"
)

const historyLimit = 50

func (h *Handler) FindCurrentMatchByAdmin(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.badRequest(w, "invalid page")
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		h.badRequest(w, "invalid size")
		return
	}

	result, err := h.service.FindCurrentMatchByAdmin(r.Context(), dto.PageRequest{Page: page, Size: size})
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current matches", result)
}

func (h *Handler) CreateCurrentMatchByAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrentMatchCreateRequestDto
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	if err := h.service.CreateCurrentMatchByAdmin(r.Context(), req); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "current match created", Code: http.StatusCreated})
}

func (h *Handler) UpdateCurrentMatchByAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	var req dto.CurrentMatchUpdateRequestDto
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, err.Error())
		return
	}
	req.CurrentMatchID = id

	if err := h.service.UpdateCurrentMatchByAdmin(r.Context(), req); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current match updated", nil)
}

func (h *Handler) DeleteCurrentMatchByAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	if err := h.service.DeleteCurrentMatchByAdmin(r.Context(), dto.CurrentMatchDeleteDto{CurrentMatchID: id}); err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "current match deleted", nil)
}

func (h *Handler) FindHistoryByAdmin(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.CreateResponse(w, Response{
			Message: http.StatusText(http.StatusNotImplemented),
			Code:    http.StatusNotImplemented,
			Error:   "match history is disabled",
		})
		return
	}

	userID, err := parseID(chi.URLParam(r, "userId"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	entries, err := h.history.FindByUser(r.Context(), userID, historyLimit)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	h.ok(w, "match history", entries)
}
