package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avvvet/arcade-services/internal/matchsvc/history"
	"github.com/avvvet/arcade-services/internal/matchsvc/service"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

// HistoryReader is the read side of the match history archive.
type HistoryReader interface {
	FindByUser(ctx context.Context, userID int64, limit int64) ([]history.Entry, error)
}

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	service   *service.CurrentMatchService
	history   HistoryReader
	port      string
}

// NewHandler builds the HTTP handler. history may be nil when the archive is
// disabled.
func NewHandler(s *service.CurrentMatchService, h HistoryReader, port string) *Handler {
	return &Handler{service: s, history: h, port: port}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// ErrorResponse maps service errors onto status codes.
func (h *Handler) ErrorResponse(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyMatched):
		code = http.StatusConflict
	case errors.Is(err, service.ErrInvalidRequest):
		code = http.StatusBadRequest
	}

	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Errorf("Error [Handler] %s", err)
		msg = http.StatusText(code)
	}

	h.CreateResponse(w, Response{
		Message: http.StatusText(code),
		Code:    code,
		Error:   msg,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.CreateResponse(w, Response{
		Message: http.StatusText(http.StatusBadRequest),
		Code:    http.StatusBadRequest,
		Error:   msg,
	})
}

func (h *Handler) ok(w http.ResponseWriter, msg string, data interface{}) {
	h.CreateResponse(w, Response{
		Message: msg,
		Code:    http.StatusOK,
		Data:    data,
	})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "match service is running at port "+h.port, nil)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id: " + raw)
	}
	return id, nil
}
