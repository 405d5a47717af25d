package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/avvvet/arcade-services/internal/matchsvc/history"
	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/avvvet/arcade-services/internal/matchsvc/service"
	"github.com/avvvet/arcade-services/internal/matchsvc/store/memory"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	entries []history.Entry
}

func (s *stubHistory) FindByUser(_ context.Context, userID int64, _ int64) ([]history.Entry, error) {
	var out []history.Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type testServer struct {
	router http.Handler
	mem    *memory.Store
	token  string
}

func newTestServer(t *testing.T, hist HistoryReader) *testServer {
	t.Helper()

	mem := memory.New()
	mem.PutUser(models.User{ID: 1, IntraID: "alice"})
	mem.PutUser(models.User{ID: 2, IntraID: "bob"})
	mem.PutSlot(models.Slot{ID: 10, TableID: 1, Time: time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC), Type: models.GameTypeSingle})
	mem.PutGame(models.Game{ID: 100, SlotID: 10, Status: models.GameStatusWait})
	mem.PutSlotTeamUser(models.SlotTeamUser{ID: 1, SlotID: 10, UserID: 1})

	h := NewHandler(service.NewCurrentMatchService(mem), hist, "8080")
	auth := h.InitAuth("test-secret", false)
	_, token, err := auth.Encode(map[string]interface{}{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	h.SetRoutes(r)
	return &testServer{router: r, mem: mem, token: token}
}

func (s *testServer) do(t *testing.T, method, path, body string, admin bool) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var rsp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	}
	return rec, rsp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec, rsp := s.do(t, http.MethodGet, "/v1/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rsp.Message, "8080")
}

func TestAddAndFindCurrentMatch(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(t, http.MethodPost, "/v1/current-match", `{"userId":1,"slot":{"id":10}}`, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/v1/current-match/slot/10", `{"matchImminent":true,"isMatched":false}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, rsp := s.do(t, http.MethodGet, "/v1/current-match?userId=1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	data := rsp.Data.(map[string]interface{})
	assert.Equal(t, true, data["matchImminent"])
	assert.Equal(t, false, data["isMatched"])
	assert.Nil(t, data["game"])
	assert.Equal(t, float64(10), data["slot"].(map[string]interface{})["id"])

	rec, _ = s.do(t, http.MethodPost, "/v1/current-match", `{"userId":1,"slot":{"id":10}}`, false)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFindCurrentMatchByIntraID(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(t, http.MethodGet, "/v1/current-match/intra/nobody", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, rsp := s.do(t, http.MethodGet, "/v1/current-match/intra/bob", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, rsp.Data)
}

func TestSaveGameAndFindByGame(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(t, http.MethodPut, "/v1/current-match/game", `{"gameId":100,"userId":1}`, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.do(t, http.MethodPost, "/v1/current-match", `{"userId":1,"slot":{"id":10}}`, false)
	rec, _ = s.do(t, http.MethodPut, "/v1/current-match/game", `{"gameId":100,"userId":1}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, rsp := s.do(t, http.MethodGet, "/v1/current-match/game/100", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rsp.Data.([]interface{}), 1)
}

func TestRemoveCurrentMatch(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/v1/current-match", `{"userId":1,"slot":{"id":10}}`, false)
	s.do(t, http.MethodPost, "/v1/current-match", `{"userId":2,"slot":{"id":10}}`, false)

	rec, _ := s.do(t, http.MethodDelete, "/v1/current-match?slotId=10", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	matches := s.mem.CurrentMatches()
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].UserID)

	rec, _ = s.do(t, http.MethodDelete, "/v1/current-match?userId=abc", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(t, http.MethodGet, "/v1/admin/current-matches", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCrud(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(t, http.MethodPost, "/v1/admin/current-matches", `{"userId":2,"slotId":10,"gameId":404}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.mem.CurrentMatches())

	rec, _ = s.do(t, http.MethodPost, "/v1/admin/current-matches", `{"userId":2,"slotId":10,"gameId":100,"isMatched":true}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := s.mem.CurrentMatches()[0].ID

	rec, _ = s.do(t, http.MethodPut, "/v1/admin/current-matches/"+itoa(id), `{"matchImminent":true,"isMatched":false}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.mem.CurrentMatches()[0].MatchImminent)
	assert.False(t, s.mem.CurrentMatches()[0].IsMatched)

	rec, rsp := s.do(t, http.MethodGet, "/v1/admin/current-matches?page=0&size=10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	page := rsp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), page["total"])

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/current-matches?size=1000", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/v1/admin/current-matches/"+itoa(id), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.mem.CurrentMatches())

	rec, _ = s.do(t, http.MethodDelete, "/v1/admin/current-matches/"+itoa(id), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHistory(t *testing.T) {
	disabled := newTestServer(t, nil)
	rec, _ := disabled.do(t, http.MethodGet, "/v1/admin/history/1", "", true)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	s := newTestServer(t, &stubHistory{entries: []history.Entry{
		{CurrentMatchID: 1, UserID: 1, SlotID: 10, Reason: service.RemovedByUser},
		{CurrentMatchID: 2, UserID: 2, SlotID: 10, Reason: service.RemovedBySlot},
	}})
	rec, rsp := s.do(t, http.MethodGet, "/v1/admin/history/1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := rsp.Data.([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, service.RemovedByUser, entries[0].(map[string]interface{})["reason"])
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
