package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/avvvet/arcade-services/internal/matchsvc/dto"
	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/avvvet/arcade-services/internal/matchsvc/service"
	"github.com/avvvet/arcade-services/internal/matchsvc/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroker(t *testing.T) (*Broker, *memory.Store) {
	t.Helper()

	mem := memory.New()
	mem.PutUser(models.User{ID: 1, IntraID: "alice"})
	mem.PutSlot(models.Slot{ID: 10, Time: time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)})
	mem.PutGame(models.Game{ID: 100, SlotID: 10})

	b := NewBroker(nil)
	b.SetService(service.NewCurrentMatchService(mem))
	return b, mem
}

func request(t *testing.T, msgType string, v any) *comm.WSMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return &comm.WSMessage{Type: msgType, Data: data, SocketId: "sock-1"}
}

func TestDispatch_AddThenGet(t *testing.T) {
	b, mem := newTestBroker(t)
	ctx := context.Background()

	rsp := b.dispatch(ctx, request(t, TypeAddCurrentMatch, dto.CurrentMatchAddDto{UserID: 1, Slot: &dto.SlotDto{ID: 10}}))
	require.NotNil(t, rsp)
	assert.Equal(t, TypeAddCurrentMatch+"-response", rsp.Type)
	assert.Equal(t, "sock-1", rsp.SocketId)
	assert.Len(t, mem.CurrentMatches(), 1)

	rsp = b.dispatch(ctx, request(t, TypeGetCurrentMatch, map[string]string{"intra_id": "alice"}))
	require.NotNil(t, rsp)
	assert.Equal(t, TypeGetCurrentMatch+"-response", rsp.Type)

	var got dto.CurrentMatchDto
	require.NoError(t, json.Unmarshal(rsp.Data, &got))
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, int64(10), got.Slot.ID)
}

func TestDispatch_ModifySaveGameRemove(t *testing.T) {
	b, mem := newTestBroker(t)
	ctx := context.Background()
	b.dispatch(ctx, request(t, TypeAddCurrentMatch, dto.CurrentMatchAddDto{UserID: 1, Slot: &dto.SlotDto{ID: 10}}))

	rsp := b.dispatch(ctx, request(t, TypeModifyCurrentMatch, dto.CurrentMatchModifyDto{SlotID: 10, MatchImminent: true}))
	assert.Equal(t, TypeModifyCurrentMatch+"-response", rsp.Type)
	assert.True(t, mem.CurrentMatches()[0].MatchImminent)

	rsp = b.dispatch(ctx, request(t, TypeSaveGame, dto.CurrentMatchSaveGameDto{GameID: 100, UserID: 1}))
	assert.Equal(t, TypeSaveGame+"-response", rsp.Type)
	require.NotNil(t, mem.CurrentMatches()[0].GameID)

	rsp = b.dispatch(ctx, request(t, TypeRemoveCurrentMatch, dto.CurrentMatchRemoveDto{UserID: 1}))
	assert.Equal(t, TypeRemoveCurrentMatch+"-response", rsp.Type)
	assert.Empty(t, mem.CurrentMatches())
}

func TestDispatch_ErrorReply(t *testing.T) {
	b, _ := newTestBroker(t)

	rsp := b.dispatch(context.Background(), request(t, TypeGetCurrentMatch, map[string]string{"intra_id": "nobody"}))
	require.NotNil(t, rsp)
	assert.Equal(t, TypeError, rsp.Type)

	var data comm.ErrorData
	require.NoError(t, json.Unmarshal(rsp.Data, &data))
	assert.Contains(t, data.Error, "not found")
}

func TestDispatch_MalformedPayload(t *testing.T) {
	b, _ := newTestBroker(t)

	rsp := b.dispatch(context.Background(), &comm.WSMessage{Type: TypeSaveGame, Data: []byte(`{"gameId":"x"}`)})
	require.NotNil(t, rsp)
	assert.Equal(t, TypeError, rsp.Type)
}

func TestDispatch_UnknownType(t *testing.T) {
	b, _ := newTestBroker(t)

	assert.Nil(t, b.dispatch(context.Background(), &comm.WSMessage{Type: "select-card"}))
}
