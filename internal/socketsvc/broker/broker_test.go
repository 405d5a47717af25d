package broker

import (
	"encoding/json"
	"testing"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	socketId string
	msgType  string
}

func newTestBroker(userSockets map[int64][]string) (*Broker, *[]sent) {
	var out []sent
	b := NewBroker(nil,
		func(socketId string, m *comm.WSMessage) {
			out = append(out, sent{socketId: socketId, msgType: m.Type})
		},
		func(userIds []int64) []string {
			var sockets []string
			for _, id := range userIds {
				sockets = append(sockets, userSockets[id]...)
			}
			return sockets
		})
	return b, &out
}

func TestRouteReplyGoesToRequester(t *testing.T) {
	b, out := newTestBroker(nil)

	b.route(&comm.WSMessage{Type: "get-current-match-response", SocketId: "sock-9"})

	require.Len(t, *out, 1)
	assert.Equal(t, sent{socketId: "sock-9", msgType: "get-current-match-response"}, (*out)[0])
}

func TestRouteEventFansOutToUsers(t *testing.T) {
	b, out := newTestBroker(map[int64][]string{
		1: {"a", "b"},
		2: {"c"},
		3: {"d"},
	})

	data, err := json.Marshal(comm.CurrentMatchEvent{Type: comm.EventMatchModified, UserIds: []int64{1, 2}, MatchImminent: true})
	require.NoError(t, err)
	b.route(&comm.WSMessage{Type: comm.EventMatchModified, Data: data})

	var sockets []string
	for _, s := range *out {
		sockets = append(sockets, s.socketId)
		assert.Equal(t, comm.EventMatchModified, s.msgType)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, sockets)
}

func TestRouteUnknownMessageDropped(t *testing.T) {
	b, out := newTestBroker(nil)

	b.route(&comm.WSMessage{Type: "game-started"})
	assert.Empty(t, *out)
}
