package ws

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func initMessage(t *testing.T, userId int64) *comm.WSMessage {
	t.Helper()
	data, err := json.Marshal(map[string]int64{"user_id": userId})
	require.NoError(t, err)
	return &comm.WSMessage{Type: "init", Data: data}
}

func TestInitRegistersUser(t *testing.T) {
	s := NewWs()

	s.SocketMessage("a", initMessage(t, 1))
	s.SocketMessage("b", initMessage(t, 2))
	s.SocketMessage("c", initMessage(t, 1))
	s.SocketMessage("d", initMessage(t, 0)) // rejected

	sockets := s.GetUserSockets([]int64{1})
	sort.Strings(sockets)
	assert.Equal(t, []string{"a", "c"}, sockets)
	assert.Empty(t, s.GetUserSockets([]int64{3}))

	s.HandleDisconnect("a")
	assert.Equal(t, []string{"c"}, s.GetUserSockets([]int64{1}))
}

func TestMatchRequestsAreForwarded(t *testing.T) {
	pub := &fakePublisher{}
	s := NewWs()
	s.Publisher = pub

	s.SocketMessage("sock-1", &comm.WSMessage{Type: "get-current-match", Data: json.RawMessage(`{"intra_id":"alice"}`)})
	s.SocketMessage("sock-1", &comm.WSMessage{Type: "select-card"})

	require.Len(t, pub.payloads, 1)
	assert.Equal(t, comm.MatchServiceTopic, pub.topics[0])

	var forwarded comm.WSMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &forwarded))
	assert.Equal(t, "sock-1", forwarded.SocketId)
	assert.Equal(t, "get-current-match", forwarded.Type)
}
