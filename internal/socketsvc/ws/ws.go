package ws

import (
	"encoding/json"
	"sync"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Publisher forwards client requests to the match service.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Ws tracks open sockets and which user each one belongs to.
type Ws struct {
	connMap sync.Map // socketId -> *websocket.Conn
	userMap sync.Map // socketId -> userId
	writeMu sync.Map // socketId -> *sync.Mutex, gorilla allows one writer per conn

	Publisher Publisher
}

func NewWs() *Ws {
	return &Ws{}
}

// forwarded untouched to the match service
var matchRequests = map[string]bool{
	"get-current-match":    true,
	"add-current-match":    true,
	"modify-current-match": true,
	"save-game":            true,
	"remove-current-match": true,
}

// SocketMessage handles a message from a web client.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch {
	case message.Type == "init":
		s.handleInit(socketId, message)
	case matchRequests[message.Type]:
		s.forward(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) handleInit(socketId string, msg *comm.WSMessage) {
	var payload struct {
		UserId int64 `json:"user_id"`
	}

	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: invalid_init_data Malformed init payload %s", err)
		return
	}

	if payload.UserId == 0 {
		log.Error("Invalid init payload: missing user_id")
		return
	}

	s.userMap.Store(socketId, payload.UserId)
	log.Infof("socket %s registered for user %d", socketId, payload.UserId)
}

func (s *Ws) forward(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	if err := s.Publisher.Publish(comm.MatchServiceTopic, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", comm.MatchServiceTopic, err)
		return
	}
	log.Debugf("forwarded %s from socket %s", msg.Type, socketId)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
	s.writeMu.Store(socketId, &sync.Mutex{})
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

// GetUserSockets returns the sockets registered for any of the users.
func (s *Ws) GetUserSockets(userIds []int64) []string {
	wanted := make(map[int64]bool, len(userIds))
	for _, id := range userIds {
		wanted[id] = true
	}

	var sockets []string
	s.userMap.Range(func(key, value any) bool {
		if wanted[value.(int64)] {
			sockets = append(sockets, key.(string))
		}
		return true
	})
	return sockets
}

// Send writes m to the socket if it is still open.
func (s *Ws) Send(socketId string, m *comm.WSMessage) {
	conn, ok := s.GetConnection(socketId)
	if !ok {
		return
	}

	mu, _ := s.writeMu.LoadOrStore(socketId, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	if err := conn.WriteJSON(m); err != nil {
		log.Errorf("Failed to write to socket %s: %v", socketId, err)
	}
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.userMap.Delete(socketId)
	s.writeMu.Delete(socketId)
}
