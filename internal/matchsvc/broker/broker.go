package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/avvvet/arcade-services/internal/matchsvc/dto"
	"github.com/avvvet/arcade-services/internal/matchsvc/service"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// message types accepted on comm.MatchServiceTopic
const (
	TypeGetCurrentMatch    = "get-current-match"
	TypeAddCurrentMatch    = "add-current-match"
	TypeModifyCurrentMatch = "modify-current-match"
	TypeSaveGame           = "save-game"
	TypeRemoveCurrentMatch = "remove-current-match"

	TypeError = "error"
)

const requestTimeout = 10 * time.Second

type Broker struct {
	Conn                *nats.Conn
	CurrentMatchService *service.CurrentMatchService
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

// SetService wires the service after construction, since the service itself
// publishes its change events through the broker.
func (b *Broker) SetService(s *service.CurrentMatchService) {
	b.CurrentMatchService = s
}

// QueueSubscribe consumes socket service requests; instances of the match
// service share the queue group.
func (b *Broker) QueueSubscribe(topic, queueGroup string) (*nats.Subscription, error) {
	return b.Conn.QueueSubscribe(topic, queueGroup, b.handleMessage)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// CurrentMatchChanged publishes the event for the socket service.
func (b *Broker) CurrentMatchChanged(_ context.Context, event comm.CurrentMatchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	payload, err := json.Marshal(&comm.WSMessage{Type: event.Type, Data: data})
	if err != nil {
		return fmt.Errorf("marshal WSMessage: %w", err)
	}

	return b.Publish(comm.MatchEventsTopic, payload)
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(msgNat.Data, msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rsp := b.dispatch(ctx, msg)
	if rsp == nil {
		return
	}

	payload, err := json.Marshal(rsp)
	if err != nil {
		log.Errorf("error [handleMessage] marshaling %s response: %v", rsp.Type, err)
		return
	}
	b.Publish(comm.MatchEventsTopic, payload)
}

// dispatch runs the request against the service and builds the reply for the
// requesting socket.
func (b *Broker) dispatch(ctx context.Context, msg *comm.WSMessage) *comm.WSMessage {
	var (
		result any
		err    error
	)

	switch msg.Type {
	case TypeGetCurrentMatch:
		var request struct {
			IntraId string `json:"intra_id"`
		}
		if err = json.Unmarshal(msg.Data, &request); err != nil {
			break
		}
		result, err = b.CurrentMatchService.FindCurrentMatchByIntraID(ctx, request.IntraId)
	case TypeAddCurrentMatch:
		var request dto.CurrentMatchAddDto
		if err = json.Unmarshal(msg.Data, &request); err != nil {
			break
		}
		err = b.CurrentMatchService.AddCurrentMatch(ctx, request)
	case TypeModifyCurrentMatch:
		var request dto.CurrentMatchModifyDto
		if err = json.Unmarshal(msg.Data, &request); err != nil {
			break
		}
		err = b.CurrentMatchService.ModifyCurrentMatch(ctx, request)
	case TypeSaveGame:
		var request dto.CurrentMatchSaveGameDto
		if err = json.Unmarshal(msg.Data, &request); err != nil {
			break
		}
		err = b.CurrentMatchService.SaveGameInCurrentMatch(ctx, request)
	case TypeRemoveCurrentMatch:
		var request dto.CurrentMatchRemoveDto
		if err = json.Unmarshal(msg.Data, &request); err != nil {
			break
		}
		err = b.CurrentMatchService.RemoveCurrentMatch(ctx, request)
	default:
		log.Warnf("unknown message type received: %s", msg.Type)
		return nil
	}

	if err != nil {
		log.WithField("type", msg.Type).Errorf("Error [Broker.dispatch] %s", err)
		return newMessage(TypeError, msg.SocketId, comm.ErrorData{Error: err.Error()})
	}
	return newMessage(msg.Type+"-response", msg.SocketId, result)
}

func newMessage(msgType, socketId string, v any) *comm.WSMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("error [newMessage] marshaling %s: %v", msgType, err)
		data = []byte("null")
	}
	return &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
	}
}
