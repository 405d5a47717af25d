package broker

import (
	"encoding/json"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn           *nats.Conn
	Send           func(socketId string, m *comm.WSMessage)
	GetUserSockets func(userIds []int64) []string
}

func NewBroker(conn *nats.Conn, fncSend func(string, *comm.WSMessage), fncGetUserSockets func([]int64) []string) *Broker {
	return &Broker{
		Conn:           conn,
		Send:           fncSend,
		GetUserSockets: fncGetUserSockets,
	}
}

// consume messages from the match service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message to match service
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(msgNats.Data, message); err != nil {
		log.Errorf("Error %s", err)
		return
	}
	b.route(message)
}

// route delivers replies to the socket that asked and change events to every
// socket of the affected users.
func (b *Broker) route(message *comm.WSMessage) {
	if message.SocketId != "" {
		b.Send(message.SocketId, message)
		return
	}

	switch message.Type {
	case comm.EventMatchAdded, comm.EventMatchModified, comm.EventGameAttached, comm.EventMatchRemoved:
		var event comm.CurrentMatchEvent
		if err := json.Unmarshal(message.Data, &event); err != nil {
			log.Errorf("Error decoding %s event: %s", message.Type, err)
			return
		}
		for _, socketId := range b.GetUserSockets(event.UserIds) {
			b.Send(socketId, message)
		}
	default:
		log.Errorf("Unknown message %s", message.Type)
	}
}
