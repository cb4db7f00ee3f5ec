// Package events publishes transaction lifecycle events over NATS.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Broker encapsulates a NATS connection. It is constructed explicitly and
// closed at shutdown; components that publish through it take it as a
// dependency rather than reaching for a shared instance.
type Broker struct {
	conn *nats.Conn
	log  *zap.Logger
}

// NewBroker connects to the NATS server at the provided URL.
func NewBroker(url string, log *zap.Logger) (*Broker, error) {
	if log == nil {
		log = zap.NewNop()
	}

	nc, err := nats.Connect(url,
		nats.Timeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Broker{conn: nc, log: log}, nil
}

// Publish sends data on the provided subject.
func (b *Broker) Publish(subject string, data []byte) error {
	b.log.Debug("publishing event", zap.String("subject", subject))
	return b.conn.Publish(subject, data)
}

// PublishJSON marshals v and publishes it on the subject.
func (b *Broker) PublishJSON(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Publish(subject, data)
}

// Subscribe registers a callback for a specific subject.
func (b *Broker) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	return b.conn.Subscribe(subject, cb)
}

// Close gracefully closes the connection.
func (b *Broker) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}
