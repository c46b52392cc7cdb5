package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/spacenow-app/spacenow/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

// NATSEventBus publishes events over NATS for multi-process deployments.
type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// InProcessBus dispatches events synchronously inside a single binary. It is
// the default bus: store operations are invoked one at a time by the delivery
// layer, so handlers run to completion before the operation returns.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(msg *Message)
}

func NewInProcessBus() *InProcessBus {
	return &InProcessBus{handlers: make(map[string][]func(msg *Message))}
}

func (b *InProcessBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	b.mu.RLock()
	handlers := append([]func(msg *Message){}, b.handlers[subject]...)
	b.mu.RUnlock()

	msg := &Message{
		Subject:   subject,
		Data:      payload,
		Timestamp: time.Now(),
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
	}

	for _, handler := range handlers {
		handler(msg)
	}

	return nil
}

func (b *InProcessBus) Subscribe(subject string, handler func(msg *Message)) error {
	b.mu.Lock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	b.mu.Unlock()
	return nil
}

func (b *InProcessBus) Close() error {
	b.mu.Lock()
	b.handlers = make(map[string][]func(msg *Message))
	b.mu.Unlock()
	return nil
}

// Event subjects
const (
	// Space inventory events
	SpaceCreated = "space.created"
	SpaceUpdated = "space.updated"
	SpaceDeleted = "space.deleted"

	// Reservation events
	ReservationCreated  = "reservation.created"
	ReservationModified = "reservation.modified"
	ReservationDeleted  = "reservation.deleted"

	// Account events
	UserRegistered = "user.registered"
	UserPromoted   = "user.promoted"
)

// Event payloads
type SpaceEvent struct {
	SpaceID   string    `json:"space_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Timestamp time.Time `json:"timestamp"`
}

type ReservationCreatedEvent struct {
	ReservationID string    `json:"reservation_id"`
	SpaceID       string    `json:"space_id"`
	SpaceName     string    `json:"space_name"`
	UserID        string    `json:"user_id"`
	DateTime      time.Time `json:"date_time"`
	Status        string    `json:"status"`
}

type ReservationModifiedEvent struct {
	ReservationID string    `json:"reservation_id"`
	NewDateTime   time.Time `json:"new_date_time"`
}

type ReservationDeletedEvent struct {
	ReservationID string    `json:"reservation_id"`
	DeletedAt     time.Time `json:"deleted_at"`
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserPromotedEvent struct {
	UserID     string    `json:"user_id"`
	PromotedBy string    `json:"promoted_by"`
	PromotedAt time.Time `json:"promoted_at"`
}
