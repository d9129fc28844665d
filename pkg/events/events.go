package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/diagnosis/travelmate/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
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

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v interface{}) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s event: %w", m.Subject, err)
	}
	return nil
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url, name string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
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

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "bytes", len(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, wrap(handler))
	return err
}

func (n *NATSEventBus) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}

func wrap(handler func(msg *Message)) nats.MsgHandler {
	return func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        uuid.NewString(),
		})
	}
}

// NopPublisher drops every event. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

const (
	UserRegistered = "user.registered"
	UserVerified   = "user.verified"

	BookingRequested = "booking.requested"
	BookingAccepted  = "booking.accepted"
	BookingRejected  = "booking.rejected"

	GuideStatusChanged = "guide.status_changed"

	ChatMessagePosted = "chat.message"
	ReviewPosted      = "review.posted"
)

type UserRegisteredEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingRequestedEvent struct {
	BookingID      string    `json:"booking_id"`
	TripID         string    `json:"trip_id"`
	GuideID        string    `json:"guide_id"`
	GuideEmail     string    `json:"guide_email"`
	GuideName      string    `json:"guide_name"`
	TravelerName   string    `json:"traveler_name"`
	Destination    string    `json:"destination"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	NumberOfPeople int       `json:"number_of_people"`
	RequestedAt    time.Time `json:"requested_at"`
}

// BookingDecisionEvent is published on both BookingAccepted and BookingRejected.
type BookingDecisionEvent struct {
	BookingID     string    `json:"booking_id"`
	Status        string    `json:"status"`
	TravelerEmail string    `json:"traveler_email"`
	TravelerName  string    `json:"traveler_name"`
	GuideName     string    `json:"guide_name"`
	Destination   string    `json:"destination"`
	StartDate     time.Time `json:"start_date"`
	DecidedAt     time.Time `json:"decided_at"`
}

type GuideStatusChangedEvent struct {
	GuideID   string    `json:"guide_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type ChatMessageEvent struct {
	BookingID string    `json:"booking_id"`
	SenderID  string    `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewPostedEvent struct {
	ReviewID  string    `json:"review_id"`
	GuideID   string    `json:"guide_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
