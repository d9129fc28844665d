// Package notify turns domain events into emails.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/pkg/events"
	"github.com/diagnosis/travelmate/pkg/logger"
)

const sendTimeout = 15 * time.Second

// Subjects lists every event the notifier emails about.
var Subjects = []string{
	events.BookingRequested,
	events.BookingAccepted,
	events.BookingRejected,
	events.GuideStatusChanged,
}

type Notifier struct {
	mailer mailer.Service
}

func New(m mailer.Service) *Notifier {
	return &Notifier{mailer: m}
}

// Subscribe joins queue on every subject so several workers share the load.
func (n *Notifier) Subscribe(sub events.Subscriber, queue string) error {
	for _, subject := range Subjects {
		if err := sub.QueueSubscribe(subject, queue, n.handle); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}
	return nil
}

func (n *Notifier) handle(msg *events.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := n.Handle(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Notification failed", "subject", msg.Subject, "event_id", msg.ID, "error", err)
		return
	}
	logger.InfoContext(ctx, "Notification sent", "subject", msg.Subject, "event_id", msg.ID)
}

// Handle builds the email for msg and sends it. Unknown subjects are ignored.
func (n *Notifier) Handle(ctx context.Context, msg *events.Message) error {
	var email mailer.Message

	switch msg.Subject {
	case events.BookingRequested:
		var ev events.BookingRequestedEvent
		if err := msg.Decode(&ev); err != nil {
			return err
		}
		email = mailer.BookingRequestedEmail(ev)

	case events.BookingAccepted, events.BookingRejected:
		var ev events.BookingDecisionEvent
		if err := msg.Decode(&ev); err != nil {
			return err
		}
		email = mailer.BookingDecisionEmail(ev)

	case events.GuideStatusChanged:
		var ev events.GuideStatusChangedEvent
		if err := msg.Decode(&ev); err != nil {
			return err
		}
		email = mailer.GuideStatusEmail(ev)

	default:
		return nil
	}

	if email.ToEmail == "" {
		return fmt.Errorf("%s event has no recipient", msg.Subject)
	}
	if err := n.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Subject, err)
	}
	return nil
}
