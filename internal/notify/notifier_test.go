package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/pkg/events"
)

type mockMailer struct {
	sent    []mailer.Message
	sendErr error
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockSubscriber struct {
	subjects []string
	queue    string
	handlers map[string]func(*events.Message)
}

func (m *mockSubscriber) QueueSubscribe(subject, queue string, handler func(*events.Message)) error {
	m.subjects = append(m.subjects, subject)
	m.queue = queue
	m.handlers[subject] = handler
	return nil
}

func (m *mockSubscriber) Close() error { return nil }

func message(t *testing.T, subject string, data any) *events.Message {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return &events.Message{Subject: subject, Data: b, Timestamp: time.Now(), ID: "evt-1"}
}

func TestHandle_Recipients(t *testing.T) {
	start := time.Date(2030, 5, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		msg     func(t *testing.T) *events.Message
		to      string
		subject string
	}{
		{
			name: "new request goes to the guide",
			msg: func(t *testing.T) *events.Message {
				return message(t, events.BookingRequested, events.BookingRequestedEvent{
					GuideEmail: "gus@example.com", GuideName: "Gus", TravelerName: "Tia",
					Destination: "Goa", StartDate: start, EndDate: start.AddDate(0, 0, 2), NumberOfPeople: 2,
				})
			},
			to:      "gus@example.com",
			subject: "New booking request",
		},
		{
			name: "acceptance goes to the traveler",
			msg: func(t *testing.T) *events.Message {
				return message(t, events.BookingAccepted, events.BookingDecisionEvent{
					Status: "accepted", TravelerEmail: "tia@example.com", TravelerName: "Tia",
					GuideName: "Gus", Destination: "Goa", StartDate: start,
				})
			},
			to:      "tia@example.com",
			subject: "was accepted",
		},
		{
			name: "rejection goes to the traveler",
			msg: func(t *testing.T) *events.Message {
				return message(t, events.BookingRejected, events.BookingDecisionEvent{
					Status: "rejected", TravelerEmail: "tia@example.com", Destination: "Goa", StartDate: start,
				})
			},
			to:      "tia@example.com",
			subject: "was declined",
		},
		{
			name: "approval goes to the guide user",
			msg: func(t *testing.T) *events.Message {
				return message(t, events.GuideStatusChanged, events.GuideStatusChangedEvent{
					Email: "gus@example.com", Name: "Gus", Status: "verified",
				})
			},
			to:      "gus@example.com",
			subject: "guide profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockMailer{}
			if err := New(m).Handle(context.Background(), tt.msg(t)); err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if len(m.sent) != 1 {
				t.Fatalf("expected one email, got %d", len(m.sent))
			}
			if m.sent[0].ToEmail != tt.to || !strings.Contains(m.sent[0].Subject, tt.subject) {
				t.Fatalf("unexpected email %+v", m.sent[0])
			}
		})
	}
}

func TestHandle_Failures(t *testing.T) {
	m := &mockMailer{}
	n := New(m)

	if err := n.Handle(context.Background(), message(t, events.ChatMessagePosted, events.ChatMessageEvent{})); err != nil {
		t.Fatalf("unrelated subject should be ignored: %v", err)
	}

	bad := &events.Message{Subject: events.BookingRequested, Data: []byte("{")}
	if err := n.Handle(context.Background(), bad); err == nil {
		t.Fatal("expected decode error")
	}

	noRecipient := message(t, events.GuideStatusChanged, events.GuideStatusChangedEvent{Status: "verified"})
	if err := n.Handle(context.Background(), noRecipient); err == nil {
		t.Fatal("expected missing recipient error")
	}

	m.sendErr = errors.New("smtp down")
	ok := message(t, events.GuideStatusChanged, events.GuideStatusChangedEvent{Email: "gus@example.com", Status: "rejected"})
	if err := n.Handle(context.Background(), ok); err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("expected send error, got %v", err)
	}
	if len(m.sent) != 0 {
		t.Fatalf("nothing should have been sent: %+v", m.sent)
	}
}

func TestSubscribe_UsesQueueForEverySubject(t *testing.T) {
	sub := &mockSubscriber{handlers: map[string]func(*events.Message){}}
	m := &mockMailer{}
	if err := New(m).Subscribe(sub, "travelmate-notify"); err != nil {
		t.Fatal(err)
	}
	if len(sub.subjects) != len(Subjects) || sub.queue != "travelmate-notify" {
		t.Fatalf("unexpected subscriptions %v on %q", sub.subjects, sub.queue)
	}

	sub.handlers[events.GuideStatusChanged](message(t, events.GuideStatusChanged, events.GuideStatusChangedEvent{
		Email: "gus@example.com", Status: "verified",
	}))
	if len(m.sent) != 1 {
		t.Fatalf("handler did not send: %+v", m.sent)
	}
}
