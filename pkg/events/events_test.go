package events

import (
	"strings"
	"testing"
)

var (
	_ EventBus  = (*NATSEventBus)(nil)
	_ Publisher = NopPublisher{}
)

func TestMessageDecode(t *testing.T) {
	msg := &Message{Subject: GuideStatusChanged, Data: []byte(`{"email":"gus@example.com","status":"verified"}`)}

	var evt GuideStatusChangedEvent
	if err := msg.Decode(&evt); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if evt.Email != "gus@example.com" || evt.Status != "verified" {
		t.Fatalf("unexpected event %+v", evt)
	}

	bad := &Message{Subject: BookingRequested, Data: []byte("{")}
	if err := bad.Decode(&evt); err == nil || !strings.Contains(err.Error(), BookingRequested) {
		t.Fatalf("expected decode error naming the subject, got %v", err)
	}
}
