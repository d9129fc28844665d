package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/pkg/events"
)

// Caller identifies the authenticated user behind a request.
type Caller struct {
	ID   primitive.ObjectID
	Role string
}

func (c Caller) IsAdmin() bool { return c.Role == domain.RoleAdmin }

type ChatService interface {
	Thread(ctx context.Context, caller Caller, bookingID primitive.ObjectID) (*domain.ChatThread, error)
	Post(ctx context.Context, caller Caller, bookingID primitive.ObjectID, req *domain.PostMessageRequest) (*domain.ChatMessageView, error)
}

type chatService struct {
	store     *repository.Store
	publisher events.Publisher
	views     *views
}

func NewChatService(store *repository.Store, publisher events.Publisher) ChatService {
	return &chatService{store: store, publisher: publisher, views: &views{store: store}}
}

// participant loads the booking and checks the caller is its traveler, its guide or an admin.
func (s *chatService) participant(ctx context.Context, caller Caller, bookingID primitive.ObjectID) (*domain.BookingRequest, error) {
	b, err := s.store.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil {
		return nil, domain.NotFound("Booking not found")
	}
	if caller.IsAdmin() || b.TravelerID == caller.ID {
		return b, nil
	}

	g, err := s.store.Guides.FindByID(ctx, b.GuideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if g != nil && g.UserID == caller.ID {
		return b, nil
	}
	return nil, domain.Forbidden("You are not part of this booking")
}

func (s *chatService) Thread(ctx context.Context, caller Caller, bookingID primitive.ObjectID) (*domain.ChatThread, error) {
	b, err := s.participant(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.Chats.ListByBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.SenderID)
	}
	senders, err := s.views.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &domain.ChatThread{Messages: make([]*domain.ChatMessageView, 0, len(messages))}
	if out.Booking, err = s.views.bookingView(ctx, b); err != nil {
		return nil, err
	}
	for _, m := range messages {
		out.Messages = append(out.Messages, &domain.ChatMessageView{ChatMessage: m, Sender: senderSummary(senders[m.SenderID])})
	}
	return out, nil
}

func (s *chatService) Post(ctx context.Context, caller Caller, bookingID primitive.ObjectID, req *domain.PostMessageRequest) (*domain.ChatMessageView, error) {
	b, err := s.participant(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := &domain.ChatMessage{BookingID: b.ID, SenderID: caller.ID, Message: req.Message}
	if err := s.store.Chats.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	sender, err := s.store.Users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}

	publish(ctx, s.publisher, events.ChatMessagePosted, events.ChatMessageEvent{
		BookingID: b.ID.Hex(),
		SenderID:  caller.ID.Hex(),
		CreatedAt: m.CreatedAt,
	}, m.ID)

	return &domain.ChatMessageView{ChatMessage: m, Sender: senderSummary(sender)}, nil
}

// senderSummary exposes only name and role of a chat participant.
func senderSummary(u *domain.User) *domain.UserSummary {
	if u == nil {
		return nil
	}
	return &domain.UserSummary{ID: u.ID, Name: u.Name, Role: u.Role, ProfileImage: u.ProfileImage}
}
