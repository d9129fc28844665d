package service

import (
	"context"
	"fmt"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
)

type ContactService interface {
	Submit(ctx context.Context, req *domain.ContactRequest) (*domain.Contact, error)
	List(ctx context.Context) ([]*domain.Contact, error)
}

type contactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) Submit(ctx context.Context, req *domain.ContactRequest) (*domain.Contact, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &domain.Contact{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return c, nil
}

func (s *contactService) List(ctx context.Context) ([]*domain.Contact, error) {
	list, err := s.contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return list, nil
}
