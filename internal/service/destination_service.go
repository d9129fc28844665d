package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/storage"
)

type DestinationService interface {
	List(ctx context.Context) ([]*domain.Destination, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Destination, error)
	Create(ctx context.Context, req *domain.DestinationRequest, image *storage.File) (*domain.Destination, error)
	Update(ctx context.Context, id primitive.ObjectID, req *domain.DestinationRequest, image *storage.File) (*domain.Destination, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type destinationService struct {
	destinations repository.DestinationRepository
	files        storage.Store
}

func NewDestinationService(destinations repository.DestinationRepository, files storage.Store) DestinationService {
	return &destinationService{destinations: destinations, files: files}
}

func (s *destinationService) List(ctx context.Context) ([]*domain.Destination, error) {
	list, err := s.destinations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	return list, nil
}

func (s *destinationService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Destination, error) {
	d, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if d == nil {
		return nil, domain.NotFound("Destination not found")
	}
	return d, nil
}

func (s *destinationService) Create(ctx context.Context, req *domain.DestinationRequest, image *storage.File) (*domain.Destination, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := &domain.Destination{}
	req.Apply(d)
	if image != nil {
		asset, err := s.files.Upload(ctx, storage.FolderDestinations, *image)
		if err != nil {
			return nil, err
		}
		d.Image = asset
	}

	if err := s.destinations.Create(ctx, d); err != nil {
		removeAsset(ctx, s.files, d.Image)
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}
	return d, nil
}

func (s *destinationService) Update(ctx context.Context, id primitive.ObjectID, req *domain.DestinationRequest, image *storage.File) (*domain.Destination, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(d)
	var old *domain.Asset
	if image != nil {
		asset, err := s.files.Upload(ctx, storage.FolderDestinations, *image)
		if err != nil {
			return nil, err
		}
		old, d.Image = d.Image, asset
	}

	if err := s.destinations.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update destination: %w", err)
	}
	if old != nil {
		removeAsset(ctx, s.files, old)
	}
	return d, nil
}

func (s *destinationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.destinations.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete destination: %w", err)
	}
	if d.Image != nil {
		removeAsset(ctx, s.files, d.Image)
	}
	return nil
}
