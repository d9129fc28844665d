package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/storage"
)

type BlogService interface {
	List(ctx context.Context) ([]*domain.BlogView, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.BlogView, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*domain.BlogView, error)
	Create(ctx context.Context, caller Caller, req *domain.BlogRequest, image *storage.File) (*domain.BlogView, error)
	// Update and Delete are allowed to the author; Delete also to admins.
	Update(ctx context.Context, caller Caller, id primitive.ObjectID, req *domain.BlogRequest, image *storage.File) (*domain.BlogView, error)
	Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error
}

type blogService struct {
	store *repository.Store
	files storage.Store
	views *views
}

func NewBlogService(store *repository.Store, files storage.Store) BlogService {
	return &blogService{store: store, files: files, views: &views{store: store}}
}

func (s *blogService) find(ctx context.Context, id primitive.ObjectID) (*domain.Blog, error) {
	b, err := s.store.Blogs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	if b == nil {
		return nil, domain.NotFound("Blog not found")
	}
	return b, nil
}

func (s *blogService) view(ctx context.Context, b *domain.Blog) (*domain.BlogView, error) {
	list, err := s.views.blogViews(ctx, []*domain.Blog{b})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func (s *blogService) List(ctx context.Context) ([]*domain.BlogView, error) {
	blogs, err := s.store.Blogs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return s.views.blogViews(ctx, blogs)
}

func (s *blogService) Get(ctx context.Context, id primitive.ObjectID) (*domain.BlogView, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b)
}

func (s *blogService) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*domain.BlogView, error) {
	blogs, err := s.store.Blogs.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return s.views.blogViews(ctx, blogs)
}

func (s *blogService) Create(ctx context.Context, caller Caller, req *domain.BlogRequest, image *storage.File) (*domain.BlogView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := &domain.Blog{
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    caller.ID,
		Role:        caller.Role,
	}
	if image != nil {
		asset, err := s.files.Upload(ctx, storage.FolderBlogs, *image)
		if err != nil {
			return nil, err
		}
		b.Image = asset
	}

	if err := s.store.Blogs.Create(ctx, b); err != nil {
		removeAsset(ctx, s.files, b.Image)
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}
	return s.view(ctx, b)
}

func (s *blogService) Update(ctx context.Context, caller Caller, id primitive.ObjectID, req *domain.BlogRequest, image *storage.File) (*domain.BlogView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.AuthorID != caller.ID {
		return nil, domain.Forbidden("Only the author can edit this blog")
	}

	b.Title = req.Title
	b.Description = req.Description
	var old *domain.Asset
	if image != nil {
		asset, err := s.files.Upload(ctx, storage.FolderBlogs, *image)
		if err != nil {
			return nil, err
		}
		old, b.Image = b.Image, asset
	}

	if err := s.store.Blogs.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}
	if old != nil {
		removeAsset(ctx, s.files, old)
	}
	return s.view(ctx, b)
}

func (s *blogService) Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error {
	b, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if b.AuthorID != caller.ID && !caller.IsAdmin() {
		return domain.Forbidden("Only the author can delete this blog")
	}

	if _, err := s.store.Blogs.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if b.Image != nil {
		removeAsset(ctx, s.files, b.Image)
	}
	return nil
}
