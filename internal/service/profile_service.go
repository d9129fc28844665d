package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/storage"
)

type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.UserInfo, error)
	Update(ctx context.Context, userID primitive.ObjectID, req *domain.UpdateProfileRequest, image *storage.File) (*domain.UserInfo, error)
	RemoveImage(ctx context.Context, userID primitive.ObjectID) (*domain.UserInfo, error)
	// Public returns a traveler or admin profile. Guide accounts are not listed here.
	Public(ctx context.Context, id primitive.ObjectID) (*domain.UserInfo, error)
}

type profileService struct {
	users repository.UserRepository
	files storage.Store
}

func NewProfileService(users repository.UserRepository, files storage.Store) ProfileService {
	return &profileService{users: users, files: files}
}

func (s *profileService) load(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}
	return user, nil
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.UserInfo, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToUserInfo(), nil
}

func (s *profileService) Update(ctx context.Context, userID primitive.ObjectID, req *domain.UpdateProfileRequest, image *storage.File) (*domain.UserInfo, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var old *domain.Asset
	if image != nil {
		asset, err := s.files.Upload(ctx, storage.FolderUserProfiles, *image)
		if err != nil {
			return nil, err
		}
		if user.ProfileImageKey != "" {
			old = &domain.Asset{URL: user.ProfileImage, Key: user.ProfileImageKey}
		}
		user.ProfileImage = asset.URL
		user.ProfileImageKey = asset.Key
	}

	user.AboutMe = req.AboutMe
	user.Location = req.Location
	user.Phone = req.Phone

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if old != nil {
		removeAsset(ctx, s.files, old)
	}
	return user.ToUserInfo(), nil
}

func (s *profileService) RemoveImage(ctx context.Context, userID primitive.ObjectID) (*domain.UserInfo, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfileImage == "" {
		return nil, domain.Invalid("No profile image to remove")
	}

	old := &domain.Asset{URL: user.ProfileImage, Key: user.ProfileImageKey}
	user.ProfileImage = ""
	user.ProfileImageKey = ""
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to remove profile image: %w", err)
	}
	removeAsset(ctx, s.files, old)
	return user.ToUserInfo(), nil
}

func (s *profileService) Public(ctx context.Context, id primitive.ObjectID) (*domain.UserInfo, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.Role == domain.RoleGuide {
		return nil, domain.NotFound("User not found")
	}
	info := user.ToUserInfo()
	info.Phone = ""
	return info, nil
}
