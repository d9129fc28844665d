package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/pkg/config"
)

const (
	FolderDestinations  = "destinations"
	FolderUserProfiles  = "UserProfiles"
	FolderIDProofs      = "IDProofs"
	FolderGuideProfiles = "GuideProfiles"
	FolderBlogs         = "blogs"
)

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".avif": "image/avif",
	".webp": "image/webp",
}

var documentExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// allowed lists the accepted extensions per folder.
var allowed = map[string]map[string]string{
	FolderDestinations:  imageExts,
	FolderUserProfiles:  imageExts,
	FolderGuideProfiles: imageExts,
	FolderBlogs:         imageExts,
	FolderIDProofs:      documentExts,
}

// File is an upload taken from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store keeps uploaded files and hands back a public URL for each.
type Store interface {
	Upload(ctx context.Context, folder string, f File) (*domain.Asset, error)
	Delete(ctx context.Context, key string) error
}

// New returns the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local", "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// objectKey checks the file type against the folder and builds a unique key.
func objectKey(prefix, folder, name string) (key, contentType string, err error) {
	exts, ok := allowed[folder]
	if !ok {
		return "", "", fmt.Errorf("unknown storage folder %q", folder)
	}
	ext := strings.ToLower(filepath.Ext(name))
	contentType, ok = exts[ext]
	if !ok {
		return "", "", domain.Invalid("File type %s is not allowed", displayExt(ext))
	}
	key = path.Join(prefix, folder, fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), ext))
	return key, contentType, nil
}

func displayExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}

// DeleteAsset removes a stored asset if there is one.
func DeleteAsset(ctx context.Context, s Store, a *domain.Asset) error {
	if a == nil || a.Key == "" {
		return nil
	}
	return s.Delete(ctx, a.Key)
}
