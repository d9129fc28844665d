package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/pkg/config"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		folder  string
		file    string
		wantCT  string
		wantErr bool
	}{
		{"image", FolderDestinations, "beach.JPG", "image/jpeg", false},
		{"webp", FolderBlogs, "a.webp", "image/webp", false},
		{"pdf proof", FolderIDProofs, "passport.pdf", "application/pdf", false},
		{"pdf as profile", FolderUserProfiles, "me.pdf", "", true},
		{"no extension", FolderGuideProfiles, "photo", "", true},
		{"unknown folder", "secrets", "a.png", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ct, err := objectKey("travel-app", tt.folder, tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got key %q", key)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ct != tt.wantCT {
				t.Fatalf("content type %q, want %q", ct, tt.wantCT)
			}
			if !strings.HasPrefix(key, "travel-app/"+tt.folder+"/") {
				t.Fatalf("unexpected key %q", key)
			}
		})
	}
}

func TestObjectKey_RejectedTypeIsInvalidInput(t *testing.T) {
	_, _, err := objectKey("p", FolderBlogs, "x.exe")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:8080/public/", "travel-app")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	asset, err := s.Upload(context.Background(), FolderBlogs, File{Name: "cover.png", Body: strings.NewReader("png-bytes")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(asset.URL, "http://localhost:8080/public/travel-app/blogs/") {
		t.Fatalf("unexpected url %q", asset.URL)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(asset.Key)))
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("file not written: %v %q", err, data)
	}

	if err := s.Delete(context.Background(), asset.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(asset.Key))); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	// Deleting twice is fine.
	if err := s.Delete(context.Background(), asset.Key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "http://x", "p")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected error for key outside root")
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_Upload(t *testing.T) {
	fake := &fakeS3{}
	s := NewS3StoreWithClient(fake, "bucket", "https://cdn.example.com/", "travel-app")

	asset, err := s.Upload(context.Background(), FolderIDProofs, File{Name: "id.pdf", Size: 4, Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if *fake.put.Bucket != "bucket" || *fake.put.ContentType != "application/pdf" || fake.body != "%PDF" {
		t.Fatalf("unexpected put input %+v", fake.put)
	}
	if asset.URL != "https://cdn.example.com/"+asset.Key {
		t.Fatalf("unexpected url %q for key %q", asset.URL, asset.Key)
	}

	if err := DeleteAsset(context.Background(), s, asset); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if fake.deleted != asset.Key {
		t.Fatalf("deleted %q, want %q", fake.deleted, asset.Key)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Fatal("expected error")
	}
}
