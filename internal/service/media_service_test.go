package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
)

type stubUploadRepo struct {
	uploads map[primitive.ObjectID]domain.MediaUpload
}

func newStubUploadRepo() *stubUploadRepo {
	return &stubUploadRepo{uploads: map[primitive.ObjectID]domain.MediaUpload{}}
}

func (r *stubUploadRepo) Create(_ context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	upload.ID = id
	r.uploads[id] = *upload
	return id, nil
}

func (r *stubUploadRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MediaUpload, error) {
	u, ok := r.uploads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := u
	return &copied, nil
}

// stubFileStorage returns deterministic URLs and records the keys it signed.
type stubFileStorage struct {
	uploadKeys   []string
	downloadKeys []string
	fail         bool
}

func (s *stubFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	if s.fail {
		return "", errors.New("s3 unavailable")
	}
	s.uploadKeys = append(s.uploadKeys, objectKey)
	return "https://bucket.s3.example.com/" + objectKey + "?sig=upload", nil
}

func (s *stubFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.fail {
		return "", errors.New("s3 unavailable")
	}
	s.downloadKeys = append(s.downloadKeys, objectKey)
	return "https://bucket.s3.example.com/" + objectKey + "?sig=download", nil
}

func (s *stubFileStorage) DeleteObject(_ context.Context, _ string) error {
	return nil
}

func TestRequestUploadURL(t *testing.T) {
	uploadRepo := newStubUploadRepo()
	fileStorage := &stubFileStorage{}
	svc := NewMediaService(uploadRepo, fileStorage)
	ctx := context.Background()

	uploaderID := primitive.NewObjectID()
	resp, err := svc.RequestUploadURL(ctx, uploaderID, "pushup.mp4", "video/mp4", 1024)
	if err != nil {
		t.Fatalf("RequestUploadURL failed: %v", err)
	}
	if resp.UploadURL == "" || resp.ObjectKey == "" || resp.UploadID == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}
	if !strings.HasPrefix(resp.ObjectKey, "media/") || !strings.HasSuffix(resp.ObjectKey, ".mp4") {
		t.Errorf("unexpected object key %q", resp.ObjectKey)
	}

	// The metadata row must match what was signed.
	uploadID, err := primitive.ObjectIDFromHex(resp.UploadID)
	if err != nil {
		t.Fatalf("upload ID is not a valid ObjectID: %v", err)
	}
	stored, err := uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		t.Fatalf("upload metadata not stored: %v", err)
	}
	if stored.ObjectKey != resp.ObjectKey || stored.UploadedBy != uploaderID {
		t.Errorf("unexpected stored upload: %+v", stored)
	}
}

func TestRequestUploadURLUniqueKeys(t *testing.T) {
	fileStorage := &stubFileStorage{}
	svc := NewMediaService(newStubUploadRepo(), fileStorage)
	ctx := context.Background()

	uploaderID := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := svc.RequestUploadURL(ctx, uploaderID, "pushup.mp4", "video/mp4", 1024); err != nil {
			t.Fatalf("RequestUploadURL failed: %v", err)
		}
	}
	seen := map[string]bool{}
	for _, key := range fileStorage.uploadKeys {
		if seen[key] {
			t.Fatalf("object key %q reused", key)
		}
		seen[key] = true
	}
}

func TestRequestUploadURLRejectsContentType(t *testing.T) {
	svc := NewMediaService(newStubUploadRepo(), &stubFileStorage{})
	ctx := context.Background()

	for _, contentType := range []string{"", "application/pdf", "text/html"} {
		if _, err := svc.RequestUploadURL(ctx, primitive.NewObjectID(), "file.bin", contentType, 1); err == nil {
			t.Errorf("content type %q should be rejected", contentType)
		}
	}
}

func TestRequestUploadURLStorageFailure(t *testing.T) {
	svc := NewMediaService(newStubUploadRepo(), &stubFileStorage{fail: true})

	_, err := svc.RequestUploadURL(context.Background(), primitive.NewObjectID(), "pushup.mp4", "video/mp4", 1)
	if !errors.Is(err, ErrUploadURLError) {
		t.Fatalf("expected ErrUploadURLError, got %v", err)
	}
}

func TestGetDownloadURL(t *testing.T) {
	uploadRepo := newStubUploadRepo()
	fileStorage := &stubFileStorage{}
	svc := NewMediaService(uploadRepo, fileStorage)
	ctx := context.Background()

	resp, err := svc.RequestUploadURL(ctx, primitive.NewObjectID(), "pushup.mp4", "video/mp4", 1024)
	if err != nil {
		t.Fatalf("RequestUploadURL failed: %v", err)
	}
	uploadID, _ := primitive.ObjectIDFromHex(resp.UploadID)

	url, err := svc.GetDownloadURL(ctx, uploadID)
	if err != nil {
		t.Fatalf("GetDownloadURL failed: %v", err)
	}
	if !strings.Contains(url, resp.ObjectKey) {
		t.Errorf("download URL %q does not reference object key %q", url, resp.ObjectKey)
	}
}

func TestGetDownloadURLNotFound(t *testing.T) {
	svc := NewMediaService(newStubUploadRepo(), &stubFileStorage{})

	_, err := svc.GetDownloadURL(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("expected ErrUploadNotFound, got %v", err)
	}
}
