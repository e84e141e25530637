package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
	"gymapp/backend/internal/storage"
)

// --- Error Definitions ---
var (
	ErrUploadNotFound   = errors.New("upload not found")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// UploadURLResponse carries the presigned URL plus the object key the
// client reports back with.
type UploadURLResponse struct {
	UploadID  string `json:"uploadId"`
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// MediaService handles exercise demo media stored in S3: presigned upload
// URLs for managers and presigned download URLs for anyone authenticated.
type MediaService interface {
	RequestUploadURL(ctx context.Context, uploadedBy primitive.ObjectID, fileName, contentType string, size int64) (*UploadURLResponse, error)
	GetDownloadURL(ctx context.Context, uploadID primitive.ObjectID) (string, error)
}

// mediaService implements the MediaService interface.
type mediaService struct {
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(uploadRepo repository.UploadRepository, fileStorage storage.FileStorage) MediaService {
	return &mediaService{
		uploadRepo:  uploadRepo,
		fileStorage: fileStorage,
	}
}

// RequestUploadURL generates a unique object key, records the metadata, and
// returns a presigned PUT URL. Only video and image content is accepted.
func (s *mediaService) RequestUploadURL(ctx context.Context, uploadedBy primitive.ObjectID, fileName, contentType string, size int64) (*UploadURLResponse, error) {
	if fileName == "" {
		return nil, errors.New("file name is required")
	}
	lower := strings.ToLower(contentType)
	if !strings.HasPrefix(lower, "video/") && !strings.HasPrefix(lower, "image/") {
		return nil, errors.New("invalid or missing media content type")
	}

	// Key layout: media/<uuid><ext> keeps uploads flat but collision-free.
	objectKey := path.Join("media", uuid.NewString()+path.Ext(fileName))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	upload := &domain.MediaUpload{
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  uploadedBy,
	}
	uploadID, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		return nil, err
	}

	return &UploadURLResponse{
		UploadID:  uploadID.Hex(),
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// GetDownloadURL returns a presigned GET URL for a recorded upload.
func (s *mediaService) GetDownloadURL(ctx context.Context, uploadID primitive.ObjectID) (string, error) {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUploadNotFound
		}
		return "", err
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return url, nil
}
