package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Captioner turns image bytes into a caption.
type Captioner interface {
	Caption(ctx context.Context, image []byte) (string, error)
}

// Describer produces travel information about the place pictured.
type Describer interface {
	DescribeDestination(ctx context.Context, image []byte) (string, error)
}

// BlobStore stores bytes under a key and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// CaptionService fronts the external inference services.
type CaptionService struct {
	captioner Captioner
	describer Describer
	logger    *logrus.Logger
}

// NewCaptionService creates a new CaptionService. describer may be nil.
func NewCaptionService(captioner Captioner, describer Describer, logger *logrus.Logger) *CaptionService {
	return &CaptionService{captioner: captioner, describer: describer, logger: logger}
}

// CaptionImage returns the model's caption for an image.
func (s *CaptionService) CaptionImage(image []byte) (string, error) {
	caption, err := s.captioner.Caption(context.Background(), image)
	if err != nil {
		s.logger.WithError(err).Error("caption request failed")
		return "", wrapError(ErrUpstream, "Caption service failed", err)
	}
	return caption, nil
}

// DestinationInfo asks the vision model about the pictured place and returns the trimmed answer.
func (s *CaptionService) DestinationInfo(image []byte) (string, error) {
	if s.describer == nil {
		return "", newError(ErrUpstream, "Destination service is not configured")
	}
	info, err := s.describer.DescribeDestination(context.Background(), image)
	if err != nil {
		s.logger.WithError(err).Error("destination request failed")
		return "", wrapError(ErrUpstream, "Destination service failed", err)
	}
	return strings.TrimSpace(info), nil
}

// ImageService hosts raw image bytes in blob storage.
type ImageService struct {
	store  BlobStore
	logger *logrus.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(store BlobStore, logger *logrus.Logger) *ImageService {
	return &ImageService{store: store, logger: logger}
}

// UploadImage stores the bytes under uploads/<uuid>-<name> and returns the public URL.
func (s *ImageService) UploadImage(filename, contentType string, data []byte) (string, error) {
	key := ObjectKey(filename)
	url, err := s.store.Put(context.Background(), key, data, contentType)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("blob upload failed")
		return "", wrapError(ErrUpstream, err.Error(), nil)
	}
	return url, nil
}

// ObjectKey builds a random blob key that keeps the client file name for readability.
func ObjectKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return fmt.Sprintf("uploads/%s-%s", uuid.New().String(), name)
}
