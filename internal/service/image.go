package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/imagerepo/internal/model"
	"github.com/templui/imagerepo/internal/repository"
	"github.com/templui/imagerepo/internal/storage"
)

var ErrImageNotFound = errors.New("image not found")

type ImageService struct {
	imageRepo repository.ImageRepository
	storage   storage.Storage
	annotator Annotator
}

// Listing is what a user sees on the repo page
type Listing struct {
	Images    []*model.Image
	CanUpload bool
}

// Upload is a validated image submitted by a user
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

func NewImageService(imageRepo repository.ImageRepository, storage storage.Storage, annotator Annotator) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		storage:   storage,
		annotator: annotator,
	}
}

// Listing returns the user's images, newest first. The upload form is only
// offered below the per-user limit; the limit is not enforced on write.
func (s *ImageService) Listing(userID string) (*Listing, error) {
	images, err := s.imageRepo.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return &Listing{
		Images:    images,
		CanUpload: len(images) < model.MaxImagesPerUser,
	}, nil
}

func (s *ImageService) Count(userID string) (int, error) {
	return s.imageRepo.CountByUser(userID)
}

// Upload annotates the image and persists it below the owner's folder.
// Annotation is best effort. The blob is written before the row and removed
// again if the row cannot be inserted, so a failed upload leaves nothing behind.
func (s *ImageService) Upload(ctx context.Context, user *model.User, upload Upload) (*model.Image, error) {
	annotation := s.annotator.Annotate(ctx, upload.Data)

	storagePath, err := storage.AvailablePath(s.storage, user.Username+"/"+storage.ValidName(upload.Filename))
	if err != nil {
		return nil, fmt.Errorf("failed to choose storage path: %w", err)
	}

	err = s.storage.Save(storagePath, bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	image := &model.Image{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       user.ID,
		StoragePath:  storagePath,
		OriginalName: upload.Filename,
		MimeType:     upload.MimeType,
		Size:         int64(len(upload.Data)),
		CreatedAt:    time.Now().UTC(),
	}
	if annotation != nil {
		image.Description = annotation.Description
		image.Tags = annotation.Tags
		image.Colors = annotation.Colors
		image.Result = annotation.Raw
	}

	err = s.imageRepo.Create(image)
	if err != nil {
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete image from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}

	slog.Info("image uploaded",
		"image_id", image.ID,
		"user_id", user.ID,
		"path", storagePath,
		"annotated", image.Annotated(),
	)
	return image, nil
}

// ByOwner returns the image only if it belongs to the user
func (s *ImageService) ByOwner(userID, imageID string) (*model.Image, error) {
	image, err := s.imageRepo.ByID(imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	// Other users' images are reported as missing
	if image.UserID != userID {
		return nil, ErrImageNotFound
	}

	return image, nil
}

// Open returns the stored content of one of the user's images
func (s *ImageService) Open(userID, imageID string) (*model.Image, io.ReadCloser, error) {
	image, err := s.ByOwner(userID, imageID)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.storage.Open(image.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrImageNotFound
		}
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}

	return image, content, nil
}

// PresignedURL returns a temporary direct download link when the storage
// backend supports it. ok is false for backends that need streaming.
func (s *ImageService) PresignedURL(image *model.Image) (url string, ok bool) {
	presigner, ok := s.storage.(storage.Presigner)
	if !ok {
		return "", false
	}

	url, err := presigner.PresignedURL(image.StoragePath, presigner.PresignExpiry())
	if err != nil {
		slog.Warn("failed to presign image url, streaming instead", "error", err, "image_id", image.ID)
		return "", false
	}
	return url, true
}

func (s *ImageService) DeleteAllUserImagesFromStorage(userID string) error {
	images, err := s.imageRepo.ByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to get user images: %w", err)
	}

	for _, image := range images {
		err = s.storage.Delete(image.StoragePath)
		if err != nil {
			// Log but continue - physical file may already be gone
			slog.Warn("failed to delete image from storage", "storage_path", image.StoragePath, "error", err)
		}
	}

	return nil
}
