package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"

	galleryerrors "gite/internal/gallery/errors"
	"gite/internal/gallery/repository"
	"gite/internal/gallery/validator"
	"gite/pkg/blob"
	"gite/pkg/config"
	apperrors "gite/pkg/errors"
	"gite/pkg/model"
	"gite/pkg/sanitizer"
)

// StoragePrefix is the object key prefix of every gallery binary.
const StoragePrefix = "gallery/"

// Upload is an image binary on its way to the blob store.
type Upload struct {
	File        io.Reader
	Filename    string
	ContentType string
}

type GalleryService interface {
	// Upload stores the binary then inserts its record. A failed insert
	// leaves the binary in the store.
	Upload(ctx context.Context, upload Upload, meta model.GalleryImageMeta) (*model.GalleryImage, error)
	List(ctx context.Context, featuredOnly bool) ([]*model.GalleryImage, error)
	GetByID(ctx context.Context, id string) (*model.GalleryImage, error)
	// Update applies a partial metadata change and, with a replacement,
	// swaps the binary and removes the previous one.
	Update(ctx context.Context, id string, update *model.GalleryImageUpdate, replacement *Upload) (*model.GalleryImage, error)
	// Delete removes the binary then the record, attempting both.
	Delete(ctx context.Context, id string) error
}

type galleryService struct {
	repo      repository.GalleryImageRepository
	store     blob.Store
	validator *validator.GalleryImageValidator
	cfg       *config.Config
}

func NewGalleryService(
	repo repository.GalleryImageRepository,
	store blob.Store,
	validator *validator.GalleryImageValidator,
	cfg *config.Config,
) GalleryService {
	return &galleryService{
		repo:      repo,
		store:     store,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *galleryService) Upload(ctx context.Context, upload Upload, meta model.GalleryImageMeta) (*model.GalleryImage, error) {
	s.sanitizeMeta(&meta)
	if err := s.validator.ValidateMeta(&meta); err != nil {
		return nil, apperrors.Validation("Gallery image validation failed", map[string]any{
			"errors": err,
		})
	}

	path, url, err := s.put(ctx, upload)
	if err != nil {
		return nil, err
	}

	img := &model.GalleryImage{
		Title:       meta.Title,
		AltText:     meta.AltText,
		URL:         url,
		StoragePath: path,
		Category:    meta.Category,
		Featured:    meta.Featured,
		SortOrder:   meta.SortOrder,
	}

	if err := s.repo.Create(ctx, img); err != nil {
		s.cfg.Log.Error("Gallery record insert failed, uploaded blob is orphaned",
			"storage_path", path,
			"url", url,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to save gallery image", err)
	}

	s.cfg.Log.Info("Gallery image uploaded",
		"id", img.ID,
		"storage_path", path,
		"category", img.Category,
		"featured", img.Featured,
	)
	return img, nil
}

func (s *galleryService) List(ctx context.Context, featuredOnly bool) ([]*model.GalleryImage, error) {
	images, err := s.repo.FindAll(ctx, featuredOnly)
	if err != nil {
		s.cfg.Log.Error("Failed to list gallery images", "featured_only", featuredOnly, "error", err)
		return nil, apperrors.Internal("Failed to retrieve gallery images", err)
	}
	return images, nil
}

func (s *galleryService) GetByID(ctx context.Context, id string) (*model.GalleryImage, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Gallery image ID cannot be empty")
	}

	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve gallery image")
	}
	return img, nil
}

func (s *galleryService) Update(ctx context.Context, id string, update *model.GalleryImageUpdate, replacement *Upload) (*model.GalleryImage, error) {
	if update == nil {
		update = &model.GalleryImageUpdate{}
	}
	s.sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Gallery image validation failed", map[string]any{
			"errors": err,
		})
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := merge(existing, update)
	oldPath := existing.StoragePath

	if replacement != nil {
		path, url, err := s.put(ctx, *replacement)
		if err != nil {
			return nil, err
		}
		merged.StoragePath = path
		merged.URL = url
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if replacement != nil {
			s.cfg.Log.Error("Gallery record update failed, replacement blob is orphaned",
				"id", id,
				"storage_path", merged.StoragePath,
				"error", err,
			)
		}
		return nil, s.mapRepoError(err, id, "Failed to update gallery image")
	}

	if replacement != nil && oldPath != "" && oldPath != merged.StoragePath {
		if err := s.store.Delete(ctx, oldPath); err != nil {
			s.cfg.Log.Warn("Failed to delete replaced gallery blob",
				"id", id,
				"storage_path", oldPath,
				"error", err,
			)
		}
	}

	s.cfg.Log.Info("Gallery image updated",
		"id", id,
		"replaced_binary", replacement != nil,
	)
	return merged, nil
}

func (s *galleryService) Delete(ctx context.Context, id string) error {
	img, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	delErr := &galleryerrors.DeleteError{ImageID: id, StoragePath: img.StoragePath}

	if err := s.store.Delete(ctx, img.StoragePath); err != nil {
		delErr.BlobErr = err
	} else {
		delErr.BlobDeleted = true
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		delErr.RecordErr = err
	} else {
		delErr.RecordDeleted = true
	}

	if delErr.BlobDeleted && delErr.RecordDeleted {
		s.cfg.Log.Info("Gallery image deleted", "id", id, "storage_path", img.StoragePath)
		return nil
	}

	s.cfg.Log.Error("Gallery image delete incomplete",
		"id", id,
		"storage_path", img.StoragePath,
		"blob_deleted", delErr.BlobDeleted,
		"record_deleted", delErr.RecordDeleted,
		"error", delErr,
	)

	if delErr.NeedsReconciliation() {
		return apperrors.Reconciliation("Gallery image partially deleted", delErr.Details(), delErr)
	}
	return apperrors.Internal("Failed to delete gallery image", delErr).WithDetails(delErr.Details())
}

func (s *galleryService) put(ctx context.Context, upload Upload) (string, string, error) {
	if upload.File == nil {
		return "", "", apperrors.InvalidInput("Image file is required")
	}

	ext := sanitizer.SanitizeExtension(upload.Filename)
	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(ext)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", apperrors.InvalidInput("Only image files can be uploaded")
	}

	path := StoragePrefix + uuid.NewString() + ext
	url, err := s.store.Upload(ctx, path, upload.File, contentType)
	if err != nil {
		s.cfg.Log.Error("Gallery blob upload failed", "storage_path", path, "error", err)
		return "", "", apperrors.BadGateway("Failed to upload image", err)
	}
	return path, url, nil
}

func (s *galleryService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, galleryerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Gallery image", id)
	}
	if errors.Is(err, galleryerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid gallery image ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func merge(existing *model.GalleryImage, update *model.GalleryImageUpdate) *model.GalleryImage {
	merged := *existing
	if update.Title != nil {
		merged.Title = *update.Title
	}
	if update.AltText != nil {
		merged.AltText = *update.AltText
	}
	if update.Category != nil {
		merged.Category = *update.Category
	}
	if update.Featured != nil {
		merged.Featured = *update.Featured
	}
	if update.SortOrder != nil {
		merged.SortOrder = *update.SortOrder
	}
	return &merged
}

func (s *galleryService) sanitizeMeta(meta *model.GalleryImageMeta) {
	meta.Title = sanitizer.TrimAndNormalize(meta.Title)
	meta.AltText = sanitizer.TrimAndNormalize(meta.AltText)
	meta.Category = strings.ToLower(strings.TrimSpace(meta.Category))
	if meta.Category == "" {
		meta.Category = model.CategoryOther
	}
	if meta.AltText == "" {
		meta.AltText = meta.Title
	}
	meta.SortOrder = sanitizer.NormalizeSortOrder(meta.SortOrder)
}

func (s *galleryService) sanitizeUpdate(update *model.GalleryImageUpdate) {
	if update.Title != nil {
		v := sanitizer.TrimAndNormalize(*update.Title)
		update.Title = &v
	}
	if update.AltText != nil {
		v := sanitizer.TrimAndNormalize(*update.AltText)
		update.AltText = &v
	}
	if update.Category != nil {
		v := strings.ToLower(strings.TrimSpace(*update.Category))
		update.Category = &v
	}
	if update.SortOrder != nil {
		v := sanitizer.NormalizeSortOrder(*update.SortOrder)
		update.SortOrder = &v
	}
}
