// Package blob stores gallery binaries in an object store that serves them
// back over public URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gite/pkg/config"
)

var ErrNotConfigured = errors.New("blob store not configured")

type Store interface {
	// Upload writes r under path and returns the object's public URL.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// New builds the store selected by BLOB_BACKEND.
func New(cfg *config.Config) (Store, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendHosted:
		if cfg.StoreURL == "" || cfg.StoreKey() == "" {
			return nil, fmt.Errorf("%w: hosted backend requires %s and a store key", ErrNotConfigured, config.EnvStoreURL)
		}
		return NewHostedStore(cfg.StoreURL, cfg.StoreBucket, cfg.StoreKey()), nil
	case config.BlobBackendCloudinary:
		if cfg.CloudinaryURL == "" {
			return nil, fmt.Errorf("%w: cloudinary backend requires %s", ErrNotConfigured, config.EnvCloudinaryURL)
		}
		return NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
