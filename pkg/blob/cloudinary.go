package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore maps storage paths to Cloudinary public ids: the folder
// prefix plus the path without its extension.
type CloudinaryStore struct {
	api    cloudinaryAPI
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryStore{api: &cld.Upload, folder: strings.Trim(folder, "/")}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, p string, r io.Reader, _ string) (string, error) {
	res, err := s.api.Upload(ctx, r, uploader.UploadParams{
		PublicID:     s.publicID(p),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", p, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", p, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("failed to upload %s: no url returned", p)
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, p string) error {
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     s.publicID(p),
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete %s: %s", p, res.Error.Message)
	}
	if res.Result != "ok" {
		return fmt.Errorf("failed to delete %s: result %q", p, res.Result)
	}
	return nil
}

func (s *CloudinaryStore) publicID(p string) string {
	id := strings.TrimSuffix(strings.TrimLeft(p, "/"), path.Ext(p))
	if s.folder == "" {
		return id
	}
	return s.folder + "/" + id
}
