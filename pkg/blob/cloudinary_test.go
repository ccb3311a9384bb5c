package blob

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	uploadFunc  func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	destroyFunc func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

func (f *fakeCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	return f.uploadFunc(ctx, file, params)
}

func (f *fakeCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return f.destroyFunc(ctx, params)
}

func TestCloudinaryStore_Upload(t *testing.T) {
	var publicID string
	store := &CloudinaryStore{folder: "gite", api: &fakeCloudinary{
		uploadFunc: func(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
			publicID = params.PublicID
			return &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/gite/gallery/abc.jpg"}, nil
		},
	}}

	url, err := store.Upload(context.Background(), "gallery/abc.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "gite/gallery/abc", publicID)
	assert.Contains(t, url, "res.cloudinary.com")
}

func TestCloudinaryStore_UploadErrors(t *testing.T) {
	tests := []struct {
		name   string
		result *uploader.UploadResult
		err    error
	}{
		{name: "transport error", err: errors.New("dial tcp: timeout")},
		{name: "api error", result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}},
		{name: "missing url", result: &uploader.UploadResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &CloudinaryStore{api: &fakeCloudinary{
				uploadFunc: func(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
					return tt.result, tt.err
				},
			}}
			_, err := store.Upload(context.Background(), "gallery/abc.jpg", strings.NewReader("x"), "image/jpeg")
			assert.Error(t, err)
		})
	}
}

func TestCloudinaryStore_Delete(t *testing.T) {
	tests := []struct {
		name    string
		result  *uploader.DestroyResult
		wantErr bool
	}{
		{name: "ok", result: &uploader.DestroyResult{Result: "ok"}},
		{name: "not found", result: &uploader.DestroyResult{Result: "not found"}, wantErr: true},
		{name: "api error", result: &uploader.DestroyResult{Error: api.ErrorResp{Message: "bad signature"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var publicID string
			store := &CloudinaryStore{api: &fakeCloudinary{
				destroyFunc: func(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
					publicID = params.PublicID
					return tt.result, nil
				},
			}}
			err := store.Delete(context.Background(), "gallery/abc.jpeg")
			assert.Equal(t, "gallery/abc", publicID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
