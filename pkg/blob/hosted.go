package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gite/pkg/client"
)

const objectPrefix = "/storage/v1/object"

// HostedStore talks to the storage REST API of the hosted backend.
type HostedStore struct {
	baseURL string
	bucket  string
	http    *client.HttpClient
}

func NewHostedStore(baseURL, bucket, key string) *HostedStore {
	baseURL = strings.TrimRight(baseURL, "/")
	return &HostedStore{
		baseURL: baseURL,
		bucket:  bucket,
		http: client.NewHttpClient(baseURL, map[string]string{
			"apikey":        key,
			"Authorization": "Bearer " + key,
		}),
	}
}

func (s *HostedStore) Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	resp, err := s.http.Upload(ctx, "POST", s.objectPath(path), r, contentType, map[string]string{
		"x-upsert": "false",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("failed to upload %s: %s", path, client.GetErrorMessage(resp))
	}
	return s.PublicURL(path), nil
}

func (s *HostedStore) Delete(ctx context.Context, path string) error {
	resp, err := s.http.DELETE(ctx, s.objectPath(path))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("failed to delete %s: %s", path, client.GetErrorMessage(resp))
	}
	return nil
}

func (s *HostedStore) PublicURL(path string) string {
	return s.baseURL + objectPrefix + "/public/" + url.PathEscape(s.bucket) + "/" + escapePath(path)
}

func (s *HostedStore) objectPath(path string) string {
	return objectPrefix + "/" + url.PathEscape(s.bucket) + "/" + escapePath(path)
}

func escapePath(path string) string {
	parts := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
