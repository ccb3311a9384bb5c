package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HttpClient is a thin REST client bound to a base URL. Every request carries
// the default headers (API keys for the hosted store).
type HttpClient struct {
	BaseURL        string
	HTTPClient     *http.Client
	DefaultHeaders map[string]string
}

func NewHttpClient(baseURL string, defaultHeaders map[string]string) *HttpClient {
	return &HttpClient{
		BaseURL:        baseURL,
		DefaultHeaders: defaultHeaders,
		HTTPClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, nil, nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body, nil)
}

func (c *HttpClient) DELETE(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// Upload sends a raw body with an explicit content type.
func (c *HttpClient) Upload(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string) (*Response, error) {
	all := map[string]string{"Content-Type": contentType}
	for k, v := range headers {
		all[k] = v
	}
	return c.do(ctx, method, path, body, all)
}

func (c *HttpClient) request(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
		if headers == nil {
			headers = map[string]string{}
		}
		headers["Content-Type"] = "application/json"
	}

	return c.do(ctx, method, path, reqBody, headers)
}

func (c *HttpClient) do(ctx context.Context, method, path string, reqBody io.Reader, headers map[string]string) (*Response, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.DefaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}, nil
}

func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, string(resp.Body))
	}

	if errResp.Message != "" {
		return errResp.Message
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	if errResp.Code != "" {
		return errResp.Code
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
