// internal/kyb/client.go
//
// HTTP client for the kybd document service.

package kyb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound reports that no document exists for the requested user.
var ErrNotFound = errors.New("kyb: document not found")

// Client talks to a kybd instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a document service client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// UploadResult is the metadata returned for a stored file.
type UploadResult struct {
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
}

// Get fetches the document for one user, or ErrNotFound.
func (c *Client) Get(ctx context.Context, userID string) (*Document, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/kyb/user/"+userID, nil)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("kyb: decode document: %w", err)
	}
	return &doc, nil
}

// Create inserts or fully replaces the document keyed by its user id.
func (c *Client) Create(ctx context.Context, doc *Document) (*Document, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/kyb/create", doc)
	if err != nil {
		return nil, err
	}
	var saved Document
	if err := json.Unmarshal(body, &saved); err != nil {
		return nil, fmt.Errorf("kyb: decode document: %w", err)
	}
	return &saved, nil
}

// Update partially upserts the document for one user.
func (c *Client) Update(ctx context.Context, userID string, doc *Document) (*Document, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/kyb/update/"+userID, doc)
	if err != nil {
		return nil, err
	}
	var saved Document
	if err := json.Unmarshal(body, &saved); err != nil {
		return nil, fmt.Errorf("kyb: decode document: %w", err)
	}
	return &saved, nil
}

// Upload stores the incorporation document and returns where it landed.
// The document record itself is not touched.
func (c *Client) Upload(ctx context.Context, userID, fileName string, content io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("incorporationDocument", fileName)
	if err != nil {
		return nil, fmt.Errorf("kyb: build upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("kyb: build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("kyb: build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/kyb/upload/"+userID, &buf)
	if err != nil {
		return nil, fmt.Errorf("kyb: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kyb: upload: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kyb: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, raw)
	}
	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kyb: decode upload result: %w", err)
	}
	return &result, nil
}

// Submit moves the document from Draft to Submitted, stamping provenance.
func (c *Client) Submit(ctx context.Context, userID, ipAddress, userAgent string) error {
	payload := map[string]string{"ipAddress": ipAddress, "userAgent": userAgent}
	_, err := c.do(ctx, http.MethodPost, "/api/kyb/submit/"+userID, payload)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("kyb: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("kyb: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kyb: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kyb: read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, raw)
	}
	return raw, nil
}

// serviceError extracts the kybd error shape, falling back to the status.
func serviceError(status int, body []byte) error {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return fmt.Errorf("kyb: service error (%d): %s", status, envelope.Error)
		}
		if envelope.Message != "" {
			return fmt.Errorf("kyb: service error (%d): %s", status, envelope.Message)
		}
	}
	return fmt.Errorf("kyb: service error (%d)", status)
}
