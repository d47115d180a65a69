// Package uploader implements the client side of the direct-to-storage
// upload protocol: request a write capability, stream the bytes straight to
// object storage, then report completion so the server records and dispatches
// the file. The application server never sees the file content.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProgressFunc receives byte-granularity transfer progress during step 2.
type ProgressFunc func(bytesSent, totalBytes int64)

// TransferError reports a failed direct-to-storage transfer (step 2).
// Presigned URLs may be single-use, so the caller must restart the whole
// three-step protocol rather than retry the PUT.
type TransferError struct {
	StatusCode int
	Err        error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer failed: %v", e.Err)
	}
	return fmt.Sprintf("transfer failed: storage returned status %d", e.StatusCode)
}

func (e *TransferError) Unwrap() error { return e.Err }

// File is the record returned by the completion call.
type File struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	StorageKey string    `json:"storage_key"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PresignResponse is the server's answer to a presign request.
type PresignResponse struct {
	Path      string `json:"path"`
	UploadURL string `json:"upload_url"`
	ExpiresIn int64  `json:"expires_in"`
}

// Client talks to the upload API on behalf of one authenticated owner.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. to set timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the API at baseURL authenticating with the given
// bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload runs the full three-step protocol for the content read from r.
// size must be the exact byte count; mimeType may be empty. progress may be
// nil. The sequence is all-or-nothing at the client: if the transfer fails,
// completion is never reported and no file record exists on the server.
// Canceling ctx before completion returns leaves no trace beyond a possible
// orphaned object in storage.
func (c *Client) Upload(ctx context.Context, r io.Reader, filename, mimeType string, size int64, progress ProgressFunc) (*File, error) {
	presigned, err := c.Presign(ctx, filename, mimeType)
	if err != nil {
		return nil, err
	}

	if err := c.transfer(ctx, presigned.UploadURL, r, mimeType, size, progress); err != nil {
		return nil, err
	}

	return c.Complete(ctx, presigned.Path, filename, mimeType, size)
}

// Presign requests a storage key and a time-bounded write capability (step 1).
func (c *Client) Presign(ctx context.Context, filename, mimeType string) (*PresignResponse, error) {
	var res PresignResponse
	err := c.postJSON(ctx, "/upload/presign", map[string]any{
		"filename":  filename,
		"mime_type": mimeType,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &res, nil
}

// Complete reports the finished upload and returns the created record (step 3).
func (c *Client) Complete(ctx context.Context, path, filename, mimeType string, size int64) (*File, error) {
	var file File
	err := c.postJSON(ctx, "/upload/complete", map[string]any{
		"path":      path,
		"filename":  filename,
		"mime_type": mimeType,
		"size":      size,
	}, &file)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	return &file, nil
}

// transfer streams the bytes directly to storage (step 2). Any transport
// error or non-2xx response is a *TransferError; there is no retry.
func (c *Client) transfer(ctx context.Context, uploadURL string, r io.Reader, mimeType string, size int64, progress ProgressFunc) error {
	body := io.Reader(r)
	if progress != nil {
		body = &progressReader{r: r, total: size, report: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return &TransferError{Err: err}
	}
	req.ContentLength = size
	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
	}
	// The presigned URL only matches a request carrying the signed
	// conditional-write header.
	req.Header.Set("If-None-Match", "*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransferError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransferError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("server returned %s: %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// progressReader reports cumulative bytes read to the callback.
type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.sent, p.total)
	}
	return n, err
}
