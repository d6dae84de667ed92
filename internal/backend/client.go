// Package backend is the HTTP client for the chat backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rrens/academic-chat/internal/config"
	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// Client talks to the chat backend over HTTP
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the configured backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendChatMessage posts a user message to /chat
func (c *Client) SendChatMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	const op = "send chat message"

	if err := validate.Struct(req); err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("invalid request: %w", err)}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	var resp domain.ChatResponse
	if err := c.do(ctx, op, http.MethodPost, "/chat", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	if err := validate.Struct(resp); err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("invalid response: %w", err)}
	}
	return &resp, nil
}

// UploadDocument streams a file to /upload-doc as multipart form field "file".
// r is read while the request is being sent, not buffered up front.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.UploadResponse, error) {
	const op = "upload document"

	pr, pw := io.Pipe()
	defer pr.Close()

	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to read document: %w", err))
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	var resp domain.UploadResponse
	if err := c.do(ctx, op, http.MethodPost, "/upload-doc", mw.FormDataContentType(), pr, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateNewChat asks the backend for a conversation id
func (c *Client) CreateNewChat(ctx context.Context) (*domain.NewChatResponse, error) {
	const op = "create new chat"

	var resp domain.NewChatResponse
	if err := c.do(ctx, op, http.MethodPost, "/new-chat", "application/json", nil, &resp); err != nil {
		return nil, err
	}
	if err := validate.Struct(resp); err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("invalid response: %w", err)}
	}
	return &resp, nil
}

// GetConversations lists the conversations known to the backend
func (c *Client) GetConversations(ctx context.Context) ([]domain.RemoteConversation, error) {
	var resp []domain.RemoteConversation
	if err := c.do(ctx, "get conversations", http.MethodGet, "/conversations", "application/json", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteConversation removes a conversation on the backend
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, "delete conversation", http.MethodDelete, "/conversations/"+url.PathEscape(conversationID), "", nil, nil)
}

// do sends a request and decodes a JSON body into out when out is non-nil
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &RemoteError{Op: op, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
