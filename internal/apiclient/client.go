// Package apiclient is the REST client for the learning backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNetwork wraps transport failures (DNS, refused connection, timeout).
var ErrNetwork = errors.New("unable to connect to the server")

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the backend on behalf of one session token at a time.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for baseURL (for example http://localhost:5000/api).
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes a single API call.
type request struct {
	method string
	path   string
	token  string
	query  url.Values
	body   any
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, token: token, query: query}, out)
}

func (c *Client) post(ctx context.Context, token, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, token: token, body: body}, out)
}

func (c *Client) put(ctx context.Context, token, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, token: token, body: body}, out)
}

func (c *Client) delete(ctx context.Context, token, path string, out any) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path, token: token}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	return c.doURL(ctx, c.baseURL+r.path, r, out)
}

func (c *Client) doURL(ctx context.Context, endpoint string, r request, out any) error {
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api response",
		zap.String("request_id", requestID),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}

	return nil
}

func newAPIError(status int, raw []byte) *APIError {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}

	return &APIError{StatusCode: status, Message: msg}
}

// IsUnauthorized reports whether err means the token was rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized ||
			strings.Contains(strings.ToLower(apiErr.Message), "unauthorized")
	}
	return false
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// MessageContains reports whether the error message contains s, case-insensitively.
func MessageContains(err error, s string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), strings.ToLower(s))
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
