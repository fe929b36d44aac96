// Package api is the single HTTP gateway to the ticketing backend. Every call
// carries the stored bearer token, and a 401 from any endpoint signs the
// session out.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"evently/internal/shared/constants"
	"evently/internal/storage"
	"evently/pkg/logger"
)

// LoginPath is where the gateway sends the user after a 401
const LoginPath = "/login"

// Navigator performs the forced redirect after the session is cleared
type Navigator interface {
	Navigate(path string)
}

// Config holds gateway settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNavigator sets the navigator used after a 401
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLogger sets the request logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables request metrics
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    storage.Store
	navigator  Navigator
	logger     *logger.Logger
	metrics    *Metrics

	mu    sync.RWMutex
	hooks []func()
}

// New creates a gateway reading the bearer token from store
func New(cfg Config, store storage.Store, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		storage:    store,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL including the API prefix
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnUnauthorized registers fn to run after a 401 has cleared the stored session
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Request describes one backend call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Fallback is the message used when the backend gives none
	Fallback string
}

// Get issues a GET and decodes the response into dest
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any, fallback string) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Fallback: fallback}, dest)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, dest any, fallback string) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Fallback: fallback}, dest)
}

// Put issues a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, dest any, fallback string) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, Fallback: fallback}, dest)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string, fallback string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Fallback: fallback}, nil)
}

// Do sends req and decodes a 2xx body into dest. dest may be nil, and an
// empty body leaves dest untouched.
func (c *Client) Do(ctx context.Context, req Request, dest any) error {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return &TransportError{Message: req.Fallback, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := c.newRequest(ctx, req.Method, req.Path, req.Query, body)
	if err != nil {
		return &TransportError{Message: req.Fallback, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.send(ctx, httpReq, req.Path, req.Fallback, dest)
}

// Upload posts a multipart form with a single file part
func (c *Client) Upload(ctx context.Context, path, field, filename, contentType string, content []byte, dest any, fallback string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return &TransportError{Message: fallback, Err: err}
	}
	if _, err := part.Write(content); err != nil {
		return &TransportError{Message: fallback, Err: err}
	}
	if err := w.Close(); err != nil {
		return &TransportError{Message: fallback, Err: err}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return &TransportError{Message: fallback, Err: err}
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(ctx, httpReq, path, fallback, dest)
}

// newRequest builds the request and attaches the bearer token and a request id
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// token reads accessToken, falling back to the legacy key
func (c *Client) token(ctx context.Context) string {
	for _, key := range []string{constants.STORAGE_KEY_ACCESS_TOKEN, constants.STORAGE_KEY_LEGACY_TOKEN} {
		value, ok, err := c.storage.Get(ctx, key)
		if err != nil {
			c.logger.WarnContext(ctx, "Failed to read stored token", "key", key, "error", err.Error())
			continue
		}
		if ok && value != "" {
			return value
		}
	}
	return ""
}

func (c *Client) send(ctx context.Context, req *http.Request, path, fallback string, dest any) error {
	start := time.Now()
	requestID := req.Header.Get("X-Request-ID")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(req.Method, path, 0, time.Since(start))
		c.logger.LogAPIRequest(ctx, req.Method, path, 0, time.Since(start), requestID)
		return &TransportError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	took := time.Since(start)
	c.metrics.observe(req.Method, path, resp.StatusCode, took)
	c.logger.LogAPIRequest(ctx, req.Method, path, resp.StatusCode, took, requestID)
	if err != nil {
		return &TransportError{Message: fallback, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession(ctx, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data, req.Method, path, fallback)
	}

	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &TransportError{Message: fallback, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// clearSession removes every persisted session key, runs the unauthorized
// hooks and navigates to the login view
func (c *Client) clearSession(ctx context.Context, path string) {
	c.logger.LogSessionCleared(ctx, path)

	if err := c.storage.Remove(context.WithoutCancel(ctx), constants.SessionStorageKeys...); err != nil {
		c.logger.ErrorWithContext(ctx, "Failed to clear stored session", err, nil)
	}

	c.mu.RLock()
	hooks := make([]func(), len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.RUnlock()

	for _, hook := range hooks {
		hook()
	}

	if c.navigator != nil {
		c.navigator.Navigate(LoginPath)
	}
}

func newAPIError(status int, data []byte, method, path, fallback string) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fallback,
		Method:  method,
		Path:    path,
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		var msg string
		if json.Unmarshal(body.Message, &msg) == nil && strings.TrimSpace(msg) != "" {
			apiErr.Message = strings.TrimSpace(msg)
		}
		apiErr.Details = body.details()
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// IsTransport reports whether err never reached a backend response
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
