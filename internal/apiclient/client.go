// Package apiclient is the HTTP+JSON client for the school backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

const maxErrorBody = 64 << 10

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

type requestObserver interface {
	ObserveOutboundRequest(method, route string, status int, duration time.Duration)
}

// Client calls the backend. The bearer token is looked up on every request so
// a login in another process is picked up without restarting.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    tokenSource
	userAgent string
	logger    *zap.Logger
	observer  requestObserver
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver records request metrics.
func WithObserver(o requestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// New builds a client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens tokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResponseError describes a non-2xx answer from the backend.
type ResponseError struct {
	Method        string
	Path          string
	StatusCode    int
	ServerMessage string
}

func (e *ResponseError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.ServerMessage)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerMessage extracts the message the backend put in an error body.
func ServerMessage(err error) (string, bool) {
	var re *ResponseError
	if errors.As(err, &re) && re.ServerMessage != "" {
		return re.ServerMessage, true
	}
	return "", false
}

// StatusCode returns the HTTP status of a failed request, or 0 when the
// request never got an answer.
func StatusCode(err error) int {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// do sends body as JSON and decodes the 2xx response into out. route is the
// templated path used for metrics and logs.
func (c *Client) do(ctx context.Context, method, path, route string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.Warn("token lookup failed, sending request without it", zap.Error(err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(method, route, 0, elapsed)
		c.logger.Debug("backend request failed", zap.String("method", method), zap.String("path", path), zap.String("request_id", reqID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.observe(method, route, resp.StatusCode, elapsed)
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return responseError(method, path, resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "failed to decode response")
	}
	return nil
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveOutboundRequest(method, route, status, d)
	}
}

func responseError(method, path string, status int, raw []byte) error {
	re := &ResponseError{Method: method, Path: path, StatusCode: status, ServerMessage: extractMessage(raw)}

	base := appErrors.ErrRemote
	switch status {
	case http.StatusNotFound:
		base = appErrors.ErrNotFound
	case http.StatusUnauthorized:
		base = appErrors.ErrUnauthorized
	case http.StatusForbidden:
		base = appErrors.ErrForbidden
	}
	msg := re.ServerMessage
	if msg == "" {
		msg = base.Message
	}
	return &appErrors.Error{Code: base.Code, Status: status, Message: msg, Err: re}
}

// extractMessage understands both the plain {"message": ...} body and the
// {"error": {"message": ...}} envelope.
func extractMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if len(body.Error) == 0 {
		return ""
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	var plain string
	if err := json.Unmarshal(body.Error, &plain); err == nil {
		return strings.TrimSpace(plain)
	}
	return ""
}
