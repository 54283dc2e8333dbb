package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// TokenSource yields the bearer token attached to outgoing requests. An
// empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource wrapping a fixed token string.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Config carries the options needed to build a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the HTTP adapter every resource service goes through. It owns
// the base URL, attaches the bearer token, enforces the request timeout and
// unwraps the backend response envelope.
type Client struct {
	http    *resty.Client
	baseURL string
	tokens  TokenSource
	on401   func()
	logger  *zap.Logger
}

// NewClient builds a backend API client using the provided configuration values.
func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base + "/api").
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	c := &Client{
		http:    restyClient,
		baseURL: base,
		tokens:  tokens,
		logger:  logger,
	}

	restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if isAuthPath(req.URL) || c.tokens == nil {
			return nil
		}
		if token := c.tokens.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return c
}

// OnUnauthorized registers a callback invoked whenever a non-auth endpoint
// answers 401. The caller typically clears the session and shows the login
// screen.
func (c *Client) OnUnauthorized(fn func()) { c.on401 = fn }

// BaseURL returns the backend root (without the /api prefix).
func (c *Client) BaseURL() string { return c.baseURL }

// StreamURL builds the absolute URL of a server-push endpoint.
func (c *Client) StreamURL(path string) string {
	return c.baseURL + "/api" + path
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}

// call performs one enveloped request and returns the raw data payload.
// Transport failures, error statuses and success=false envelopes all come
// back as *Error.
func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body any) (json.RawMessage, error) {
	success := new(models.Envelope)
	failure := new(models.Envelope)

	req := c.http.R().
		SetContext(ctx).
		SetResult(success).
		SetError(failure)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &Error{Message: "request failed", cause: fmt.Errorf("%s %s: %w", method, path, err)}
	}

	if resp.IsError() {
		apiErr := &Error{Status: resp.StatusCode(), Message: failure.Message}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		if resp.StatusCode() == http.StatusUnauthorized && !isAuthPath(path) && c.on401 != nil {
			c.logger.Warn("session rejected by backend", zap.String("path", path))
			c.on401()
		}
		return nil, apiErr
	}

	if !success.Success {
		msg := success.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, &Error{Status: resp.StatusCode(), Message: msg}
	}

	return success.Data, nil
}

// decode unmarshals an envelope data payload into the requested type.
func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode response payload: %w", err)
	}
	return out, nil
}
