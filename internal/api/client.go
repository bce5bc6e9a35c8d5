// Package api is the authenticated client for the rental REST API. It
// attaches the persisted bearer token to every request and transparently
// recovers from access-token expiry with a single refresh-and-replay.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/avrentops/rentalctl/internal/credstore"
	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/observability"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	store   credstore.Store
	logger  *slog.Logger

	// refreshGroup serializes token refresh: any number of concurrent 401s
	// collapse into one /auth/refresh call whose result they all share.
	refreshGroup singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a client over the given credential store. The client holds no
// session state of its own: every request re-reads the store, so it works
// regardless of which component wrote the tokens.
func New(baseURL string, store credstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		logger:  slog.Default(),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one authenticated request with the 401 recovery contract:
// at most one refresh, at most one replay, and on refresh failure the
// credentials are cleared and the original 401 is returned.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string) (int, []byte, error) {
	token := c.accessToken()
	status, body, err := c.send(ctx, method, path, query, payload, contentType, token)
	if err != nil {
		return 0, nil, err
	}
	if status != http.StatusUnauthorized {
		return status, body, nil
	}

	originalErr := newAPIError(status, body)
	refreshed, err := c.refreshTokens(ctx)
	if errors.Is(err, ErrNoRefreshToken) {
		// Nothing to recover with; the 401 stands as-is.
		return 0, nil, originalErr
	}
	if err != nil {
		// Session is over. Clear credentials but leave navigation to the
		// caller; this layer knows nothing about what the user was doing.
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Warn("clearing credentials after failed refresh", "error", clearErr)
		}
		return 0, nil, originalErr
	}

	// Single replay. A second 401 falls through to the caller as a hard
	// failure; no further attempt is made.
	status, body, err = c.send(ctx, method, path, query, payload, contentType, refreshed.AccessToken)
	if err != nil {
		return 0, nil, err
	}
	return status, body, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, contentType, token string) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// accessToken reads the persisted pair. Absence is not an error at this
// layer; the request goes out unauthenticated and the server decides.
func (c *Client) accessToken() string {
	pair, err := c.store.Tokens()
	if err != nil {
		c.logger.Warn("reading persisted tokens", "error", err)
		return ""
	}
	if pair == nil {
		return ""
	}
	return pair.AccessToken
}

func (c *Client) refreshTokens(ctx context.Context) (*domain.TokenPair, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		pair, err := c.store.Tokens()
		if err != nil {
			return nil, err
		}
		if pair == nil || pair.RefreshToken == "" {
			return nil, ErrNoRefreshToken
		}
		payload, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
		if err != nil {
			return nil, err
		}
		// Dedicated unauthenticated call: no bearer header, no recursion
		// into the 401 recovery path.
		status, body, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, payload, "application/json", "")
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, newAPIError(status, body)
		}
		var data struct {
			Tokens *domain.TokenPair `json:"tokens"`
		}
		if err := decodeData(body, &data); err != nil {
			return nil, err
		}
		if data.Tokens == nil || data.Tokens.AccessToken == "" {
			return nil, fmt.Errorf("refresh response missing tokens")
		}
		if err := c.store.SetTokens(data.Tokens); err != nil {
			return nil, fmt.Errorf("persist refreshed tokens: %w", err)
		}
		return data.Tokens, nil
	})
	if err != nil {
		observability.RecordTokenRefresh("failure")
		return nil, err
	}
	observability.RecordTokenRefresh("success")
	return v.(*domain.TokenPair), nil
}

// do runs a JSON request and decodes the envelope's data field into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}
	status, raw, err := c.call(ctx, method, path, query, payload, "application/json")
	if err != nil {
		return err
	}
	if status >= 400 {
		return newAPIError(status, raw)
	}
	if out == nil {
		return nil
	}
	return decodeData(raw, out)
}

// doForm runs a pre-encoded multipart request (maintenance photo uploads).
// The payload is a byte slice so the 401 replay re-sends identical bytes.
func (c *Client) doForm(ctx context.Context, method, path string, form *Form, out any) error {
	payload, contentType, err := form.encode()
	if err != nil {
		return err
	}
	status, raw, err := c.call(ctx, method, path, nil, payload, contentType)
	if err != nil {
		return err
	}
	if status >= 400 {
		return newAPIError(status, raw)
	}
	if out == nil {
		return nil
	}
	return decodeData(raw, out)
}

// download fetches a binary document (PDF exports and similar) with the
// same auth and retry behavior as JSON calls.
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	status, raw, err := c.call(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, newAPIError(status, raw)
	}
	return raw, nil
}

func decodeData(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if env.Data == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *Error {
	apiErr := &Error{Status: status, Message: http.StatusText(status)}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		} else if env.Message != "" {
			apiErr.Message = env.Message
		}
	}
	return apiErr
}
