// Package api implements the HTTP contract of the request-governance
// backend. It is a thin, typed transport: authorization decisions, retry
// discipline, and state reconciliation all live with the callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/requestdesk/requestdesk/internal/errors"
	"github.com/requestdesk/requestdesk/internal/log"
)

// TokenSource supplies the bearer credential attached to every call.
// The session store implements it.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to one backend instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *log.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		logger:     log.DefaultLogger().With("component", "api"),
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// callers that need custom transport settings.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// errorBody is the backend's FastAPI-style error envelope. Detail is usually
// a string but validation failures send structured data.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorBody) detailText() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}

// do executes one backend call: marshals the body, attaches the bearer
// credential and a correlation ID, and maps failures onto the client's error
// taxonomy. Mutations are never retried here; duplicate submissions are
// worse than a surfaced failure.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeValueInvalid, "cannot encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.NewFetchError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	return c.execute(req, out)
}

// decorate attaches the standard headers shared by every call.
func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) execute(req *http.Request, out any) error {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return errors.NewFetchError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request complete",
		"method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.NewUnauthorizedError()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(data, &envelope)
		return errors.NewBackendError(resp.StatusCode, envelope.detailText())
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeFetchFailed, "cannot decode server response", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body on this endpoint only.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.NewFetchError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.decorate(req)

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.execute(req, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", errors.New(errors.ErrCodeFetchFailed, "login response carried no access token")
	}
	return result.AccessToken, nil
}

// apiPath builds a path with a numeric id segment.
func apiPath(format string, id int) string {
	return fmt.Sprintf(format, id)
}
