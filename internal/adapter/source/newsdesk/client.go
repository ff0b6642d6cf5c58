package newsdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/newsdesk/internal/domain"
)

// authExemptPaths answer 401 for bad credentials rather than a dead session,
// so a 401 from them must not tear the session down.
var authExemptPaths = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
	"/auth/password": true,
	"/auth/account":  true,
}

// Client talks to the news API. It implements every resource repository in
// the domain package.
type Client struct {
	baseURL    string
	tokens     domain.TokenStore
	httpClient *http.Client
	logger     *slog.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// NewClient creates a news API client. The token is read from tokens on every
// request. A zero timeout leaves the transport default in place.
func NewClient(baseURL string, tokens domain.TokenStore, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// OnUnauthorized registers the hook run after a session-ending 401
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// BaseURL returns the API base the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs a request against the API and returns the response body.
// body, when non-nil, is sent as JSON.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("api request failed", "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !authExemptPaths[path] {
		c.logger.Warn("session rejected by server", "path", path, "request_id", requestID)
		c.expireSession()
		return nil, domain.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &domain.APIError{
			Status:  resp.StatusCode,
			Message: decodeErrorMessage(respBody),
			Path:    path,
		}
		c.logger.Error("api request error",
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.Message,
			"request_id", requestID,
		)
		return nil, apiErr
	}

	return respBody, nil
}

// expireSession purges the stored token and runs the unauthorized hook
func (c *Client) expireSession() {
	if err := c.tokens.ClearToken(); err != nil {
		c.logger.Error("failed to clear token", "error", err)
	}

	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if hook != nil {
		hook()
	}
}

// getJSON issues a GET and decodes the response into dest
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(body, dest)
}

func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeErrorMessage extracts the message of a server ErrorResponse
func decodeErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	return errResp.Error
}
