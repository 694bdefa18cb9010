package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/logging"
)

const maxBodyBytes = 8 << 20

// HTTPClient talks to api.php with form-encoded POSTs.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient returns a client for baseURL. timeout bounds each request.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}
}

// Ping reports whether the API host answers at all. Any response below 500
// counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindUnavailable, Action: "ping", Message: "Server unreachable", Err: err}
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &Error{Kind: KindUnavailable, Action: "ping", Message: "Server unreachable", Err: errors.New(resp.Status)}
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	payload, err := c.post(ctx, ActionLogin, url.Values{"username": {username}, "password": {password}})
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Kind == KindRejected {
			e.Kind = KindUnauthorized
		}
		return models.LoginResponse{}, err
	}

	p, err := Decode[loginPayload](ActionLogin, payload)
	if err != nil {
		return models.LoginResponse{}, err
	}
	resp := p.LoginResponse
	if p.User != nil {
		token := resp.Token
		resp = *p.User
		if resp.Token == "" {
			resp.Token = token
		}
	}
	if resp.UserID == "" {
		return models.LoginResponse{}, &Error{Kind: KindBadResponse, Action: ActionLogin, Message: "Login response has no user"}
	}
	return resp, nil
}

// loginPayload covers deployments that nest the user under "user".
type loginPayload struct {
	models.LoginResponse
	User *models.LoginResponse `json:"user"`
}

func (c *HTTPClient) Fetch(ctx context.Context, action string, params url.Values) ([]byte, error) {
	return c.post(ctx, action, params)
}

func (c *HTTPClient) Do(ctx context.Context, action string, params url.Values) ([]byte, error) {
	return c.post(ctx, action, params)
}

func (c *HTTPClient) post(ctx context.Context, action string, params url.Values) ([]byte, error) {
	form := url.Values{}
	for k, vs := range params {
		form[k] = append([]string(nil), vs...)
	}
	form.Set("action", action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", action, ctx.Err())
		}
		c.log.Warn(ctx, "request failed", "action", action, "error", err)
		return nil, &Error{Kind: KindUnavailable, Action: action, Message: "Network error. Check your connection.", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Action: action, Message: "Network error. Check your connection.", Err: err}
	}
	c.log.Debug(ctx, "request done", "action", action, "status", resp.StatusCode, "elapsed", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindUnauthorized, Action: action, Message: "Session expired. Please log in again."}
	case resp.StatusCode >= 500:
		return nil, &Error{Kind: KindUnavailable, Action: action, Message: fmt.Sprintf("Server error (%d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Kind: KindBadResponse, Action: action, Message: fmt.Sprintf("HTTP error: %d", resp.StatusCode)}
	}

	return Unwrap(action, body)
}
