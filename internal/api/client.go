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

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the resolved versioned API root, e.g. "https://host/api/v1".
	BaseURL string
	// TokenSource supplies the bearer credential for outgoing requests.
	// May be nil for an unauthenticated client.
	TokenSource oauth2.TokenSource
	// HTTPClient overrides the underlying client; its transport is wrapped.
	HTTPClient *http.Client
	Timeout    time.Duration
	// RateLimitNotifier fires exactly once per 429 response, before the
	// error is returned to the caller.
	RateLimitNotifier func(msg string)
	// MentorRoute selects the chat backend route ("/ai-mentor" or
	// "/career-guru"). Both serve the same contract.
	MentorRoute string
}

// Client is the single configured request/response pipeline for the
// resume-analyzer backend. All resource methods hang off it.
type Client struct {
	baseURL     string
	http        *http.Client
	notify429   func(msg string)
	mentorRoute string
}

// New builds a Client. The bearer-injection transport wraps whatever
// transport the supplied HTTP client carries.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	hc.Transport = &bearerTransport{source: opts.TokenSource, base: hc.Transport}
	if hc.Timeout == 0 {
		if opts.Timeout > 0 {
			hc.Timeout = opts.Timeout
		} else {
			hc.Timeout = defaultTimeout
		}
	}

	notify := opts.RateLimitNotifier
	if notify == nil {
		notify = func(msg string) {
			log.Warn().Msg(msg)
		}
	}

	route := strings.TrimRight(opts.MentorRoute, "/")
	if route == "" {
		route = "/ai-mentor"
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		http:        hc,
		notify429:   notify,
		mentorRoute: route,
	}
}

// BaseURL returns the resolved API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, body, "application/x-www-form-urlencoded", out)
}

// do issues one request and decodes the response into out (when non-nil).
// Every non-2xx response is translated through the error taxonomy; errors are
// never swallowed, including after the rate-limit notification side effect.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	apiErr := decodeError(resp)
	if resp.StatusCode == http.StatusTooManyRequests {
		c.notify429("AI request throttled. Please wait a minute before sending more requests.")
	}
	log.Debug().
		Int("status", resp.StatusCode).
		Str("method", method).
		Str("path", path).
		Str("code", apiErr.Code).
		Msg("api error")
	return apiErr
}

// decodeError reads a non-2xx body. The backend answers either the
// standardized {"error":{code,message,details}} envelope or the bare
// {"detail": ...} shape; a malformed body degrades to a generic message.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var envelope struct {
		Error struct {
			Code    string      `json:"code"`
			Message string      `json:"message"`
			Details interface{} `json:"details"`
		} `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apiErr
	}

	if envelope.Error.Message != "" || envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
		return apiErr
	}

	if len(envelope.Detail) > 0 {
		var msg string
		if json.Unmarshal(envelope.Detail, &msg) == nil {
			apiErr.Message = msg
			return apiErr
		}
		var details interface{}
		if json.Unmarshal(envelope.Detail, &details) == nil {
			apiErr.Details = details
		}
	}
	return apiErr
}
