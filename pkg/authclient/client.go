package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-auth-client/pkg/httpclient"
)

// Config wires a Client. Only BaseURL is required. Without HTTP the client
// sets no timeout of its own; deadlines come from the caller's context.
type Config struct {
	BaseURL   string
	HTTP      httpclient.Client
	Endpoints *Endpoints
	Log       Logger
}

// CallOptions carries the optional parts of a call.
type CallOptions struct {
	Body  any
	Token string
}

// Client performs one HTTP exchange per call against a fixed base origin.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL   string
	http      httpclient.Client
	endpoints *Endpoints
	log       Logger
}

// New validates the base origin and builds a Client.
func New(cfg Config) (*Client, error) {
	base, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.HTTP == nil {
		cfg.HTTP = httpclient.NewRestyClient(0)
	}
	if cfg.Endpoints == nil {
		cfg.Endpoints = DefaultEndpoints()
	}
	return &Client{
		baseURL:   base,
		http:      cfg.HTTP,
		endpoints: cfg.Endpoints,
		log:       ensureLogger(cfg.Log),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("base url %q must be an absolute http(s) url", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// BaseURL returns the normalized base origin.
func (c *Client) BaseURL() string { return c.baseURL }

// Endpoint resolves a named endpoint from the client's table.
func (c *Client) Endpoint(name string) (Endpoint, error) {
	ep, ok := c.endpoints.Get(name)
	if !ok {
		return Endpoint{}, &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf("unknown endpoint %q", name)}
	}
	return ep, nil
}

// Call performs a single request to ep and decodes a successful JSON body into out.
// out may be nil when the payload is not needed. Every failure is an *Error.
func (c *Client) Call(ctx context.Context, ep Endpoint, opts CallOptions, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := c.buildRequest(ep, opts)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.log.WarnObj("auth api request failed", "auth_call_error", map[string]any{
			"endpoint": ep.Path,
			"method":   req.Method,
			"error":    err.Error(),
		})
		return &Error{Kind: KindTransport, Endpoint: ep.Path, Message: MsgTransport, Err: err}
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		failure := statusFailure(ep, resp)
		c.log.DebugObj("auth api returned failure", "auth_call_failure", map[string]any{
			"endpoint":    ep.Path,
			"status_code": status,
			"kind":        failure.Kind,
			"message":     failure.Message,
		})
		return failure
	}

	if err := decodeJSON(resp.Body(), out); err != nil {
		return &Error{
			Kind:       KindMalformedResponse,
			Endpoint:   ep.Path,
			StatusCode: status,
			Message:    MsgMalformedResponse,
			Snippet:    bodySnippet(resp.Body(), resp.Header("Content-Type")),
			Err:        err,
		}
	}

	c.log.DebugObj("auth api call completed", "auth_call", map[string]any{
		"endpoint":    ep.Path,
		"status_code": status,
	})
	return nil
}

func (c *Client) buildRequest(ep Endpoint, opts CallOptions) (httpclient.Request, error) {
	invalid := func(msg string, err error) error {
		return &Error{Kind: KindInvalidRequest, Endpoint: ep.Path, Message: msg, Err: err}
	}

	path := strings.TrimSpace(ep.Path)
	if path == "" {
		return httpclient.Request{}, invalid("endpoint path is empty", nil)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	if method != http.MethodGet && method != http.MethodPost {
		return httpclient.Request{}, invalid(fmt.Sprintf("unsupported method %q", ep.Method), nil)
	}

	req := httpclient.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}

	if opts.Token != "" {
		req.Headers["Authorization"] = "Bearer " + opts.Token
	} else if ep.RequiresAuth {
		c.log.DebugObj("calling authenticated endpoint without token", "endpoint", path)
	}

	if opts.Body != nil {
		if method == http.MethodGet {
			return httpclient.Request{}, invalid("GET requests cannot carry a body", nil)
		}
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return httpclient.Request{}, invalid("request body is not JSON-serializable", err)
		}
		req.Body = raw
		req.Headers["Content-Type"] = "application/json"
	}

	return req, nil
}

// statusFailure builds the failure for a non-2xx response.
func statusFailure(ep Endpoint, resp httpclient.Response) *Error {
	body := resp.Body()
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return &Error{
			Kind:       KindMalformedResponse,
			Endpoint:   ep.Path,
			StatusCode: resp.StatusCode(),
			Message:    MsgMalformedResponse,
			Snippet:    bodySnippet(body, resp.Header("Content-Type")),
			Err:        err,
		}
	}

	msg := detailMessage(payload)
	if msg == "" {
		msg = ep.FailureMessage()
	}
	return &Error{
		Kind:       KindHTTPStatus,
		Endpoint:   ep.Path,
		StatusCode: resp.StatusCode(),
		Message:    msg,
	}
}

// detailMessage extracts the "detail" field of an error payload. Validation
// errors carry a list of {"msg": ...} objects instead of a string.
func detailMessage(payload any) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return ""
	}

	switch d := obj["detail"].(type) {
	case string:
		return strings.TrimSpace(d)
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			switch v := item.(type) {
			case string:
				if s := strings.TrimSpace(v); s != "" {
					msgs = append(msgs, s)
				}
			case map[string]any:
				if s, ok := v["msg"].(string); ok && strings.TrimSpace(s) != "" {
					msgs = append(msgs, strings.TrimSpace(s))
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func decodeJSON(body []byte, out any) error {
	if !json.Valid(body) {
		return fmt.Errorf("response body is not valid JSON")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
