package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-auth-client/pkg/httpclient"
)

// HeaderAuditEventID carries the event id so webhook receivers can deduplicate retries.
const HeaderAuditEventID = "X-Audit-Event-ID"

type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  httpclient.Client
	typ     string
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	client := httpclient.NewRestyClient(timeout).WithRetry(cfg.HTTP.RetryCount, httpRetryWait)

	method := cfg.HTTP.Method
	if method == "" {
		method = httpDefaultMethod
	}

	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  client,
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := make(map[string]string, len(h.headers)+2)
	for k, v := range h.headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	headers[HeaderAuditEventID] = evt.ID

	resp, err := h.client.Do(ctx, httpclient.Request{
		Method:  h.method,
		URL:     h.url,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		err = fmt.Errorf("http request: %w", err)
		logFailed(h.log, h.typ, h.id, evt, err)
		return err
	}
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		err = fmt.Errorf("http response status %d: %s", status, readBodySnippet(resp.Body()))
		logFailed(h.log, h.typ, h.id, evt, err)
		return err
	}
	logDelivered(h.log, h.typ, h.id, evt, map[string]any{"status_code": resp.StatusCode()})
	return nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
