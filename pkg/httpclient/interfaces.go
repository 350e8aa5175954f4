package httpclient

import "context"

// Request describes a single outbound HTTP exchange.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is a minimal HTTP response contract. The body is fully read.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(key string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// A non-nil error means the exchange did not complete; any status code is a response.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
