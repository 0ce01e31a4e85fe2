package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Request is one outbound call. Path is joined to Config.BaseURL unless it
// is already absolute; an empty Path targets BaseURL itself.
type Request struct {
	Method string
	Path   string
	Header http.Header
	// Body is sent unchanged when it is an io.Reader or []byte and
	// JSON-encoded otherwise.
	Body any
	// Token overrides Config.Token for this request.
	Token string
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode/100 == 2 }

// RequestOption adjusts a Request before it is sent.
type RequestOption func(*Request)

// WithHeader sets one request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
	}
}

// WithBearer sends token as the request's bearer credential.
func WithBearer(token string) RequestOption {
	return func(r *Request) { r.Token = token }
}

// JSON is a response whose body was decoded into T.
type JSON[T any] struct {
	StatusCode int
	Header     http.Header
	Data       T
}

// PostJSON sends body as JSON and decodes a non-empty response body into T.
func PostJSON[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*JSON[T], error) {
	req := Request{Method: http.MethodPost, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &JSON[T]{StatusCode: resp.StatusCode, Header: resp.Header}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out.Data); err != nil {
		return nil, NewRequestError(fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}
