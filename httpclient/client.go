package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/accessmatrix/resilience"
	"github.com/kbukum/accessmatrix/util"
)

// Client sends requests through the optional retry loop and circuit
// breaker configured in Config.
type Client struct {
	http    *http.Client
	cfg     Config
	breaker *resilience.CircuitBreaker
}

// New validates cfg and builds a Client on a private transport.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		http: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}
	if cfg.CircuitBreaker != nil {
		c.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return c, nil
}

// Do sends req. A non-2xx answer returns both the response and a classified
// *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.cfg.Retry == nil {
		return c.attempt(ctx, req)
	}
	return resilience.Retry(ctx, *c.cfg.Retry, func(ctx context.Context) (*Response, error) {
		return c.attempt(ctx, req)
	})
}

// CircuitState is always closed for clients without a breaker.
func (c *Client) CircuitState() resilience.State {
	if c.breaker == nil {
		return resilience.StateClosed
	}
	return c.breaker.State()
}

func (c *Client) attempt(ctx context.Context, req Request) (*Response, error) {
	if c.breaker == nil {
		return c.send(ctx, req)
	}
	var resp *Response
	err := c.breaker.Execute(func() error {
		var err error
		resp, err = c.send(ctx, req)
		// Rejected credentials and missing resources are the caller's
		// problem, not the upstream's.
		if IsAuth(err) || IsNotFound(err) {
			return nil
		}
		return err
	})
	if err == nil && resp != nil {
		err = ClassifyStatusCode(resp.StatusCode, resp.Body).asError()
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	return resp, ClassifyStatusCode(resp.StatusCode, body).asError()
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewRequestError(fmt.Errorf("encode body: %w", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path), body)
	if err != nil {
		return nil, NewRequestError(fmt.Errorf("create request: %w", err))
	}

	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = vs
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := util.Coalesce(req.Token, c.cfg.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

func (c *Client) resolve(path string) string {
	if c.cfg.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	if p := strings.TrimLeft(path, "/"); p != "" {
		return base + "/" + p
	}
	return base
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}
