// Package request provides the `request` API, an HTTP client that is both
// structured (its settings are readable) and callable (calling it performs a
// request).
//
// Version 1.0.0 only performs GET requests. Version 1.1 accepts an optional
// method as the second argument.
package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/verapi/internal/catalog"
	"github.com/vk/verapi/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	// Timeout applies to every request. Zero means DefaultTimeout.
	Timeout time.Duration
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

const DefaultTimeout = 10 * time.Second

// Register provides the client at 1.0.0 and 1.1.
func (m *Module) Register(c *catalog.Catalog) {
	c.ProvideAt("request", "1.0.0", m.newClient(false))
	c.ProvideAt("request", "1.1", m.newClient(true))
}

func (m *Module) newClient(methods bool) *Client {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := m.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	return &Client{
		Timeout:      timeout,
		AllowMethods: methods,
		http:         &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Client is the request API value.
type Client struct {
	Timeout      time.Duration `api:"timeout"`
	AllowMethods bool          `api:"allow_methods"`
	http         *http.Client
}

// Call performs a request. Arguments are the URL and, when AllowMethods is
// set, an optional method. The result is a cty object with `status_code` and
// `body`.
func (c *Client) Call(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("request: url argument is required")
	}
	url, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("request: url must be a string, got %T", args[0])
	}

	method := http.MethodGet
	switch {
	case len(args) == 2 && c.AllowMethods:
		m, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("request: method must be a string, got %T", args[1])
		}
		method = m
	case len(args) > 1:
		return nil, fmt.Errorf("request: too many arguments (%d)", len(args))
	}

	return c.Do(context.Background(), method, url)
}

// Do executes a single request and reads the full body.
func (c *Client) Do(ctx context.Context, method, url string) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Making HTTP request", "method", method, "url", url)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("Received HTTP response", "status", resp.Status)

	return cty.ObjectVal(map[string]cty.Value{
		"status_code": cty.NumberIntVal(int64(resp.StatusCode)),
		"body":        cty.StringVal(string(body)),
	}), nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
