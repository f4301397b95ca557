// Package client reads the product catalog backend over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/product-catalog-state/internal/apperrors"
	"github.com/fairyhunter13/product-catalog-state/internal/model"
)

const defaultTimeout = 10 * time.Second

var errBaseURLRequired = errors.New("catalog backend base url is required")

// Client implements catalog.Source against the backend REST routes.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// New builds a client for the backend rooted at baseURL, e.g.
// "http://localhost:8081/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	c := &Client{baseURL: trimmed, httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	return get[[]model.Product](ctx, c, "products")
}

func (c *Client) FetchCategories(ctx context.Context) ([]model.Category, error) {
	return get[[]model.Category](ctx, c, "productCategories")
}

func (c *Client) FetchSupplier(ctx context.Context, id int) (model.Supplier, error) {
	return get[model.Supplier](ctx, c, "suppliers/"+strconv.Itoa(id))
}

// get decodes the JSON body at path. Transport and decode failures are
// client errors; non-2xx responses are backend errors.
func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	url := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return out, apperrors.Client(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, apperrors.Client(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := fmt.Sprintf("Http failure response for %s: %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
		return out, apperrors.Backend(resp.StatusCode, detail)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, apperrors.Client(fmt.Errorf("decode %s: %w", path, err))
	}
	return out, nil
}
