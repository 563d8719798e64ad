// Package catalog содержит HTTP-клиент внешнего каталога драм и нормализатор его ответов.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/dramabox/internal/config"
)

// maxBodySize ограничивает размер ответа каталога.
const maxBodySize = 8 << 20

// ErrUpstream каталог ответил статусом, отличным от 200.
var ErrUpstream = errors.New("catalog: unexpected upstream status")

// Client клиент каталога, только чтение.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient создаёт клиент каталога.
func NewClient(cfg config.Catalog) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.CatalogBaseURL, "/"),
		userAgent:  cfg.CatalogUserAgent,
		httpClient: &http.Client{Timeout: cfg.CatalogTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// Get выполняет GET path?query и возвращает тело ответа как есть.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	const op = "catalog.Get"

	req, err := c.newRequest(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUpstream, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return body, nil
}
