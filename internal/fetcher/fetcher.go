// Package fetcher downloads catalog pages and discovers the albums
// released on a target date.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"morabot/internal/model"
)

const (
	pageURLFormat = "https://cf.mora.jp/contents/data/newrelease/web/newrelease/newRelease_%s_%04d.jsonp?_%d"
	callbackName  = "moraCallback"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and decodes single catalog pages.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: 15 * time.Second,
	}
}

// FetchPage downloads one catalog page for a region. The timestamp is a
// cache-busting query parameter (epoch milliseconds of the target date
// at local midnight). Transport, status, and decode failures are all
// returned as errors; callers treat a failed page as contributing zero
// albums.
func (f *Fetcher) FetchPage(ctx context.Context, region string, page int, timestamp int64) (*model.PageResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	url := fmt.Sprintf(pageURLFormat, region, page, timestamp)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "MoraNotifyBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return decodePage(body)
}

// decodePage strips the JSONP callback envelope and decodes the
// remaining JSON payload.
func decodePage(body []byte) (*model.PageResult, error) {
	s := strings.TrimSpace(string(body))
	if !strings.HasPrefix(s, callbackName+"(") {
		return nil, fmt.Errorf("missing %s envelope", callbackName)
	}
	s = strings.TrimPrefix(s, callbackName+"(")
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSuffix(s, ")")

	var page model.PageResult
	if err := json.Unmarshal([]byte(s), &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}
