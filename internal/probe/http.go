package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/unirank/internal/adapters/http/api"
)

const requestIDHeader = api.RequestIDHeader

// httpClient wraps http.Client with timeout.
type httpClient struct {
	client *http.Client
	base   string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
		base:   strings.TrimRight(baseURL, "/"),
	}
}

// getJSON issues GET path?query and decodes the body into v. It returns the
// status code; decoding is skipped when v is nil.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, v any) (int, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := resp.Header.Get(requestIDHeader); got != id {
		return resp.StatusCode, fmt.Errorf("GET %s: request id not echoed (sent %s, got %q)", target, id, got)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("GET %s: read body: %w", target, err)
	}
	if v != nil {
		if err := json.Unmarshal(body, v); err != nil {
			return resp.StatusCode, fmt.Errorf("GET %s: decode body: %w", target, err)
		}
	}
	return resp.StatusCode, nil
}
