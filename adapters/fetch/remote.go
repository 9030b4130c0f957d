// Package fetch implements the remote-URL data source variant: each input
// file is fetched once, best-effort, from a configured URL prefix.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"marketviz/internal/errors"
)

// Client fetches input files from a base URL. No retries: each file gets a
// single best-effort request at startup.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a fetch client for a URL prefix.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads one named file and returns its payload.
func (c *Client) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := c.baseURL + "/" + strings.TrimLeft(name, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.RemoteFetch(url, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.RemoteFetch(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.RemoteFetch(url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.RemoteFetch(url, err)
	}

	log.Printf("[Fetch] %s (%d bytes in %.0fms)", url, len(payload),
		float64(time.Since(start).Nanoseconds())/1e6)
	return payload, nil
}
