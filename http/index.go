// Package http provides the runtime network clients: the pattern index
// loader, the rendered-page content fetcher, and the streaming chat
// completion client.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/patternpress/patternpress"
)

// DefaultFetchTimeout is the default timeout for non-streaming requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure IndexClient implements patternpress.IndexLoader at compile time.
var _ patternpress.IndexLoader = (*IndexClient)(nil)

// IndexClient fetches and decodes the pattern index artifact.
type IndexClient struct {
	// URL of the published index artifact.
	URL string

	client *http.Client
}

// NewIndexClient creates a new IndexClient.
func NewIndexClient(url string) *IndexClient {
	return &IndexClient{
		URL:    url,
		client: &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// Load fetches the index artifact and decodes it.
func (c *IndexClient) Load(ctx context.Context) ([]patternpress.IndexEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, patternpress.Errorf(patternpress.EINTERNAL, "pattern index fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, patternpress.Errorf(patternpress.EINTERNAL, "pattern index fetch failed: HTTP %d", resp.StatusCode)
	}

	var entries []patternpress.IndexEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, patternpress.Errorf(patternpress.EINTERNAL, "pattern index decode failed: %v", err)
	}
	return entries, nil
}
