package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Searcher executes one bounded search against an index and returns the raw
// documents. The join engine issues one call per source per join stage.
type Searcher interface {
	Search(ctx context.Context, index string, query json.RawMessage, limit int) ([]map[string]any, error)
}

// FieldMapper returns the flattened field paths of an index. It only feeds
// the configuration UI; the join algorithm does not depend on it.
type FieldMapper interface {
	Fields(ctx context.Context, index string) ([]string, error)
}

// Client talks to an Elasticsearch-compatible search engine over its REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type searchRequest struct {
	Size  int             `json:"size"`
	Query json.RawMessage `json:"query"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a single _search request capped at limit documents. A nil or
// empty query matches everything.
func (c *Client) Search(ctx context.Context, index string, query json.RawMessage, limit int) ([]map[string]any, error) {
	if len(query) == 0 {
		query = json.RawMessage(`{"match_all":{}}`)
	}

	body, err := json.Marshal(searchRequest{Size: limit, Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/_search", c.baseURL, url.PathEscape(index))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %s: %s", index, readErrorBody(resp))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response for %s: %w", index, err)
	}

	docs := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		if doc == nil {
			doc = map[string]any{}
		}
		if _, exists := doc["_id"]; !exists && hit.ID != "" {
			doc["_id"] = hit.ID
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Fields fetches the index mapping and walks it into sorted dot-path field
// names, including multi-field sub-fields (e.g. title.keyword).
func (c *Client) Fields(ctx context.Context, index string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/_mapping", c.baseURL, url.PathEscape(index))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build mapping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", index, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapping %s: %s", index, readErrorBody(resp))
	}

	var parsed map[string]struct {
		Mappings struct {
			Properties map[string]any `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode mapping for %s: %w", index, err)
	}

	fields := make([]string, 0)
	for _, mapping := range parsed {
		fields = appendMappingPaths(fields, "", mapping.Mappings.Properties)
	}
	sort.Strings(fields)
	return fields, nil
}

func appendMappingPaths(fields []string, prefix string, properties map[string]any) []string {
	for name, raw := range properties {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if nested, ok := prop["properties"].(map[string]any); ok {
			fields = appendMappingPaths(fields, path, nested)
			continue
		}
		fields = append(fields, path)
		if sub, ok := prop["fields"].(map[string]any); ok {
			fields = appendMappingPaths(fields, path, sub)
		}
	}
	return fields
}

func readErrorBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
