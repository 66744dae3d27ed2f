package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const tavilyURL = "https://api.tavily.com/search"

// Tavily searches with the Tavily API.
type Tavily struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Depth      string
	IncludeRaw bool
	HTTPClient *http.Client
}

// TavilyOption configures Tavily.
type TavilyOption func(*Tavily)

// WithTavilyBaseURL overrides the API endpoint.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *Tavily) {
		t.BaseURL = baseURL
	}
}

// WithTavilyMaxResults sets the number of results per query (1-20).
func WithTavilyMaxResults(n int) TavilyOption {
	return func(t *Tavily) {
		t.MaxResults = clamp(n, 1, 20)
	}
}

// WithTavilyDepth sets the search depth, "basic" or "advanced".
func WithTavilyDepth(depth string) TavilyOption {
	return func(t *Tavily) {
		t.Depth = depth
	}
}

// WithTavilyRawContent asks Tavily for the full page text.
func WithTavilyRawContent(include bool) TavilyOption {
	return func(t *Tavily) {
		t.IncludeRaw = include
	}
}

// WithTavilyHTTPClient sets the HTTP client.
func WithTavilyHTTPClient(c *http.Client) TavilyOption {
	return func(t *Tavily) {
		t.HTTPClient = c
	}
}

// NewTavily creates a Tavily client.
func NewTavily(apiKey string, opts ...TavilyOption) (*Tavily, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tavily: API key is empty")
	}
	t := &Tavily{
		APIKey:     apiKey,
		BaseURL:    tavilyURL,
		MaxResults: 5,
		Depth:      "basic",
		IncludeRaw: true,
		HTTPClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

type tavilyRequest struct {
	Query             string `json:"query"`
	APIKey            string `json:"api_key"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// Search runs query against Tavily.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(tavilyRequest{
		Query:             query,
		APIKey:            t.APIKey,
		SearchDepth:       t.Depth,
		MaxResults:        t.MaxResults,
		IncludeRawContent: t.IncludeRaw,
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("tavily", resp)
	}

	var out tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}
	return out.Results, nil
}
