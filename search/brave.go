package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const braveURL = "https://api.search.brave.com/res/v1/web/search"

// Brave searches with the Brave Search API.
type Brave struct {
	APIKey     string
	BaseURL    string
	Count      int
	Country    string
	Lang       string
	HTTPClient *http.Client
}

// BraveOption configures Brave.
type BraveOption func(*Brave)

// WithBraveBaseURL sets the base URL for the Brave Search API.
func WithBraveBaseURL(baseURL string) BraveOption {
	return func(b *Brave) {
		b.BaseURL = baseURL
	}
}

// WithBraveCount sets the number of results to return (1-20).
func WithBraveCount(count int) BraveOption {
	return func(b *Brave) {
		b.Count = clamp(count, 1, 20)
	}
}

// WithBraveCountry sets the country code for search results (e.g., "US", "CN").
func WithBraveCountry(country string) BraveOption {
	return func(b *Brave) {
		b.Country = country
	}
}

// WithBraveLang sets the language code for search results (e.g., "en", "zh").
func WithBraveLang(lang string) BraveOption {
	return func(b *Brave) {
		b.Lang = lang
	}
}

// WithBraveHTTPClient sets the HTTP client.
func WithBraveHTTPClient(c *http.Client) BraveOption {
	return func(b *Brave) {
		b.HTTPClient = c
	}
}

// NewBrave creates a Brave client.
func NewBrave(apiKey string, opts ...BraveOption) (*Brave, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("brave: API key is empty")
	}
	b := &Brave{
		APIKey:     apiKey,
		BaseURL:    braveURL,
		Count:      5,
		Country:    "US",
		Lang:       "en",
		HTTPClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title         string   `json:"title"`
			URL           string   `json:"url"`
			Description   string   `json:"description"`
			ExtraSnippets []string `json:"extra_snippets"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs query against Brave.
func (b *Brave) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(b.Count))
	if b.Country != "" {
		params.Set("country", b.Country)
	}
	if b.Lang != "" {
		params.Set("search_lang", b.Lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("brave: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("brave", resp)
	}

	var out braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("brave: decode response: %w", err)
	}

	results := make([]Result, 0, len(out.Web.Results))
	for _, r := range out.Web.Results {
		content := r.Description
		if len(r.ExtraSnippets) > 0 {
			content += "\n" + strings.Join(r.ExtraSnippets, "\n")
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Content: content})
	}
	return results, nil
}

// statusError reports a non-200 response. The body is included because providers put the
// reason (invalid key, quota) there.
func statusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s: api returned status code %d", provider, resp.StatusCode)
	}
	return fmt.Errorf("%s: api returned status code %d: %s", provider, resp.StatusCode, msg)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
