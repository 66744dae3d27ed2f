package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchPage downloads pageURL and returns its visible text, with scripts and styles removed
// and whitespace collapsed.
func FetchPage(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "deepresearch/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status code %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pageURL, err)
	}
	doc.Find("script, style, noscript, iframe").Remove()

	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

// Enrich fills RawContent for results that lack it by fetching the page. Fetch failures leave
// the result unchanged.
func Enrich(ctx context.Context, client *http.Client, results []Result) []Result {
	for i := range results {
		if results[i].RawContent != "" || results[i].URL == "" {
			continue
		}
		if text, err := FetchPage(ctx, client, results[i].URL); err == nil {
			results[i].RawContent = text
		}
	}
	return results
}

// Enriched wraps a Searcher whose hits carry only snippets and fills in their page text.
type Enriched struct {
	Searcher Searcher
	Client   *http.Client
}

// NewEnriched wraps s. A nil client means http.DefaultClient.
func NewEnriched(s Searcher, client *http.Client) *Enriched {
	return &Enriched{Searcher: s, Client: client}
}

// Search runs the wrapped search and fetches the pages of hits without raw content.
func (e *Enriched) Search(ctx context.Context, query string) ([]Result, error) {
	results, err := e.Searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return Enrich(ctx, e.Client, results), nil
}
