// Package search provides the web search clients used by the research workflow.
//
// Two providers are supported, Tavily and Brave. Both implement Searcher and return Result
// values that FormatSources turns into the source block handed to the section writer.
// Brave hits carry only a snippet, so FromConfig wraps Brave in Enriched, which downloads each
// page with FetchPage and extracts its readable text.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jemygraw/deepresearch/config"
	"golang.org/x/sync/errgroup"
)

// Result is a single search hit.
type Result struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// SearchAll runs every query and returns the hits in query order. Queries run concurrently;
// the first error cancels the rest.
func SearchAll(ctx context.Context, s Searcher, queries []string) ([]Result, error) {
	perQuery := make([][]Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			results, err := s.Search(gctx, q)
			if err != nil {
				return fmt.Errorf("search %q: %w", q, err)
			}
			perQuery[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Result
	for _, results := range perQuery {
		all = append(all, results...)
	}
	return all, nil
}

// Dedupe drops results whose URL was already seen, keeping the first.
func Dedupe(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}

// FormatSources renders de-duplicated results as a source block. maxChars limits the raw
// content of each source; zero omits raw content.
func FormatSources(results []Result, maxChars int) string {
	var sb strings.Builder
	sb.WriteString("Sources:\n\n")
	for _, r := range Dedupe(results) {
		fmt.Fprintf(&sb, "Source %s:\n===\n", r.Title)
		fmt.Fprintf(&sb, "URL: %s\n===\n", r.URL)
		fmt.Fprintf(&sb, "Most relevant content from source: %s\n===\n", r.Content)
		if maxChars > 0 && r.RawContent != "" {
			raw := r.RawContent
			if len(raw) > maxChars {
				raw = raw[:maxChars] + "... [truncated]"
			}
			fmt.Fprintf(&sb, "Full source content limited to %d characters: %s\n\n", maxChars, raw)
		}
	}
	return strings.TrimSpace(sb.String())
}

const fetchTimeout = 20 * time.Second

// FromConfig creates the searcher selected by cfg.SearchAPI.
func FromConfig(cfg *config.Config) (Searcher, error) {
	switch cfg.SearchAPI {
	case "tavily":
		t, err := NewTavily(cfg.Secret(config.TavilyKey))
		if err != nil {
			return nil, err
		}
		return t, nil
	case "brave":
		client := &http.Client{Timeout: fetchTimeout}
		b, err := NewBrave(cfg.Secret(config.BraveKey), WithBraveHTTPClient(client))
		if err != nil {
			return nil, err
		}
		// Brave returns snippets only.
		return NewEnriched(b, client), nil
	default:
		return nil, fmt.Errorf("unsupported search API %q", cfg.SearchAPI)
	}
}
