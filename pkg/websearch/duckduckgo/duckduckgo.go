// Package duckduckgo implements websearch.Searcher against the
// DuckDuckGo Instant Answer API. It needs no credential, which makes it
// the keyless tier of the fallback chain.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openkisan/kisanq/pkg/websearch"
)

const (
	// DefaultBaseURL is the Instant Answer API endpoint.
	DefaultBaseURL = "https://api.duckduckgo.com/"

	// DefaultTimeout bounds a single search call.
	DefaultTimeout = 15 * time.Second
)

// Searcher queries the DuckDuckGo Instant Answer API.
type Searcher struct {
	baseURL    string
	httpClient *http.Client
}

// SearcherConfig holds configuration for the DuckDuckGo searcher.
type SearcherConfig struct {
	// BaseURL overrides the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds a single search call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// NewSearcher creates a DuckDuckGo searcher.
func NewSearcher(cfg SearcherConfig) (*Searcher, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Searcher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type instantAnswer struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search queries the Instant Answer API with an agriculture-biased query.
// The abstract, when present, leads the results; related topics fill the
// remainder.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("agricultural advice %s farming", query))
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", websearch.ErrUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", websearch.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: duckduckgo returned status %d", websearch.ErrUnavailable, resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", websearch.ErrUnavailable, err)
	}

	var results []websearch.Result

	if answer.AbstractText != "" {
		results = append(results, websearch.Result{
			Title:   answer.Heading,
			Snippet: answer.AbstractText,
			URL:     answer.AbstractURL,
		})
	}

	for _, topic := range answer.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		results = append(results, websearch.Result{
			Snippet: topic.Text,
			URL:     topic.FirstURL,
		})
	}

	if len(results) == 0 {
		return nil, websearch.ErrNoResults
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}

// Name identifies the provider.
func (s *Searcher) Name() string {
	return "duckduckgo"
}

// Close releases resources held by the searcher.
func (s *Searcher) Close() error {
	return nil
}

var _ websearch.Searcher = (*Searcher)(nil)
