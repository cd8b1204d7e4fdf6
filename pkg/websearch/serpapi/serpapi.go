// Package serpapi implements websearch.Searcher against the SerpAPI
// Google search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openkisan/kisanq/pkg/websearch"
)

const (
	// DefaultBaseURL is the SerpAPI endpoint.
	DefaultBaseURL = "https://serpapi.com/search"

	// DefaultTimeout bounds a single search call.
	DefaultTimeout = 15 * time.Second
)

// Searcher queries SerpAPI's Google engine.
type Searcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// SearcherConfig holds configuration for the SerpAPI searcher.
type SearcherConfig struct {
	// APIKey is the SerpAPI credential. Required.
	APIKey string

	// BaseURL overrides the SerpAPI endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds a single search call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// NewSearcher creates a SerpAPI searcher. Returns ErrMissingAPIKey when
// no credential is configured, so misconfiguration is caught at startup.
func NewSearcher(cfg SearcherConfig) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: serpapi requires websearch.api_key", websearch.ErrMissingAPIKey)
	}

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
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type searchResponse struct {
	AnswerBox struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search queries SerpAPI with an agriculture-biased query. The answer box,
// when present, leads the results since it is Google's extracted answer.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", fmt.Sprintf("agricultural advice %s farming tips", query))
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", websearch.ErrUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", websearch.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: serpapi rejected the API key (status %d)", websearch.ErrMissingAPIKey, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serpapi returned status %d", websearch.ErrUnavailable, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", websearch.ErrUnavailable, err)
	}
	if searchResp.Error != "" {
		return nil, fmt.Errorf("%w: serpapi: %s", websearch.ErrUnavailable, searchResp.Error)
	}

	var results []websearch.Result

	box := searchResp.AnswerBox
	if box.Answer != "" || box.Snippet != "" {
		snippet := box.Answer
		if snippet == "" {
			snippet = box.Snippet
		}
		results = append(results, websearch.Result{
			Title:   box.Title,
			Snippet: snippet,
			URL:     box.Link,
		})
	}

	for _, organic := range searchResp.OrganicResults {
		if organic.Snippet == "" {
			continue
		}
		results = append(results, websearch.Result{
			Title:   organic.Title,
			Snippet: organic.Snippet,
			URL:     organic.Link,
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
	return "serpapi"
}

// Close releases resources held by the searcher.
func (s *Searcher) Close() error {
	return nil
}

var _ websearch.Searcher = (*Searcher)(nil)
