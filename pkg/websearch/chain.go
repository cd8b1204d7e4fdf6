package websearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Chain tries each searcher in order until one returns results. A tier
// that errors or comes back empty is logged and the next tier is tried;
// the chain fails only when every tier has failed.
type Chain struct {
	searchers []Searcher
	logger    *slog.Logger
}

// NewChain creates a tiered searcher. Order matters: the first searcher
// that returns results wins.
func NewChain(logger *slog.Logger, searchers ...Searcher) (*Chain, error) {
	if len(searchers) == 0 {
		return nil, errors.New("websearch: chain requires at least one searcher")
	}
	return &Chain{
		searchers: searchers,
		logger:    logger,
	}, nil
}

// Search tries each tier in order.
func (c *Chain) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	var tierErrs []error

	for _, searcher := range c.searchers {
		results, err := searcher.Search(ctx, query, maxResults)
		if err != nil {
			c.logger.Warn("web search tier failed",
				"provider", searcher.Name(),
				"error", err)
			tierErrs = append(tierErrs, fmt.Errorf("%s: %w", searcher.Name(), err))
			continue
		}

		c.logger.Debug("web search tier answered",
			"provider", searcher.Name(),
			"results", len(results))
		return results, nil
	}

	return nil, fmt.Errorf("%w: all tiers failed: %v", ErrUnavailable, errors.Join(tierErrs...))
}

// Name lists the tiers in order.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.searchers))
	for _, s := range c.searchers {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}

// Close closes every tier, returning the first error encountered.
func (c *Chain) Close() error {
	var firstErr error
	for _, s := range c.searchers {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Searcher = (*Chain)(nil)
