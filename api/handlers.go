package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/openkisan/kisanq/pkg/rag"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Query string `json:"query"`
}

// SearchResult is one retrieval hit in a search response.
type SearchResult struct {
	Text     string            `json:"text"`
	Score    float32           `json:"score"`
	Quality  string            `json:"quality"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAsk handles POST /v1/ask requests. The body carries the query;
// the response is the full answer packet.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	packet, err := s.pipeline.Ask(c.Context(), req.Query)
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "query is required",
			})
		}
		if errors.Is(err, rag.ErrFallback) {
			s.logger.Error("query failed in fallback", "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Error: "no answer available: local retrieval found nothing and web search failed",
			})
		}

		s.logger.Error("ask failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(packet)
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 5): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	topK := 5
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	passages, err := s.pipeline.Search(c.Context(), query, topK)
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "query parameter is required",
			})
		}

		s.logger.Error("search failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	results := make([]SearchResult, 0, len(passages))
	for _, passage := range passages {
		results = append(results, SearchResult{
			Text:     passage.Chunk.Text,
			Score:    passage.Score,
			Quality:  rag.Grade(passage.Score),
			Metadata: passage.Chunk.Metadata,
		})
	}

	return c.JSON(SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}
