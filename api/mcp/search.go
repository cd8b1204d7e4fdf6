package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/openkisan/kisanq/pkg/rag"
)

var (
	searchToolName    = "search"
	searchDescription = "Search the Kisan Call Center advisory corpus using semantic search. Returns the most relevant historical query/answer pairs with similarity scores and provenance metadata."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant advisories"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	Text     string            `json:"text"`
	Score    float32           `json:"score"`
	Quality  string            `json:"quality"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchOutput represents the output of the search tool.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	// Default topK if not specified
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	logger.Debug("MCP search request",
		"query", input.Query,
		"topK", topK,
	)

	passages, err := s.config.Pipeline.Search(ctx, input.Query, topK)
	if err != nil {
		logger.Error("search tool failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to search corpus: %v", err)},
			},
		}, SearchOutput{}, nil
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

	output := SearchOutput{
		Query:   input.Query,
		Results: results,
		Count:   len(results),
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
