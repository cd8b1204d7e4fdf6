package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	askToolName    = "ask"
	askDescription = "Answer an agricultural question. Tries the local Kisan Call Center advisory corpus first and falls back to web search when nothing relevant is found. Returns the answer with its source and supporting snippets."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the agricultural question to answer"`
}

// AskSnippet is one piece of supporting evidence in an ask result.
type AskSnippet struct {
	Text    string  `json:"text"`
	Score   float32 `json:"score,omitempty"`
	Quality string  `json:"quality,omitempty"`
	URL     string  `json:"url,omitempty"`
}

// AskOutput represents the output of the ask tool.
type AskOutput struct {
	Query     string       `json:"query"`
	Answer    string       `json:"answer"`
	Source    string       `json:"source"`
	BestScore float32      `json:"best_score"`
	Snippets  []AskSnippet `json:"snippets,omitempty"`
}

// handleAsk processes an ask request.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP ask request", "query", input.Query)

	packet, err := s.config.Pipeline.Ask(ctx, input.Query)
	if err != nil {
		logger.Error("ask tool failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer query: %v", err)},
			},
		}, AskOutput{}, nil
	}

	output := AskOutput{
		Query:     packet.Query,
		Answer:    packet.Answer,
		Source:    packet.Source,
		BestScore: packet.BestScore,
	}
	for _, snippet := range packet.Snippets {
		output.Snippets = append(output.Snippets, AskSnippet{
			Text:    snippet.Text,
			Score:   snippet.Score,
			Quality: snippet.Quality,
			URL:     snippet.URL,
		})
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal ask output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize answer: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
