package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/openkisan/kisanq/pkg/rag"
)

// Pipeline is the slice of the RAG pipeline the API serves.
type Pipeline interface {
	Ask(ctx context.Context, query string) (*rag.AnswerPacket, error)
	Search(ctx context.Context, query string, topK int) ([]rag.Passage, error)
}

// Server is the HTTP API server for the advisory pipeline.
type Server struct {
	config   Config
	pipeline Pipeline
	logger   *slog.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The pipeline is injected to allow
// sharing with other components (e.g., the MCP server). A non-nil
// mcpHandler is mounted under /mcp.
func NewServer(config Config, pipeline Pipeline, mcpHandler http.Handler, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		pipeline: pipeline,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/search", s.handleSearch)
	app.Post("/v1/ask", s.handleAsk)

	if mcpHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpHandler))
		app.All("/mcp/*", adaptor.HTTPHandler(mcpHandler))
	}

	return s
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
