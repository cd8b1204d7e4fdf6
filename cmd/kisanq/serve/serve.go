// Package servecmder provides the serve command for running the HTTP API.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/api"
	"github.com/openkisan/kisanq/api/mcp"
	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/logger"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
)

var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
}

type serveCommander struct {
	listen string
	noMCP  bool

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
}

const serveLongDesc string = `Run the question answering HTTP API.

Exposes /v1/ask and /v1/search as JSON endpoints, plus an MCP server
at /mcp so agent tooling can use ask and search as tools. The server
shuts down cleanly on SIGINT or SIGTERM.`

const serveShortDesc string = "Run the question answering HTTP API"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, []string{
				config.FlagAPIListen,
			})

			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP endpoint")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithJSON(true))

	ctx := context.Background()

	pipeline, err := ragutils.NewPipeline(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Pipeline: pipeline,
		Noop:     c.noMCP,
		Logger:   c.logger,
	})
	if err != nil {
		return fmt.Errorf("could not create MCP server: %w", err)
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
	}, pipeline, mcpServer.Handler(), c.logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- apiServer.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}
