// Package chatcmder provides an interactive question answering loop.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/pkg/cliui"
	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/logger"
	"github.com/openkisan/kisanq/pkg/rag"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
)

type chatCommander struct {
	cfg    *config.Config
	debug  bool
	logger *slog.Logger

	in  io.Reader
	out io.Writer
}

const chatLongDesc string = `Start an interactive session against the advisory corpus.

Each line is answered like a single ask invocation, with answer tokens
streamed as they are generated. Type /exit (or press Ctrl-D) to leave.`

const chatShortDesc string = "Interactive question answering"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{
		in:  os.Stdin,
		out: os.Stdout,
	}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
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

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	ctx := context.Background()

	pipeline, err := ragutils.NewPipeline(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	fmt.Fprintln(c.out, cliui.DimStyle.Render("ask anything about your crops, /exit to quit"))

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, cliui.KeyStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "exit", "/quit":
			return nil
		}

		packet, err := pipeline.AskStream(ctx, line, func(token string) {
			fmt.Fprint(c.out, token)
		})
		if err != nil {
			fmt.Fprintf(c.out, "%s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Fprintf(c.out, "\n  %s %s  %s\n",
			cliui.KeyStyle.Render("source:"),
			cliui.RenderSource(packet.Source),
			cliui.DimStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(packet.Elapsed))),
		)
		if packet.Source == rag.SourceFallback {
			fmt.Fprintf(c.out, "  %s\n", cliui.DimStyle.Render("answer comes from live web search, not the local advisory corpus"))
		}
		fmt.Fprintln(c.out)
	}
}
