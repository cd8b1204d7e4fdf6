// Package askcmder provides the ask command for one-shot question answering.
package askcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/pkg/cliui"
	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/logger"
	"github.com/openkisan/kisanq/pkg/rag"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
	"github.com/openkisan/kisanq/pkg/utils"
)

var askFlags = config.FlagSet{
	config.FlagThreshold: {
		Name:        "threshold",
		Shorthand:   "t",
		ViperKey:    "retrieval.threshold",
		Description: "Minimum similarity for a passage to count as relevant (0,1]",
	},
	config.FlagTopK: {
		Name:        "top-k",
		Shorthand:   "k",
		ViperKey:    "retrieval.top_k",
		Description: "Maximum number of passages to ground the answer on",
	},
	config.FlagGenerationModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "generation.model",
		Description: "Local generation model",
	},
}

type askCommander struct {
	query     string
	threshold float64
	topK      uint
	model     string
	jsonOut   bool

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
}

const askLongDesc string = `Answer an agricultural question.

The question is answered from the local advisory corpus when retrieval
finds relevant passages, and from web search otherwise. The answer is
printed together with its source and the supporting evidence.

Examples:
  kisanq ask "yellow rust in wheat"
  kisanq ask "when to sow paddy in Punjab" --top-k 5
  kisanq ask "aphids in mustard" --threshold 0.6 --json`

const askShortDesc string = "Answer an agricultural question"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, askFlags, []string{
				config.FlagThreshold,
				config.FlagTopK,
				config.FlagGenerationModel,
			})

			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddFloat64Flag(cmd, askFlags, config.FlagThreshold, &cmder.threshold)
	config.AddUintFlag(cmd, askFlags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, askFlags, config.FlagGenerationModel, &cmder.model)
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print the raw answer packet as JSON")

	return cmd
}

func (c *askCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	ctx := context.Background()

	pipeline, err := ragutils.NewPipeline(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	var packet *rag.AnswerPacket
	err = cliui.Step(os.Stderr, "answering", func() error {
		var askErr error
		packet, askErr = pipeline.Ask(ctx, c.query)
		return askErr
	})
	if err != nil {
		return err
	}

	if c.jsonOut {
		return json.NewEncoder(os.Stdout).Encode(packet)
	}

	printPacket(packet)
	return nil
}

func printPacket(packet *rag.AnswerPacket) {
	rendered, err := cliui.RenderMarkdown(packet.Answer)
	if err != nil {
		rendered = packet.Answer + "\n"
	}
	fmt.Print(rendered)

	fmt.Printf("  %s %s  %s\n",
		cliui.KeyStyle.Render("source:"),
		cliui.RenderSource(packet.Source),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(packet.Elapsed))),
	)
	if packet.Source == rag.SourceFallback {
		fmt.Printf("  %s\n", cliui.DimStyle.Render("answer comes from live web search, not the local advisory corpus"))
	}

	if len(packet.Snippets) == 0 {
		fmt.Println()
		return
	}

	fmt.Println()
	for i, snippet := range packet.Snippets {
		if snippet.Quality != "" {
			fmt.Printf("  %s %s %s\n",
				cliui.DimStyle.Render(fmt.Sprintf("#%d", i+1)),
				cliui.RenderQuality(snippet.Score),
				cliui.DimStyle.Render(fmt.Sprintf("score: %.4f", snippet.Score)),
			)
		} else {
			fmt.Printf("  %s %s\n",
				cliui.DimStyle.Render(fmt.Sprintf("#%d", i+1)),
				cliui.KeyStyle.Render(snippet.URL),
			)
		}
		fmt.Printf("  %s\n\n", cliui.ValueStyle.Render(utils.Truncate(snippet.Text, 160)))
	}
}
