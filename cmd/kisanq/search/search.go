// Package searchcmder provides the search command for raw corpus retrieval.
package searchcmder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/pkg/cliui"
	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/logger"
	"github.com/openkisan/kisanq/pkg/rag"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
	"github.com/openkisan/kisanq/pkg/utils"
)

type searchCommander struct {
	query string
	top   int

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
}

const searchLongDesc string = `Search the advisory corpus by semantic similarity.

Unlike ask, no answer is generated and no relevance gate is applied:
the closest passages are printed with their similarity scores, which is
useful for inspecting what the index actually contains.

Examples:
  kisanq search "white fly on cotton"
  kisanq search "drip irrigation subsidy" --top 10`

const searchShortDesc string = "Search the advisory corpus"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
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

	cmd.Flags().IntVarP(&cmder.top, "top", "k", 5, "Number of passages to return")

	return cmd
}

func (c *searchCommander) run() error {
	if c.top <= 0 {
		return fmt.Errorf("top must be a positive integer, got %d", c.top)
	}

	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	ctx := context.Background()

	pipeline, err := ragutils.NewPipeline(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	passages, err := pipeline.Search(ctx, c.query, c.top)
	if err != nil {
		return err
	}

	if len(passages) == 0 {
		fmt.Println(cliui.DimStyle.Render("no passages found"))
		return nil
	}

	fmt.Printf("%s %q\n\n", cliui.KeyStyle.Render("results for"), c.query)
	for i, passage := range passages {
		printResult(i+1, passage)
	}

	return nil
}

func printResult(rank int, passage rag.Passage) {
	fmt.Printf("%s %s %s\n",
		cliui.DimStyle.Render(fmt.Sprintf("#%d", rank)),
		cliui.RenderQuality(passage.Score),
		cliui.DimStyle.Render(fmt.Sprintf("score: %.4f", passage.Score)),
	)

	if len(passage.Chunk.Metadata) > 0 {
		keys := make([]string, 0, len(passage.Chunk.Metadata))
		for key := range passage.Chunk.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := passage.Chunk.Metadata[key]
			if value == "" {
				continue
			}
			fmt.Printf("   %s %s\n", cliui.KeyStyle.Render(key+":"), cliui.ValueStyle.Render(value))
		}
	}

	fmt.Printf("   %s\n\n", utils.Truncate(passage.Chunk.Text, 200))
}
