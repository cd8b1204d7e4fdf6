// Package statuscmder provides the status command for inspecting the local
// corpus and the configured providers.
package statuscmder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/pkg/cliui"
	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/logger"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
	vectorutils "github.com/openkisan/kisanq/pkg/vector/utils"
)

type statusCommander struct {
	cfg    *config.Config
	logger *slog.Logger
}

const statusLongDesc string = `Show the state of the local corpus.

Displays the configured storage, vector store, embedding, generation and
web search providers, together with the number of documents in the
document store and the number of entries in the vector index.

Examples:
  kisanq status`

const statusShortDesc string = "Show corpus and provider status"

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
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
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	return cmd
}

func (c *statusCommander) run() error {
	c.logger = logger.Nop()

	ctx := context.Background()

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("storage:    "),
		cliui.ValueStyle.Render(c.cfg.Storage.Provider),
	)
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("vector:     "),
		cliui.ValueStyle.Render(c.cfg.VectorStore.Provider),
	)
	fmt.Printf("  %s %s %s\n",
		cliui.KeyStyle.Render("embedding:  "),
		cliui.ValueStyle.Render(c.cfg.Embedding.Model),
		cliui.DimStyle.Render(fmt.Sprintf("(%s, %d dims)", c.cfg.Embedding.Provider, c.cfg.Embedding.Dimensions)),
	)
	fmt.Printf("  %s %s %s\n",
		cliui.KeyStyle.Render("generation: "),
		cliui.ValueStyle.Render(c.cfg.Generation.Model),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", c.cfg.Generation.Provider)),
	)
	keyState := "api key set"
	if c.cfg.WebSearch.APIKey == "" {
		keyState = "no api key"
	}
	fmt.Printf("  %s %s %s\n",
		cliui.KeyStyle.Render("websearch:  "),
		cliui.ValueStyle.Render(c.cfg.WebSearch.Provider),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", keyState)),
	)
	fmt.Printf("  %s %s %s\n\n",
		cliui.KeyStyle.Render("retrieval:  "),
		cliui.ValueStyle.Render(fmt.Sprintf("threshold %.2f", c.cfg.Retrieval.Threshold)),
		cliui.DimStyle.Render(fmt.Sprintf("(top %d)", c.cfg.Retrieval.TopK)),
	)

	docs, err := ragutils.NewDocStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer docs.Close()

	docCount, err := docs.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: c.cfg.VectorStore.Provider,
		Path:         c.cfg.VectorStore.Path,
		TargetURL:    c.cfg.VectorStore.Target,
		Dimensions:   c.cfg.Embedding.Dimensions,
		Logger:       c.logger,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	vecCount, err := driver.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting index entries: %w", err)
	}

	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("documents:  "),
		cliui.ValueStyle.Render(strconv.Itoa(docCount)),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("indexed:    "),
		cliui.ValueStyle.Render(strconv.Itoa(vecCount)),
	)

	if vecCount < docCount {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("index is behind the document store, run `kisanq index`"))
	}

	return nil
}
