// Package indexcmder provides the index command for building the vector index.
package indexcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/pkg/cliui"
	"github.com/openkisan/kisanq/pkg/config"
	embeddingutils "github.com/openkisan/kisanq/pkg/embeddings/utils"
	"github.com/openkisan/kisanq/pkg/ingest"
	"github.com/openkisan/kisanq/pkg/logger"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
	vectorutils "github.com/openkisan/kisanq/pkg/vector/utils"
)

type indexCommander struct {
	cfg    *config.Config
	debug  bool
	logger *slog.Logger
}

const indexLongDesc string = `Embed every stored document and rebuild the vector index.

Each document is embedded with the configured embedding model and
written to the configured vector store. Run this after ingest, or after
changing the embedding model.`

const indexShortDesc string = "Build the vector index from stored documents"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
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

func (c *indexCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	ctx := context.Background()

	docs, err := ragutils.NewDocStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer docs.Close()

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.cfg.Embedding.Provider,
		TargetURL:    c.cfg.Embedding.Target,
		Model:        c.cfg.Embedding.Model,
	})
	if err != nil {
		return err
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

	indexer := ingest.NewIndexer(docs, embedder, driver, c.logger)

	var stats ingest.IndexStats
	err = cliui.Step(os.Stderr, "building index", func() error {
		var indexErr error
		stats, indexErr = indexer.BuildIndex(ctx)
		return indexErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s indexed %s of %s documents\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Indexed)),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Chunks)),
	)

	return nil
}
