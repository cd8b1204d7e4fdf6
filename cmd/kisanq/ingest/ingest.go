// Package ingestcmder provides the ingest command for loading advisory CSVs.
package ingestcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkisan/kisanq/pkg/cliui"
	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/ingest"
	"github.com/openkisan/kisanq/pkg/logger"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
)

type ingestCommander struct {
	csvPath string

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
}

const ingestLongDesc string = `Load an advisory CSV into the document store.

The file must carry QueryText and KccAns columns; StateName,
DistrictName, Crop and QueryType columns are kept as metadata when
present. Rows with a blank question or answer are skipped. Run
kisanq index afterwards to make the new documents searchable.`

const ingestShortDesc string = "Load an advisory CSV into the document store"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <csv-file>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
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
			cmder.csvPath = args[0]

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

func (c *ingestCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	ctx := context.Background()

	file, err := os.Open(c.csvPath)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", c.csvPath, err)
	}
	defer file.Close()

	docs, err := ragutils.NewDocStore(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer docs.Close()

	ingestor := ingest.NewIngestor(docs, c.logger)

	var stats ingest.ParseStats
	err = cliui.Step(os.Stderr, fmt.Sprintf("ingesting %s", c.csvPath), func() error {
		var ingestErr error
		stats, ingestErr = ingestor.IngestCSV(ctx, file)
		return ingestErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s ingested %s documents",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.Rows)),
	)
	if stats.Skipped > 0 {
		fmt.Printf(" %s", cliui.DimStyle.Render(fmt.Sprintf("(%d rows skipped)", stats.Skipped)))
	}
	fmt.Println()

	return nil
}
