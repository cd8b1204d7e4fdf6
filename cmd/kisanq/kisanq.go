// Package kisanqcmder
package kisanqcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/openkisan/kisanq/cmd/kisanq/ask"
	chatcmder "github.com/openkisan/kisanq/cmd/kisanq/chat"
	configcmder "github.com/openkisan/kisanq/cmd/kisanq/config"
	indexcmder "github.com/openkisan/kisanq/cmd/kisanq/index"
	ingestcmder "github.com/openkisan/kisanq/cmd/kisanq/ingest"
	searchcmder "github.com/openkisan/kisanq/cmd/kisanq/search"
	servecmder "github.com/openkisan/kisanq/cmd/kisanq/serve"
	statuscmder "github.com/openkisan/kisanq/cmd/kisanq/status"
	versioncmder "github.com/openkisan/kisanq/cmd/version"
)

const kisanqLongDesc string = `KisanQ answers farmers' questions from the Kisan Call Center
advisory corpus, falling back to web search when the corpus has
nothing relevant.

Get started:
  kisanq ingest <csv>   Load advisory records into the document store
  kisanq index          Build the vector index over stored records
  kisanq ask <query>    Answer a question
  kisanq chat           Interactive question loop
  kisanq serve          Run the HTTP API and MCP server`

const kisanqShortDesc string = "KisanQ - Agricultural Advisory Q&A"

func NewKisanqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kisanq",
		Short: kisanqShortDesc,
		Long:  kisanqLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: ./.kisanq or ~/.kisanq)")

	// Add subcommands
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
