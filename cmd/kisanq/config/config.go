// Package configcmder provides the config command for managing persistent
// kisanq configuration stored in the .kisanq/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent kisanq configuration.

Configuration is stored as config.toml in the .kisanq/ directory and
provides default values for command flags. CLI flags always take
precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.sqlite_path, storage.postgres_url,
  api.listen,
  vector_store.provider, vector_store.path, vector_store.target,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  generation.provider, generation.target, generation.model,
  generation.timeout_seconds,
  retrieval.threshold, retrieval.top_k,
  websearch.provider, websearch.api_key, websearch.max_results,
  websearch.timeout_seconds,
  eventstream.enabled, eventstream.brokers, eventstream.topic

Use subcommands to get, set, or list configuration values:
  kisanq config set <key> <value>    Set a configuration value
  kisanq config get <key>            Get a configuration value
  kisanq config list                 List all configuration values

Examples:
  kisanq config set retrieval.threshold 0.6
  kisanq config set websearch.provider duckduckgo
  kisanq config get generation.model
  kisanq config list`

const configShortDesc string = "Manage persistent kisanq configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
