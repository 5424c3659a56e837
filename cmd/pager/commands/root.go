package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pager",
		Short:         "Paginated product listings over SQL, Elasticsearch, OpenSearch and Meilisearch",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		NewServeCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
