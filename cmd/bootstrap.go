package cmd

import (
	"github.com/spf13/cobra"

	"github.com/octosync/octosync/internal/config"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Creates the MongoDB collections and indexes",
	Long: `Creates the six collections (repositories, commits, contributors,
pull_requests, issues, comments) in the configured database and builds
their indexes. Collections that already exist are left untouched, so
re-running against a populated database is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)
		cfg := config.Load()

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		if err := store.EnsureCollections(ctx); err != nil {
			return err
		}
		return store.EnsureIndexes(ctx)
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
