package cmd

import (
	"github.com/spf13/cobra"

	"github.com/octosync/octosync/internal/config"
	"github.com/octosync/octosync/internal/usecase"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches stored repositories by name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)
		cfg := config.Load()

		owner, _ := cmd.Flags().GetString("owner")

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		analyzer := usecase.NewAnalyzer(store, logger)
		results, err := analyzer.SearchRepositories(ctx, args[0], owner)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("owner", "o", "", "Restrict the search to one owner")
}
