package cmd

import (
	"github.com/spf13/cobra"

	"github.com/octosync/octosync/internal/config"
	"github.com/octosync/octosync/internal/usecase"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Lists the latest stored commits, issues, and pull requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)
		cfg := config.Load()

		owner, _ := cmd.Flags().GetString("owner")
		if owner == "" {
			owner = cfg.Owner
		}
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		analyzer := usecase.NewAnalyzer(store, logger)
		activity, err := analyzer.RecentActivity(ctx, owner, limit)
		if err != nil {
			return err
		}
		return printJSON(activity)
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().StringP("owner", "o", "", "GitHub user or organization (default: GITHUB_OWNER)")
	recentCmd.Flags().Int("limit", 50, "Maximum entries per category")
}
