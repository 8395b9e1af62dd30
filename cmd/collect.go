package cmd

import (
	"github.com/spf13/cobra"

	"github.com/octosync/octosync/internal/config"
	"github.com/octosync/octosync/internal/gateway"
	"github.com/octosync/octosync/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Syncs a GitHub owner's activity into MongoDB",
	Long: `Fetches every repository of the configured owner from the GitHub REST
API, along with its commits, contributors, pull requests, issues, and
(optionally) comments, and upserts everything into MongoDB. Re-running
updates existing documents in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)
		cfg := config.Load()
		if err := cfg.RequireToken(); err != nil {
			return err
		}

		owner, _ := cmd.Flags().GetString("owner")
		if owner == "" {
			owner = cfg.Owner
		}
		includeComments, _ := cmd.Flags().GetBool("comments")

		fetcher, err := gateway.NewGitHubGateway(cfg.GitHubToken, cfg.GitHubBaseURL, cfg.PerPage, logger)
		if err != nil {
			return err
		}
		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		collector := usecase.NewCollector(fetcher, store, logger)
		summary, err := collector.CollectOwner(ctx, owner, includeComments)
		if err != nil {
			return err
		}
		return printJSON(summary)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("owner", "o", "", "GitHub user or organization (default: GITHUB_OWNER)")
	collectCmd.Flags().Bool("comments", true, "Also collect issue and pull request comments")
}
