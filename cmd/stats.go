package cmd

import (
	"github.com/spf13/cobra"

	"github.com/octosync/octosync/internal/config"
	"github.com/octosync/octosync/internal/domain"
	"github.com/octosync/octosync/internal/usecase"
)

// statsReport is the combined JSON document the stats command prints.
type statsReport struct {
	Repositories   *domain.OwnerReport       `json:"repositories"`
	CommitActivity *domain.CommitActivity    `json:"commit_activity"`
	IssuesPulls    *domain.IssuePullStats    `json:"issues_and_pull_requests"`
	Contributors   *domain.ContributorReport `json:"contributors"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Reports over the collected data and outputs as JSON",
	Long: `Builds the full analytical report for an owner from the data already
stored in MongoDB: repository totals, commit activity over a trailing
window, issue and pull request state breakdowns, and contributor
aggregates. The result is printed as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)
		cfg := config.Load()

		owner, _ := cmd.Flags().GetString("owner")
		if owner == "" {
			owner = cfg.Owner
		}
		days, _ := cmd.Flags().GetInt("days")

		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		analyzer := usecase.NewAnalyzer(store, logger)
		report := statsReport{}
		if report.Repositories, err = analyzer.OwnerReport(ctx, owner); err != nil {
			return err
		}
		if report.CommitActivity, err = analyzer.CommitActivity(ctx, owner, days); err != nil {
			return err
		}
		if report.IssuesPulls, err = analyzer.IssuePullStats(ctx, owner); err != nil {
			return err
		}
		if report.Contributors, err = analyzer.ContributorReport(ctx, owner); err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("owner", "o", "", "GitHub user or organization (default: GITHUB_OWNER)")
	statsCmd.Flags().Int("days", 30, "Trailing window for commit activity, in days")
}
