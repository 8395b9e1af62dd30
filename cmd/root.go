// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/octosync/octosync/internal/config"
	"github.com/octosync/octosync/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "octosync",
	Short: "Collects GitHub activity data into MongoDB and reports over it.",
	Long: `octosync syncs a GitHub user's or organization's repositories, commits,
contributors, pull requests, issues, and comments into MongoDB, and
answers analytical queries over the stored data.

Configuration comes from the environment (a .env file is honored):
GITHUB_TOKEN, GITHUB_OWNER, MONGODB_URI, DATABASE_NAME.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the logger the commands share. It writes to standard
// error so standard output stays valid JSON.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// openStore connects to MongoDB using the loaded configuration.
func openStore(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*storage.Store, error) {
	return storage.NewStore(ctx, cfg.MongoURI, cfg.DatabaseName, cfg.ConnectTimeout, logger)
}

// printJSON pretty-prints a result to standard output.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
