// Package main is the entry point for the curator. The serve command runs
// the HTTP API; the other commands maintain the database from the shell.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"postcurator/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Curate scraped posts into a category hierarchy",
	Long: `curator serves a small JSON API for drawing uncategorized posts,
browsing the category tree and assigning posts to categories. It also
migrates and seeds the database and ingests scraped post exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogger(cfg)
		appConfig = cfg
		return nil
	},
}

// appConfig is loaded once before any subcommand runs.
var appConfig *config.Config

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, ingestCmd, treeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the default structured logger: text at debug level
// in development, JSON at info level otherwise.
func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
