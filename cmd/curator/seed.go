package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"postcurator/internal/cache"
	"postcurator/internal/database"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the category tree into an empty database",
	Long: `Loads a category tree from a YAML file (or the built-in default) and
inserts it when the categories table is empty. Cached category views are
cleared afterwards when Valkey is reachable.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "",
		"YAML category tree (defaults to CATEGORIES_FILE, then the built-in tree)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	path := seedFile
	if path == "" {
		path = appConfig.CategoriesFile
	}

	nodes, err := database.LoadCategoryTree(path)
	if err != nil {
		return err
	}

	db, err := database.Connect(appConfig.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	created, err := database.SeedCategories(cmd.Context(), db, nodes)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d categories created\n", created)

	if created == 0 {
		return nil
	}
	client, err := cache.ConnectValkey(appConfig.ValkeyHost, appConfig.ValkeyPort, appConfig.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, cached views not cleared", "error", err)
		return nil
	}
	defer client.Close()
	resetViews(cmd.Context(), created, cache.NewViewCache(client, appConfig.CacheTTL))
	return nil
}

// viewResetter drops every cached category view.
type viewResetter interface {
	InvalidateAll(ctx context.Context)
}

// resetViews clears cached views once a seed created categories, since views
// cached for an earlier category table no longer apply.
func resetViews(ctx context.Context, created int, views viewResetter) {
	if created > 0 && views != nil {
		views.InvalidateAll(ctx)
	}
}
