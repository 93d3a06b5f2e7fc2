package main

import (
	"github.com/spf13/cobra"

	"postcurator/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(appConfig.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		return database.Migrate(db)
	},
}
