package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"postcurator/internal/curation"
	"postcurator/internal/database"
	"postcurator/internal/models"
	"postcurator/internal/store"
	"postcurator/internal/tree"
)

var treeCounts bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the category hierarchy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(appConfig.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		svc := curation.New(store.NewCategoryStore(db), store.NewPostStore(db), store.NewTxManager(db), nil, nil)
		forest, err := svc.CategoriesTree(cmd.Context(), treeCounts)
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), forest)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVarP(&treeCounts, "counts", "c", false, "show the number of posts in each category")
}

// printTree writes one indented line per category.
func printTree(w io.Writer, forest []models.TreeNode) {
	for _, n := range tree.Flatten(forest) {
		line := fmt.Sprintf("%s%s [%d]", strings.Repeat("  ", n.Depth), n.Name, n.ID)
		if n.PostCount != nil {
			line += fmt.Sprintf(" (%d)", *n.PostCount)
		}
		fmt.Fprintln(w, line)
	}
}
