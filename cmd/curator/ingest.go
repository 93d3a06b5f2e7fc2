package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"postcurator/internal/database"
	"postcurator/internal/ingest"
	"postcurator/internal/metrics"
	"postcurator/internal/storage"
	"postcurator/internal/store"
)

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load scraped posts from a CSV export",
	Long: `Reads a CSV export with the columns "Post ID", "User Handle", "Username",
"Datetime", "Content", "Replies", "Reposts", "Likes", "Views" and "Post URL"
and stores every post whose Post ID is not known yet. New posts start
uncategorized. The file is loaded in one transaction.

The file may also be an s3://bucket/key location on the object storage
configured through S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "",
		"CSV export or s3://bucket/key to load (defaults to INGEST_FILE)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := ingestFile
	if path == "" {
		path = appConfig.IngestFile
	}

	db, err := database.Connect(appConfig.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	m := metrics.New()
	in := ingest.New(store.NewPostStore(db), store.NewTxManager(db), m)

	var res ingest.Result
	if storage.IsObjectURI(path) {
		res, err = ingestObject(cmd.Context(), in, path)
	} else {
		res, err = in.File(cmd.Context(), path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d rows read, %d inserted, %d already present\n",
		res.Read, res.Inserted, res.Skipped)

	if appConfig.PushgatewayURL != "" {
		if err := m.Push(cmd.Context(), appConfig.PushgatewayURL, "curator_ingest"); err != nil {
			slog.Warn("metrics not pushed", "error", err)
		}
	}
	return nil
}

// ingestObject streams an export from object storage.
func ingestObject(ctx context.Context, in *ingest.Ingester, location string) (ingest.Result, error) {
	client, err := storage.New(appConfig.S3Endpoint, appConfig.S3Region, appConfig.S3AccessKey, appConfig.S3SecretKey)
	if err != nil {
		return ingest.Result{}, err
	}
	if client == nil {
		return ingest.Result{}, fmt.Errorf("ingest %s: %w", location, storage.ErrNotConfigured)
	}
	slog.Info("reading export from object storage", "endpoint", client.Endpoint(), "location", location)

	body, err := client.OpenURI(ctx, location)
	if err != nil {
		return ingest.Result{}, err
	}
	defer body.Close()

	res, err := in.Ingest(ctx, body)
	if err != nil {
		return res, fmt.Errorf("ingest %s: %w", location, err)
	}
	return res, nil
}
