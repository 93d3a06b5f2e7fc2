// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ingest loads scraped posts from a CSV export into the post catalog.
// Ingestion is idempotent: rows whose Post ID is already stored are skipped,
// and new posts always start uncategorized.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"postcurator/internal/models"
)

// PostWriter inserts a post unless its external post id already exists.
type PostWriter interface {
	InsertIfAbsent(ctx context.Context, p *models.Post) (bool, error)
}

// Transactor runs fn as one atomic unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Recorder receives ingestion metrics.
type Recorder interface {
	ObserveIngest(inserted, skipped int)
}

// Result summarizes an ingestion run.
type Result struct {
	Read     int
	Inserted int
	Skipped  int
}

// Ingester writes CSV rows to the post catalog.
type Ingester struct {
	posts   PostWriter
	tx      Transactor
	metrics Recorder
}

// New creates an Ingester. metrics may be nil.
func New(posts PostWriter, tx Transactor, metrics Recorder) *Ingester {
	return &Ingester{posts: posts, tx: tx, metrics: metrics}
}

// File ingests the CSV file at path.
func (in *Ingester) File(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := in.Ingest(ctx, f)
	if err != nil {
		return res, fmt.Errorf("ingest %s: %w", path, err)
	}
	return res, nil
}

// Ingest reads every row of r in one transaction. Any bad row aborts the
// run and nothing is stored.
func (in *Ingester) Ingest(ctx context.Context, r io.Reader) (Result, error) {
	rd, err := NewReader(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = in.tx.WithinTx(ctx, func(ctx context.Context) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			p, err := rd.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			res.Read++

			inserted, err := in.posts.InsertIfAbsent(ctx, p)
			if err != nil {
				return fmt.Errorf("line %d: %w", rd.Line(), err)
			}
			if inserted {
				res.Inserted++
			} else {
				res.Skipped++
			}
		}
	})
	if err != nil {
		return Result{}, err
	}

	if in.metrics != nil {
		in.metrics.ObserveIngest(res.Inserted, res.Skipped)
	}
	slog.Info("ingestion complete", "read", res.Read, "inserted", res.Inserted, "skipped", res.Skipped)
	return res, nil
}
