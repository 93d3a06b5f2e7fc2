package database

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultCategories []byte

// SeedNode is one entry of a category seed file.
type SeedNode struct {
	Name     string     `yaml:"name"`
	Children []SeedNode `yaml:"children"`
}

type seedFile struct {
	Categories []SeedNode `yaml:"categories"`
}

// LoadCategoryTree reads a category seed file. An empty path selects the
// embedded default tree.
func LoadCategoryTree(path string) ([]SeedNode, error) {
	if path == "" {
		return ParseCategoryTree(bytes.NewReader(defaultCategories))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open category file: %w", err)
	}
	defer f.Close()
	return ParseCategoryTree(f)
}

// ParseCategoryTree decodes a YAML category tree and rejects blank names.
func ParseCategoryTree(r io.Reader) ([]SeedNode, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode category file: %w", err)
	}
	if err := validateSeed(f.Categories, ""); err != nil {
		return nil, err
	}
	return f.Categories, nil
}

func validateSeed(nodes []SeedNode, parent string) error {
	for i, n := range nodes {
		if strings.TrimSpace(n.Name) == "" {
			if parent == "" {
				return fmt.Errorf("category file: root entry %d has an empty name", i)
			}
			return fmt.Errorf("category file: child %d of %q has an empty name", i, parent)
		}
		if err := validateSeed(n.Children, n.Name); err != nil {
			return err
		}
	}
	return nil
}

// SeedCategories inserts the given tree when the categories table is empty.
// The whole tree is written in one transaction. It returns the number of
// categories created.
func SeedCategories(ctx context.Context, db *sql.DB, nodes []SeedNode) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return 0, fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("categories already seeded, skipping", "existing", count)
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	created, err := insertSeed(ctx, tx, nodes, nil)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with categories", "created", created)
	return created, nil
}

func insertSeed(ctx context.Context, tx *sql.Tx, nodes []SeedNode, parentID *int64) (int, error) {
	created := 0
	for _, n := range nodes {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`,
			strings.TrimSpace(n.Name), parentID,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("seed insert category %q: %w", n.Name, err)
		}
		created++

		sub, err := insertSeed(ctx, tx, n.Children, &id)
		if err != nil {
			return 0, err
		}
		created += sub
	}
	return created, nil
}
