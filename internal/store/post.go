// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"postcurator/internal/models"
)

// PostStore handles all post-related database operations. It performs no
// referential validation of its own; the curation service does that.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, post_id, user_handle, username, datetime, content,
	replies, reposts, likes, views, post_url, category_id`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p        models.Post
		category sql.NullInt64
	)
	err := scanner.Scan(
		&p.ID, &p.PostID, &p.UserHandle, &p.Username, &p.Datetime, &p.Content,
		&p.Replies, &p.Reposts, &p.Likes, &p.Views, &p.PostURL, &category,
	)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		p.CategoryID = &category.Int64
	}
	return &p, nil
}

// FindByID retrieves a post by its internal id. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// ListUncategorized returns every post without a category, ordered by id.
func (s *PostStore) ListUncategorized(ctx context.Context) ([]models.Post, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE category_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// SetCategory overwrites a post's category; nil clears it. It reports
// whether a post with that id existed.
func (s *PostStore) SetCategory(ctx context.Context, postID int64, categoryID *int64) (bool, error) {
	res, err := conn(ctx, s.db).ExecContext(ctx,
		`UPDATE posts SET category_id = $1 WHERE id = $2`, categoryID, postID)
	if err != nil {
		return false, fmt.Errorf("set post category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set post category rows: %w", err)
	}
	return n > 0, nil
}

// CountByCategory returns the number of posts per category id in a single
// grouped query. Uncategorized posts are not included.
func (s *PostStore) CountByCategory(ctx context.Context) (map[int64]int, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx, `
		SELECT category_id, COUNT(id)
		FROM posts
		WHERE category_id IS NOT NULL
		GROUP BY category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count posts by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan post count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// InsertIfAbsent stores a new uncategorized post unless one with the same
// external post_id exists. It reports whether a row was inserted.
func (s *PostStore) InsertIfAbsent(ctx context.Context, p *models.Post) (bool, error) {
	res, err := conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO posts (post_id, user_handle, username, datetime, content,
		                   replies, reposts, likes, views, post_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (post_id) DO NOTHING
	`, p.PostID, p.UserHandle, p.Username, p.Datetime, p.Content,
		p.Replies, p.Reposts, p.Likes, p.Views, p.PostURL,
	)
	if err != nil {
		return false, fmt.Errorf("insert post %q: %w", p.PostID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert post rows: %w", err)
	}
	return n > 0, nil
}

// Count returns the total number of posts.
func (s *PostStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := conn(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
