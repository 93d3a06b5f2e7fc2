// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package curation implements the operations a curator performs: drawing a
// random uncategorized post, browsing the category hierarchy and assigning
// posts to categories. It composes the category store, the post catalog and
// the tree builder, and is the only writer of a post's category.
package curation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/singleflight"

	"postcurator/internal/models"
	"postcurator/internal/tree"
)

var (
	// ErrPostNotFound is returned when a post id does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrCategoryNotFound is returned when a category id does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrNoUncategorized is returned when every post has a category.
	ErrNoUncategorized = errors.New("no uncategorized posts")
)

// CategoryStore is the read-only view of categories the service needs.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

// PostStore is the post catalog. Lookups return nil on a miss.
type PostStore interface {
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	ListUncategorized(ctx context.Context) ([]models.Post, error)
	SetCategory(ctx context.Context, postID int64, categoryID *int64) (bool, error)
	CountByCategory(ctx context.Context) (map[int64]int, error)
}

// Transactor runs fn as one atomic unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ViewCache stores serialized views. Implementations must tolerate their
// own failures; a failed Get is a miss.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// Recorder receives service metrics.
type Recorder interface {
	ObserveAssignment(result string)
	ObserveViewCache(view string, hit bool)
}

// Service groups the curation operations.
type Service struct {
	categories CategoryStore
	posts      PostStore
	tx         Transactor
	views      ViewCache
	metrics    Recorder

	group singleflight.Group

	// pick returns a uniform index in [0, n).
	pick func(n int) int
}

// New creates a Service. views and metrics may be nil.
func New(categories CategoryStore, posts PostStore, tx Transactor, views ViewCache, metrics Recorder) *Service {
	return &Service{
		categories: categories,
		posts:      posts,
		tx:         tx,
		views:      views,
		metrics:    metrics,
		pick:       rand.IntN,
	}
}

// RandomUncategorized returns one uncategorized post chosen uniformly at
// random, or ErrNoUncategorized when there is none.
func (s *Service) RandomUncategorized(ctx context.Context) (*models.Post, error) {
	posts, err := s.posts.ListUncategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("random uncategorized: %w", err)
	}
	if len(posts) == 0 {
		return nil, ErrNoUncategorized
	}
	p := posts[s.pick(len(posts))]
	return &p, nil
}

// index loads all categories and builds the adjacency index.
func (s *Service) index(ctx context.Context) (*tree.Index, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return tree.New(cats), nil
}

func (s *Service) observeAssignment(result string) {
	if s.metrics != nil {
		s.metrics.ObserveAssignment(result)
	}
}

func (s *Service) observeCache(view string, hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveViewCache(view, hit)
	}
}
