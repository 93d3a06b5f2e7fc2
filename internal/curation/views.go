package curation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"postcurator/internal/cache"
	"postcurator/internal/models"
)

// CategoriesFlat lists every category with its full path.
func (s *Service) CategoriesFlat(ctx context.Context) ([]models.CategoryPath, error) {
	return cachedView(ctx, s, cache.KeyCategoriesFlat, func(ctx context.Context) ([]models.CategoryPath, error) {
		ix, err := s.index(ctx)
		if err != nil {
			return nil, err
		}
		paths, err := ix.Paths()
		if err != nil {
			return nil, fmt.Errorf("categories flat: %w", err)
		}
		return paths, nil
	})
}

// CategoriesTree returns the category forest. With includeCounts each node
// carries the number of posts assigned directly to it.
// The counted tree is always built from the post catalog and never cached.
func (s *Service) CategoriesTree(ctx context.Context, includeCounts bool) ([]models.TreeNode, error) {
	if !includeCounts {
		return cachedView(ctx, s, cache.KeyCategoriesTree, func(ctx context.Context) ([]models.TreeNode, error) {
			ix, err := s.index(ctx)
			if err != nil {
				return nil, err
			}
			return ix.Forest(false, nil), nil
		})
	}

	counts, err := s.posts.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories tree: %w", err)
	}
	ix, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Forest(true, counts), nil
}

// cachedView serves key from the view cache, building and storing it on a
// miss. Concurrent misses for one key share a single build. Only views that
// depend on category data alone may go through here.
func cachedView[T any](ctx context.Context, s *Service, key string, build func(context.Context) (T, error)) (T, error) {
	var zero T

	if s.views != nil {
		if data, ok := s.views.Get(ctx, key); ok {
			var v T
			err := json.Unmarshal(data, &v)
			if err == nil {
				s.observeCache(key, true)
				return v, nil
			}
			slog.Warn("view cache decode error", "key", key, "error", err)
		}
		s.observeCache(key, false)
	}

	res, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiter, so it must outlive the first caller.
		bctx := context.WithoutCancel(ctx)

		v, err := build(bctx)
		if err != nil {
			return nil, err
		}

		if s.views != nil {
			if data, err := json.Marshal(v); err == nil {
				s.views.Set(bctx, key, data)
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}
