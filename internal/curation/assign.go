package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"postcurator/internal/metrics"
)

// Assignment confirms a completed assignment.
type Assignment struct {
	PostID     int64
	CategoryID *int64
}

// Message describes the assignment for API responses.
func (a Assignment) Message() string {
	if a.CategoryID == nil {
		return fmt.Sprintf("Post %d is now uncategorized", a.PostID)
	}
	return fmt.Sprintf("Post %d assigned to category %d", a.PostID, *a.CategoryID)
}

// Assign sets the category of a post, or clears it when categoryID is nil.
// Validation and the write happen in one transaction: either the post and
// category both exist and the change commits, or nothing changes.
func (s *Service) Assign(ctx context.Context, postID int64, categoryID *int64) (Assignment, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.posts.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return fmt.Errorf("%w: %d", ErrPostNotFound, postID)
		}

		if categoryID != nil {
			cat, err := s.categories.FindByID(ctx, *categoryID)
			if err != nil {
				return err
			}
			if cat == nil {
				return fmt.Errorf("%w: %d", ErrCategoryNotFound, *categoryID)
			}
		}

		ok, err := s.posts.SetCategory(ctx, postID, categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrPostNotFound, postID)
		}
		return nil
	})

	switch {
	case errors.Is(err, ErrPostNotFound):
		s.observeAssignment(metrics.AssignmentPostNotFound)
		return Assignment{}, err
	case errors.Is(err, ErrCategoryNotFound):
		s.observeAssignment(metrics.AssignmentCategoryNotFound)
		return Assignment{}, err
	case err != nil:
		s.observeAssignment(metrics.AssignmentError)
		return Assignment{}, fmt.Errorf("assign post %d: %w", postID, err)
	}

	if categoryID == nil {
		s.observeAssignment(metrics.AssignmentCleared)
		slog.Info("post category cleared", "post_id", postID)
	} else {
		s.observeAssignment(metrics.AssignmentAssigned)
		slog.Info("post category assigned", "post_id", postID, "category_id", *categoryID)
	}

	return Assignment{PostID: postID, CategoryID: categoryID}, nil
}
