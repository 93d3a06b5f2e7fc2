// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP endpoints of the curator API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"postcurator/internal/curation"
	"postcurator/internal/middleware"
	"postcurator/internal/models"
)

// maxBodyBytes caps the size of a request body.
const maxBodyBytes = 1 << 20

// Curator is the set of curation operations the API exposes.
type Curator interface {
	RandomUncategorized(ctx context.Context) (*models.Post, error)
	CategoriesFlat(ctx context.Context) ([]models.CategoryPath, error)
	CategoriesTree(ctx context.Context, includeCounts bool) ([]models.TreeNode, error)
	Assign(ctx context.Context, postID int64, categoryID *int64) (curation.Assignment, error)
}

// API groups the curation endpoints.
type API struct {
	curator Curator
}

// NewAPI creates the API handlers over the given curator.
func NewAPI(curator Curator) *API {
	return &API{curator: curator}
}

// randomPostResponse is the subset of a post shown to a curator.
type randomPostResponse struct {
	ID       int64  `json:"id"`
	PostID   string `json:"post_id"`
	Content  string `json:"content"`
	Username string `json:"username"`
	PostURL  string `json:"post_url"`
}

// RandomUncategorized handles GET /random_uncategorized.
func (a *API) RandomUncategorized(w http.ResponseWriter, r *http.Request) {
	post, err := a.curator.RandomUncategorized(r.Context())
	if errors.Is(err, curation.ErrNoUncategorized) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No uncategorized posts found"})
		return
	}
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, randomPostResponse{
		ID:       post.ID,
		PostID:   post.PostID,
		Content:  post.Content,
		Username: post.Username,
		PostURL:  post.PostURL,
	})
}

// Categories handles GET /categories.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	paths, err := a.curator.CategoriesFlat(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if paths == nil {
		paths = []models.CategoryPath{}
	}
	writeJSON(w, http.StatusOK, paths)
}

// CategoriesTree handles GET /categories/json. Post counts are included
// only when show_counts is "true", case-insensitively.
func (a *API) CategoriesTree(w http.ResponseWriter, r *http.Request) {
	showCounts := strings.ToLower(r.URL.Query().Get("show_counts")) == "true"

	forest, err := a.curator.CategoriesTree(r.Context(), showCounts)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if forest == nil {
		forest = []models.TreeNode{}
	}
	writeJSON(w, http.StatusOK, forest)
}

// assignRequest is the body of POST /assign_category. A null or absent
// category_id clears the post's category.
type assignRequest struct {
	PostID     *int64 `json:"post_id" validate:"required"`
	CategoryID *int64 `json:"category_id"`
}

// AssignCategory handles POST /assign_category.
func (a *API) AssignCategory(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := validateAssign(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := a.curator.Assign(r.Context(), *req.PostID, req.CategoryID)
	switch {
	case errors.Is(err, curation.ErrPostNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("Post with ID %d not found", *req.PostID))
		return
	case errors.Is(err, curation.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("Category with ID %d not found", *req.CategoryID))
		return
	case err != nil:
		writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": res.Message()})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServerError logs err and answers 500 without leaking details.
func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}
