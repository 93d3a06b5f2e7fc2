// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree derives the category hierarchy from the flat parent pointers
// held by the category store. An Index is built once per request from the
// store's listing and answers path and nesting queries without touching the
// database again.
package tree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"postcurator/internal/models"
)

// PathSeparator joins category names in a full path.
const PathSeparator = " → "

var (
	// ErrCycleDetected is returned when a parent chain revisits a category.
	ErrCycleDetected = errors.New("category hierarchy contains a cycle")

	// ErrUnknownCategory is returned for ids (or parent pointers) that do not
	// reference a category in the index.
	ErrUnknownCategory = errors.New("unknown category")
)

// Index is an immutable adjacency view over a category listing.
type Index struct {
	ordered  []models.Category
	byID     map[int64]int     // category id -> position in ordered
	children map[int64][]int64 // parent id -> child ids, in listing order
	roots    []int64
}

// New builds an Index from categories in the store's iteration order. The
// order is preserved for listings, roots and children.
func New(categories []models.Category) *Index {
	ix := &Index{
		ordered:  slices.Clone(categories),
		byID:     make(map[int64]int, len(categories)),
		children: make(map[int64][]int64),
	}
	for i, c := range ix.ordered {
		ix.byID[c.ID] = i
		if c.ParentID == nil {
			ix.roots = append(ix.roots, c.ID)
			continue
		}
		ix.children[*c.ParentID] = append(ix.children[*c.ParentID], c.ID)
	}
	return ix
}

// Len returns the number of categories in the index.
func (ix *Index) Len() int {
	return len(ix.ordered)
}

// Get returns the category with the given id.
func (ix *Index) Get(id int64) (models.Category, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return models.Category{}, false
	}
	return ix.ordered[i], true
}

// Roots returns the ids of categories without a parent.
func (ix *Index) Roots() []int64 {
	return slices.Clone(ix.roots)
}

// Children returns the ids of the direct children of id.
func (ix *Index) Children(id int64) []int64 {
	return slices.Clone(ix.children[id])
}

// FullPath walks from id up to its root and joins the names root first.
// A chain that revisits a category fails with ErrCycleDetected.
func (ix *Index) FullPath(id int64) (string, error) {
	var names []string
	seen := make(map[int64]struct{})

	cur := &id
	for cur != nil {
		if _, dup := seen[*cur]; dup {
			return "", fmt.Errorf("full path of %d: %w at %d", id, ErrCycleDetected, *cur)
		}
		seen[*cur] = struct{}{}

		c, ok := ix.Get(*cur)
		if !ok {
			return "", fmt.Errorf("full path of %d: %w %d", id, ErrUnknownCategory, *cur)
		}
		names = append(names, c.Name)
		cur = c.ParentID
	}

	slices.Reverse(names)
	return strings.Join(names, PathSeparator), nil
}

// Paths returns every category with its full path, in listing order.
func (ix *Index) Paths() ([]models.CategoryPath, error) {
	out := make([]models.CategoryPath, 0, len(ix.ordered))
	for _, c := range ix.ordered {
		p, err := ix.FullPath(c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.CategoryPath{ID: c.ID, Name: c.Name, FullPath: p})
	}
	return out, nil
}

// Forest nests every root with its descendants. When includeCounts is set
// each node carries counts[id], defaulting to zero.
//
// Categories caught in a parent cycle are unreachable from any root and are
// therefore absent from the result; FullPath is where a cycle surfaces.
func (ix *Index) Forest(includeCounts bool, counts map[int64]int) []models.TreeNode {
	out := make([]models.TreeNode, 0, len(ix.roots))
	for _, id := range ix.roots {
		out = append(out, ix.node(id, includeCounts, counts))
	}
	return out
}

// node renders id and its subtree. Each category has at most one parent, so
// a walk down from a root never meets the same node twice.
func (ix *Index) node(id int64, includeCounts bool, counts map[int64]int) models.TreeNode {
	c, _ := ix.Get(id)
	n := models.TreeNode{
		ID:       c.ID,
		Name:     c.Name,
		Children: make([]models.TreeNode, 0, len(ix.children[id])),
	}
	for _, child := range ix.children[id] {
		n.Children = append(n.Children, ix.node(child, includeCounts, counts))
	}
	if includeCounts {
		count := counts[id]
		n.PostCount = &count
	}
	return n
}

// Flatten walks a forest depth-first and returns the nodes in visit order
// with their depth. Used by the CLI to print the hierarchy.
func Flatten(forest []models.TreeNode) []FlatNode {
	var out []FlatNode
	flatten(forest, 0, &out)
	return out
}

// FlatNode is a TreeNode without children plus its nesting depth.
type FlatNode struct {
	ID        int64
	Name      string
	Depth     int
	PostCount *int
}

func flatten(nodes []models.TreeNode, depth int, out *[]FlatNode) {
	for _, n := range nodes {
		*out = append(*out, FlatNode{ID: n.ID, Name: n.Name, Depth: depth, PostCount: n.PostCount})
		if len(n.Children) > 0 {
			flatten(n.Children, depth+1, out)
		}
	}
}
