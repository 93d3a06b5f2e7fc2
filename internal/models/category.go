// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is a node in the category forest. A nil ParentID marks a root.
// Categories are created at seed time and are read-only afterwards.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryPath is a category together with its root-to-leaf path.
type CategoryPath struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullPath string `json:"full_path"`
}

// TreeNode is the nested representation of a category and its descendants.
// PostCount is only set when counts were requested.
type TreeNode struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Children  []TreeNode `json:"children"`
	PostCount *int       `json:"post_count,omitempty"`
}
