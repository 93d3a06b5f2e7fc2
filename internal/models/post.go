// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Post is a scraped social-media post. Everything except CategoryID is
// immutable after ingestion; a nil CategoryID means the post is uncategorized.
type Post struct {
	ID         int64  `json:"id"`
	PostID     string `json:"post_id"`
	UserHandle string `json:"user_handle"`
	Username   string `json:"username"`
	Datetime   string `json:"datetime"`
	Content    string `json:"content"`
	Replies    int    `json:"replies"`
	Reposts    int    `json:"reposts"`
	Likes      int    `json:"likes"`
	Views      int    `json:"views"`
	PostURL    string `json:"post_url"`
	CategoryID *int64 `json:"category_id"`
}

// IsCategorized reports whether the post has been assigned a category.
func (p *Post) IsCategorized() bool {
	return p.CategoryID != nil
}
