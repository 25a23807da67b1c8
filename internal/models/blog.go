package models

import (
	"time"
)

// BlogStatus is the publication state of a blog post
type BlogStatus string

const (
	BlogStatusPublished BlogStatus = "Published"
	BlogStatusDraft     BlogStatus = "Draft"
)

// ValidBlogStatuses defines allowed blog statuses
var ValidBlogStatuses = map[BlogStatus]bool{
	BlogStatusPublished: true,
	BlogStatusDraft:     true,
}

// Blog represents a blog post. Content is Markdown.
type Blog struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	Status    BlogStatus `json:"status"`
	ImageURL  string     `json:"imageUrl"`
	Date      string     `json:"date,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewBlog returns a blog post seeded with the form defaults
func NewBlog() *Blog {
	return &Blog{Author: "Admin", Status: BlogStatusDraft}
}

func (b *Blog) GetID() string       { return b.ID }
func (b *Blog) Collection() string  { return CollectionBlogs }
func (b *Blog) SetDate(t time.Time) { b.Date = t.Format(DisplayDateLayout) }
func (b *Blog) DisplayDate() string { return b.Date }
