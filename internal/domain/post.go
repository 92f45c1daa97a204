package domain

import "time"

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
	StatusArchived  PostStatus = "ARCHIVED"
)

// Valid reports whether s belongs to the closed status set.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// Post is a blog article as returned by the backend API.
type Post struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Content      string     `json:"content"`
	Author       string     `json:"author"`
	Summary      string     `json:"summary,omitempty"`
	Status       PostStatus `json:"status"`
	Tags         []string   `json:"tags"`
	ViewCount    int64      `json:"viewCount"`
	CommentCount int64      `json:"commentCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	PostID      int64     `json:"blogPostId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Page is one slice of a server-side paginated collection.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	PageIndex  int   `json:"pageIndex"`
	PageSize   int   `json:"pageSize"`
}

// Last reports whether no page follows this one.
func (p Page[T]) Last() bool {
	return p.PageIndex >= p.TotalPages-1
}

// PageRequest selects a page; Page is zero-based.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Author  string     `json:"author"`
	Summary string     `json:"summary,omitempty"`
	Status  PostStatus `json:"status"`
	Tags    []string   `json:"tags"`
}

// CommentInput carries the fields of a new or edited comment.
type CommentInput struct {
	Content     string `json:"content"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail,omitempty"`
}
