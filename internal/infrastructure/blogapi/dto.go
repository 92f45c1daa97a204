package blogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"BlogAnalytics/internal/domain"
)

// The backend serialises LocalDateTime without a zone; those values are read as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type timestamp struct {
	time.Time
	set bool
}

func (t *timestamp) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(raw, []byte("null")) {
		*t = timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = timestamp{}
		return nil
	}

	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	*t = timestamp{Time: parsed, set: true}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

type pageDTO[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func toPage[T, D any](dto pageDTO[D], convert func(D) (T, error)) (domain.Page[T], error) {
	if dto.TotalElements < 0 || dto.TotalPages < 0 || dto.Number < 0 {
		return domain.Page[T]{}, fmt.Errorf("%w: negative page metadata", domain.ErrMalformedRecord)
	}

	items := make([]T, 0, len(dto.Content))
	for i, raw := range dto.Content {
		item, err := convert(raw)
		if err != nil {
			return domain.Page[T]{}, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}

	return domain.Page[T]{
		Items:      items,
		TotalItems: dto.TotalElements,
		TotalPages: dto.TotalPages,
		PageIndex:  dto.Number,
		PageSize:   dto.Size,
	}, nil
}

type postDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	Summary      *string   `json:"summary"`
	Status       string    `json:"status"`
	Tags         []string  `json:"tags"`
	ViewCount    int64     `json:"viewCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    timestamp `json:"createdAt"`
	UpdatedAt    timestamp `json:"updatedAt"`
	PublishedAt  timestamp `json:"publishedAt"`
}

func (d postDTO) toDomain() (domain.Post, error) {
	status := domain.PostStatus(d.Status)
	switch {
	case !status.Valid():
		return domain.Post{}, fmt.Errorf("%w: post %d has status %q", domain.ErrMalformedRecord, d.ID, d.Status)
	case d.Slug == "":
		return domain.Post{}, fmt.Errorf("%w: post %d has no slug", domain.ErrMalformedRecord, d.ID)
	case d.ViewCount < 0 || d.CommentCount < 0:
		return domain.Post{}, fmt.Errorf("%w: post %d has negative counters", domain.ErrMalformedRecord, d.ID)
	case !d.CreatedAt.set:
		return domain.Post{}, fmt.Errorf("%w: post %d has no createdAt", domain.ErrMalformedRecord, d.ID)
	}

	post := domain.Post{
		ID:           d.ID,
		Title:        d.Title,
		Slug:         d.Slug,
		Content:      d.Content,
		Author:       d.Author,
		Status:       status,
		Tags:         d.Tags,
		ViewCount:    d.ViewCount,
		CommentCount: d.CommentCount,
		CreatedAt:    d.CreatedAt.Time,
		UpdatedAt:    d.UpdatedAt.Time,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if d.Summary != nil {
		post.Summary = *d.Summary
	}
	if d.PublishedAt.set {
		published := d.PublishedAt.Time
		post.PublishedAt = &published
	}
	return post, nil
}

type commentDTO struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail *string   `json:"authorEmail"`
	BlogPostID  int64     `json:"blogPostId"`
	CreatedAt   timestamp `json:"createdAt"`
}

func (d commentDTO) toDomain() (domain.Comment, error) {
	if !d.CreatedAt.set {
		return domain.Comment{}, fmt.Errorf("%w: comment %d has no createdAt", domain.ErrMalformedRecord, d.ID)
	}

	comment := domain.Comment{
		ID:         d.ID,
		Content:    d.Content,
		AuthorName: d.AuthorName,
		PostID:     d.BlogPostID,
		CreatedAt:  d.CreatedAt.Time,
	}
	if d.AuthorEmail != nil {
		comment.AuthorEmail = *d.AuthorEmail
	}
	return comment, nil
}

// errorDTO is the backend's error body.
type errorDTO struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
