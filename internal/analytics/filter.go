package analytics

import (
	"sort"
	"strings"

	"BlogAnalytics/internal/domain"
)

// StatusAll disables status filtering.
const StatusAll = "ALL"

// PostFilter narrows a page of posts for the management view.
type PostFilter struct {
	Query  string
	Status string
	Author string
}

// FilterPosts keeps posts matching every non-empty criterion of f.
func FilterPosts(posts []domain.Post, f PostFilter) []domain.Post {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	author := strings.ToLower(strings.TrimSpace(f.Author))
	status := strings.ToUpper(strings.TrimSpace(f.Status))

	out := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		if query != "" &&
			!strings.Contains(strings.ToLower(post.Title), query) &&
			!strings.Contains(strings.ToLower(post.Content), query) &&
			!strings.Contains(strings.ToLower(post.Author), query) {
			continue
		}
		if status != "" && status != StatusAll && string(post.Status) != status {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(post.Author), author) {
			continue
		}
		out = append(out, post)
	}
	return out
}

// UniqueAuthors lists the distinct authors of posts in ascending order.
func UniqueAuthors(posts []domain.Post) []string {
	seen := make(map[string]struct{})
	authors := make([]string, 0)
	for _, post := range posts {
		if _, ok := seen[post.Author]; ok {
			continue
		}
		seen[post.Author] = struct{}{}
		authors = append(authors, post.Author)
	}
	sort.Strings(authors)
	return authors
}
