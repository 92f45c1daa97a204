package analytics

import (
	"sort"
	"strings"

	"BlogAnalytics/internal/domain"
)

// TagCloudSort selects the ordering of a tag cloud.
type TagCloudSort string

const (
	SortByCount TagCloudSort = "count"
	SortByViews TagCloudSort = "views"
	SortByName  TagCloudSort = "name"
)

// TagCloud counts posts per catalogued tag. Tags missing from the catalog are
// ignored and catalogued tags without posts are dropped. Entries keep catalog order.
func TagCloud(catalog []string, posts []domain.Post) []domain.TagCloudEntry {
	index := make(map[string]int, len(catalog))
	entries := make([]domain.TagCloudEntry, 0, len(catalog))
	for _, tag := range catalog {
		if _, ok := index[tag]; ok {
			continue
		}
		index[tag] = len(entries)
		entries = append(entries, domain.TagCloudEntry{Name: tag})
	}

	for _, post := range posts {
		for _, tag := range post.Tags {
			i, ok := index[tag]
			if !ok {
				continue
			}
			entries[i].Count++
			entries[i].TotalViews += post.ViewCount
			entries[i].TotalComments += post.CommentCount
		}
	}

	used := entries[:0]
	for _, e := range entries {
		if e.Count > 0 {
			used = append(used, e)
		}
	}

	if len(used) == 0 {
		return used
	}

	lo, hi := used[0].Count, used[0].Count
	for _, e := range used[1:] {
		lo = min(lo, e.Count)
		hi = max(hi, e.Count)
	}
	spread := hi - lo
	if spread == 0 {
		spread = 1
	}
	for i := range used {
		used[i].Level = sizeLevel(float64(used[i].Count-lo) / float64(spread))
	}
	return used
}

func sizeLevel(normalized float64) int {
	switch {
	case normalized > 0.8:
		return 5
	case normalized > 0.6:
		return 4
	case normalized > 0.4:
		return 3
	case normalized > 0.2:
		return 2
	default:
		return 1
	}
}

// SortTagCloud returns a sorted copy of entries. Unknown orderings sort by count.
func SortTagCloud(entries []domain.TagCloudEntry, by TagCloudSort) []domain.TagCloudEntry {
	sorted := make([]domain.TagCloudEntry, len(entries))
	copy(sorted, entries)

	var less func(a, b domain.TagCloudEntry) bool
	switch by {
	case SortByName:
		less = func(a, b domain.TagCloudEntry) bool { return a.Name < b.Name }
	case SortByViews:
		less = func(a, b domain.TagCloudEntry) bool { return a.TotalViews > b.TotalViews }
	default:
		less = func(a, b domain.TagCloudEntry) bool { return a.Count > b.Count }
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// FilterTagCloud keeps entries whose name contains query, ignoring case.
func FilterTagCloud(entries []domain.TagCloudEntry, query string) []domain.TagCloudEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	out := make([]domain.TagCloudEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), query) {
			out = append(out, e)
		}
	}
	return out
}
