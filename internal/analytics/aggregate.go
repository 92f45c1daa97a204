// Package analytics reduces pages of posts into dashboard statistics.
// Every function is pure: inputs are never mutated and nothing is cached.
package analytics

import (
	"math"
	"sort"

	"BlogAnalytics/internal/domain"
)

const monthLayout = "2006-01"

// Thresholds split posts into performance buckets by view count.
type Thresholds struct {
	High int64 `yaml:"high"`
	Low  int64 `yaml:"low"`
}

// DefaultThresholds returns high > 500, medium 100..500, low < 100.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 500, Low: 100}
}

// AggregateByAuthor groups posts by exact author string, most prolific first.
func AggregateByAuthor(posts []domain.Post) []domain.AuthorStat {
	index := make(map[string]int)
	stats := make([]domain.AuthorStat, 0)

	for _, post := range posts {
		i, ok := index[post.Author]
		if !ok {
			i = len(stats)
			index[post.Author] = i
			stats = append(stats, domain.AuthorStat{Author: post.Author})
		}
		stats[i].Posts++
		stats[i].Views += post.ViewCount
		stats[i].Comments += post.CommentCount
	}

	for i := range stats {
		stats[i].AvgViews = roundRatio(stats[i].Views, stats[i].Posts)
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Posts > stats[b].Posts
	})
	return stats
}

// AggregateByTag credits each post to every tag it carries.
func AggregateByTag(posts []domain.Post) []domain.TagStat {
	index := make(map[string]int)
	stats := make([]domain.TagStat, 0)

	for _, post := range posts {
		for _, tag := range post.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(stats)
				index[tag] = i
				stats = append(stats, domain.TagStat{Tag: tag})
			}
			stats[i].Posts++
			stats[i].Views += post.ViewCount
			stats[i].Comments += post.CommentCount
		}
	}

	for i := range stats {
		stats[i].AvgViews = roundRatio(stats[i].Views, stats[i].Posts)
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Posts > stats[b].Posts
	})
	return stats
}

// AggregateByMonth buckets posts by the UTC month of createdAt, oldest first.
// Months without posts are not emitted.
func AggregateByMonth(posts []domain.Post) []domain.MonthlyBucket {
	index := make(map[string]int)
	buckets := make([]domain.MonthlyBucket, 0)

	for _, post := range posts {
		key := post.CreatedAt.UTC().Format(monthLayout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, domain.MonthlyBucket{Month: key})
		}
		buckets[i].Posts++
		buckets[i].Views += post.ViewCount
		buckets[i].Comments += post.CommentCount
	}

	sort.Slice(buckets, func(a, b int) bool {
		return buckets[a].Month < buckets[b].Month
	})
	return buckets
}

// ClassifyPerformance partitions posts into high, medium and low buckets, in that order.
func ClassifyPerformance(posts []domain.Post, th Thresholds) []domain.PerformanceBucket {
	var high, medium, low int64
	for _, post := range posts {
		switch {
		case post.ViewCount > th.High:
			high++
		case post.ViewCount < th.Low:
			low++
		default:
			medium++
		}
	}

	total := int64(len(posts))
	return []domain.PerformanceBucket{
		{Category: domain.PerformanceHigh, Count: high, Percentage: percent(high, total)},
		{Category: domain.PerformanceMedium, Count: medium, Percentage: percent(medium, total)},
		{Category: domain.PerformanceLow, Count: low, Percentage: percent(low, total)},
	}
}

// TopPosts returns the n most viewed posts. Ties keep input order.
func TopPosts(posts []domain.Post, n int) []domain.PostRanking {
	ordered := make([]domain.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].ViewCount > ordered[b].ViewCount
	})

	if n < 0 {
		n = 0
	}
	if n > len(ordered) {
		n = len(ordered)
	}

	rankings := make([]domain.PostRanking, 0, n)
	for _, post := range ordered[:n] {
		rankings = append(rankings, domain.PostRanking{
			ID:             post.ID,
			Title:          post.Title,
			Slug:           post.Slug,
			Views:          post.ViewCount,
			Comments:       post.CommentCount,
			EngagementRate: percent(post.CommentCount, post.ViewCount),
		})
	}
	return rankings
}

// Summarize computes the headline counters of posts.
func Summarize(posts []domain.Post) domain.Overview {
	var views, comments int64
	for _, post := range posts {
		views += post.ViewCount
		comments += post.CommentCount
	}
	return overview(int64(len(posts)), views, comments)
}

func overview(total, views, comments int64) domain.Overview {
	out := domain.Overview{
		TotalPosts:      total,
		TotalViews:      views,
		TotalComments:   comments,
		AvgViewsPerPost: roundRatio(views, total),
		EngagementRate:  roundTo(percent(comments, views), 2),
	}
	if total > 0 {
		out.AvgCommentsPerPost = roundTo(float64(comments)/float64(total), 1)
	}
	return out
}

func roundRatio(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return int64(math.Round(float64(num) / float64(den)))
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
