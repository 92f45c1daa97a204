package analytics

import (
	"sort"

	"BlogAnalytics/internal/domain"
)

// ReportOptions bounds the leaderboards of a report. Zero values select defaults.
type ReportOptions struct {
	TopPosts   int
	TopAuthors int
	TopTags    int
	Thresholds Thresholds
}

const (
	defaultTopPosts     = 5
	defaultTopAuthors   = 5
	defaultTopTags      = 8
	defaultRecentPosts  = 5
	defaultAuthorRecent = 3
)

func (o ReportOptions) withDefaults() ReportOptions {
	if o.TopPosts <= 0 {
		o.TopPosts = defaultTopPosts
	}
	if o.TopAuthors <= 0 {
		o.TopAuthors = defaultTopAuthors
	}
	if o.TopTags <= 0 {
		o.TopTags = defaultTopTags
	}
	if o.Thresholds == (Thresholds{}) {
		o.Thresholds = DefaultThresholds()
	}
	return o
}

// Viewed is implemented by stats that carry a view total.
type Viewed interface {
	ViewTotal() int64
}

// RankByViews returns a copy of stats ordered by views descending. Ties keep input order.
func RankByViews[S ~[]E, E Viewed](stats S) S {
	ranked := make(S, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].ViewTotal() > ranked[b].ViewTotal()
	})
	return ranked
}

// BuildReport assembles the analytics dashboard from a sample of posts.
func BuildReport(posts []domain.Post, opts ReportOptions) domain.Report {
	opts = opts.withDefaults()

	return domain.Report{
		Overview:    Summarize(posts),
		TopPosts:    TopPosts(posts, opts.TopPosts),
		TopAuthors:  head(RankByViews(AggregateByAuthor(posts)), opts.TopAuthors),
		TopTags:     head(RankByViews(AggregateByTag(posts)), opts.TopTags),
		Monthly:     AggregateByMonth(posts),
		Performance: ClassifyPerformance(posts, opts.Thresholds),
	}
}

// BuildAdminStats assembles the admin dashboard. Totals come from the page
// metadata and drafts from the full sample. Views and comments are summed over
// the published sample and averaged per published post.
func BuildAdminStats(all, published domain.Page[domain.Post], topAuthors int) domain.AdminStats {
	if topAuthors <= 0 {
		topAuthors = defaultTopAuthors
	}

	var drafts int64
	for _, post := range all.Items {
		if post.Status == domain.StatusDraft {
			drafts++
		}
	}

	summed := Summarize(published.Items)
	sample := overview(published.TotalItems, summed.TotalViews, summed.TotalComments)

	return domain.AdminStats{
		TotalPosts:         all.TotalItems,
		PublishedPosts:     published.TotalItems,
		DraftPosts:         drafts,
		TotalViews:         sample.TotalViews,
		TotalComments:      sample.TotalComments,
		AvgViewsPerPost:    sample.AvgViewsPerPost,
		AvgCommentsPerPost: sample.AvgCommentsPerPost,
		EngagementRate:     sample.EngagementRate,
		TopAuthors:         head(AggregateByAuthor(published.Items), topAuthors),
		RecentPosts:        mostRecent(all.Items, defaultRecentPosts),
	}
}

func mostRecent(posts []domain.Post, n int) []domain.Post {
	ordered := make([]domain.Post, len(posts))
	copy(ordered, posts)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].CreatedAt.After(ordered[b].CreatedAt)
	})
	return head(ordered, n)
}

func head[S ~[]E, E any](s S, n int) S {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
