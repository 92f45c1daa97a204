package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogAnalytics/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func samplePosts() []domain.Post {
	return []domain.Post{
		{ID: 1, Title: "Go generics", Slug: "go-generics", Author: "alice", Status: domain.StatusPublished, Tags: []string{"go", "lang"}, ViewCount: 600, CommentCount: 12, CreatedAt: day(2024, 1, 5)},
		{ID: 2, Title: "Rust traits", Slug: "rust-traits", Author: "bob", Status: domain.StatusPublished, Tags: []string{"rust", "lang"}, ViewCount: 300, CommentCount: 3, CreatedAt: day(2024, 2, 10)},
		{ID: 3, Title: "Go modules", Slug: "go-modules", Author: "alice", Status: domain.StatusDraft, Tags: []string{"go"}, ViewCount: 50, CommentCount: 0, CreatedAt: day(2024, 1, 20)},
		{ID: 4, Title: "Zig comptime", Slug: "zig-comptime", Author: "carol", Status: domain.StatusArchived, Tags: nil, ViewCount: 300, CommentCount: 9, CreatedAt: day(2023, 12, 31)},
		{ID: 5, Title: "Alice again", Slug: "alice-again", Author: "Alice", Status: domain.StatusPublished, Tags: []string{"misc"}, ViewCount: 0, CommentCount: 0, CreatedAt: day(2024, 2, 1)},
	}
}

func TestAggregateByAuthor(t *testing.T) {
	t.Parallel()

	stats := AggregateByAuthor(samplePosts())
	require.Len(t, stats, 4)

	assert.Equal(t, domain.AuthorStat{Author: "alice", Posts: 2, Views: 650, Comments: 12, AvgViews: 325}, stats[0])
	// ties keep first-encountered order; "Alice" is distinct from "alice"
	assert.Equal(t, []string{"alice", "bob", "carol", "Alice"}, authorNames(stats))

	var total int64
	for _, s := range stats {
		total += s.Posts
	}
	assert.EqualValues(t, len(samplePosts()), total)
}

func TestAggregateByAuthorDeterministic(t *testing.T) {
	t.Parallel()

	posts := samplePosts()
	assert.Equal(t, AggregateByAuthor(posts), AggregateByAuthor(posts))
	assert.Equal(t, samplePosts(), posts)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, AggregateByAuthor(nil))
	assert.Empty(t, AggregateByTag(nil))
	assert.Empty(t, AggregateByMonth(nil))
	assert.Empty(t, TopPosts(nil, 3))
	assert.Equal(t, domain.Overview{}, Summarize(nil))
}

func TestAggregateByTag(t *testing.T) {
	t.Parallel()

	posts := samplePosts()
	stats := AggregateByTag(posts)

	var credited, tagged int64
	for _, s := range stats {
		credited += s.Posts
	}
	for _, p := range posts {
		tagged += int64(len(p.Tags))
	}
	assert.Equal(t, tagged, credited)

	require.Len(t, stats, 4)
	assert.Equal(t, "go", stats[0].Tag)
	assert.Equal(t, "lang", stats[1].Tag)
	assert.EqualValues(t, 900, stats[1].Views)
	assert.EqualValues(t, 450, stats[1].AvgViews)
}

func TestAggregateByMonthUsesUTC(t *testing.T) {
	t.Parallel()

	east := time.FixedZone("UTC+3", 3*60*60)
	posts := []domain.Post{
		{ViewCount: 1, CreatedAt: time.Date(2024, 3, 1, 1, 0, 0, 0, east)},
		{ViewCount: 2, CreatedAt: day(2024, 1, 15)},
		{ViewCount: 4, CreatedAt: day(2024, 2, 3)},
	}

	buckets := AggregateByMonth(posts)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01", buckets[0].Month)
	assert.Equal(t, "2024-02", buckets[1].Month)
	assert.EqualValues(t, 2, buckets[1].Posts)
	assert.EqualValues(t, 5, buckets[1].Views)
}

func TestClassifyPerformance(t *testing.T) {
	t.Parallel()

	posts := []domain.Post{{ViewCount: 501}, {ViewCount: 500}, {ViewCount: 100}, {ViewCount: 99}}
	buckets := ClassifyPerformance(posts, DefaultThresholds())

	require.Len(t, buckets, 3)
	assert.Equal(t, domain.PerformanceHigh, buckets[0].Category)
	assert.Equal(t, domain.PerformanceMedium, buckets[1].Category)
	assert.Equal(t, domain.PerformanceLow, buckets[2].Category)
	assert.EqualValues(t, 1, buckets[0].Count)
	assert.EqualValues(t, 2, buckets[1].Count)
	assert.EqualValues(t, 1, buckets[2].Count)

	var sum float64
	for _, b := range buckets {
		sum += b.Percentage
	}
	assert.InDelta(t, 100, sum, 0.001)
}

func TestClassifyPerformanceEmpty(t *testing.T) {
	t.Parallel()

	buckets := ClassifyPerformance(nil, DefaultThresholds())
	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percentage)
	}
}

func TestTopPosts(t *testing.T) {
	t.Parallel()

	top := TopPosts(samplePosts(), 3)
	require.Len(t, top, 3)
	assert.EqualValues(t, 1, top[0].ID)
	// 2 and 4 tie on views and keep input order
	assert.EqualValues(t, 2, top[1].ID)
	assert.EqualValues(t, 4, top[2].ID)
	assert.InDelta(t, 2.0, top[0].EngagementRate, 1e-9)

	assert.Len(t, TopPosts(samplePosts(), 50), 5)
	assert.Empty(t, TopPosts(samplePosts(), -1))
}

func TestTopPostsZeroViews(t *testing.T) {
	t.Parallel()

	top := TopPosts([]domain.Post{{ViewCount: 0, CommentCount: 0}}, 1)
	require.Len(t, top, 1)
	assert.Zero(t, top[0].EngagementRate)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	o := Summarize(samplePosts())
	assert.EqualValues(t, 5, o.TotalPosts)
	assert.EqualValues(t, 1250, o.TotalViews)
	assert.EqualValues(t, 24, o.TotalComments)
	assert.EqualValues(t, 250, o.AvgViewsPerPost)
	assert.InDelta(t, 4.8, o.AvgCommentsPerPost, 1e-9)
	assert.InDelta(t, 1.92, o.EngagementRate, 1e-9)
}

func authorNames(stats []domain.AuthorStat) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.Author
	}
	return out
}
