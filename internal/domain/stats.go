package domain

import "time"

// AuthorStat aggregates the posts sharing one author string.
type AuthorStat struct {
	Author   string `json:"author"`
	Posts    int64  `json:"posts"`
	Views    int64  `json:"views"`
	Comments int64  `json:"comments"`
	AvgViews int64  `json:"avgViews"`
}

// TagStat aggregates the posts carrying one tag.
type TagStat struct {
	Tag      string `json:"tag"`
	Posts    int64  `json:"posts"`
	Views    int64  `json:"views"`
	Comments int64  `json:"comments"`
	AvgViews int64  `json:"avgViews"`
}

// MonthlyBucket accumulates posts created in one calendar month (YYYY-MM, UTC).
type MonthlyBucket struct {
	Month    string `json:"month"`
	Posts    int64  `json:"posts"`
	Views    int64  `json:"views"`
	Comments int64  `json:"comments"`
}

// PerformanceCategory names a view-count bucket.
type PerformanceCategory string

const (
	PerformanceHigh   PerformanceCategory = "high"
	PerformanceMedium PerformanceCategory = "medium"
	PerformanceLow    PerformanceCategory = "low"
)

// PerformanceBucket is one slice of the view-count histogram.
type PerformanceBucket struct {
	Category   PerformanceCategory `json:"category"`
	Count      int64               `json:"count"`
	Percentage float64             `json:"percentage"`
}

// PostRanking is a post's position in a views leaderboard.
type PostRanking struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	Views          int64   `json:"views"`
	Comments       int64   `json:"comments"`
	EngagementRate float64 `json:"engagementRate"`
}

// Overview holds the headline counters of a post collection.
type Overview struct {
	TotalPosts         int64   `json:"totalPosts"`
	TotalViews         int64   `json:"totalViews"`
	TotalComments      int64   `json:"totalComments"`
	AvgViewsPerPost    int64   `json:"avgViewsPerPost"`
	AvgCommentsPerPost float64 `json:"avgCommentsPerPost"`
	EngagementRate     float64 `json:"engagementRate"`
}

// Report is the analytics dashboard payload.
type Report struct {
	Overview    Overview            `json:"overview"`
	TopPosts    []PostRanking       `json:"topPosts"`
	TopAuthors  []AuthorStat        `json:"topAuthors"`
	TopTags     []TagStat           `json:"topTags"`
	Monthly     []MonthlyBucket     `json:"monthly"`
	Performance []PerformanceBucket `json:"performance"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalPosts         int64        `json:"totalPosts"`
	PublishedPosts     int64        `json:"publishedPosts"`
	DraftPosts         int64        `json:"draftPosts"`
	TotalViews         int64        `json:"totalViews"`
	TotalComments      int64        `json:"totalComments"`
	AvgViewsPerPost    int64        `json:"avgViewsPerPost"`
	AvgCommentsPerPost float64      `json:"avgCommentsPerPost"`
	EngagementRate     float64      `json:"engagementRate"`
	TopAuthors         []AuthorStat `json:"topAuthors"`
	RecentPosts        []Post       `json:"recentPosts"`
}

// AuthorProfile is one entry of the authors directory.
type AuthorProfile struct {
	Name          string `json:"name"`
	PostCount     int64  `json:"postCount"`
	TotalViews    int64  `json:"totalViews"`
	TotalComments int64  `json:"totalComments"`
	RecentPosts   []Post `json:"recentPosts"`
}

// AuthorDetail summarises one author's page of posts.
type AuthorDetail struct {
	Author         string     `json:"author"`
	TotalPosts     int64      `json:"totalPosts"`
	TotalViews     int64      `json:"totalViews"`
	TotalComments  int64      `json:"totalComments"`
	FirstPostDate  *time.Time `json:"firstPostDate"`
	LatestPostDate *time.Time `json:"latestPostDate"`
}

// NamedCount pairs a name with an occurrence count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TagDetail summarises one tag's page of posts.
type TagDetail struct {
	Tag             string       `json:"tag"`
	TotalPosts      int64        `json:"totalPosts"`
	TotalViews      int64        `json:"totalViews"`
	TotalComments   int64        `json:"totalComments"`
	AvgViewsPerPost int64        `json:"avgViewsPerPost"`
	TopAuthors      []NamedCount `json:"topAuthors"`
	RelatedTags     []NamedCount `json:"relatedTags"`
}

// TagCloudEntry is a tag with its usage and a display size level (1..5).
type TagCloudEntry struct {
	Name          string `json:"name"`
	Count         int64  `json:"count"`
	TotalViews    int64  `json:"totalViews"`
	TotalComments int64  `json:"totalComments"`
	Level         int    `json:"level"`
}

// Snapshot is a persisted analytics report.
type Snapshot struct {
	ID      string    `json:"id"`
	TakenAt time.Time `json:"takenAt"`
	Report  Report    `json:"report"`
}

// ViewTotal returns the summed views of the author's posts.
func (s AuthorStat) ViewTotal() int64 { return s.Views }

// ViewTotal returns the summed views of the tag's posts.
func (s TagStat) ViewTotal() int64 { return s.Views }
