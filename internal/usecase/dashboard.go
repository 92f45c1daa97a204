package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"BlogAnalytics/internal/analytics"
	"BlogAnalytics/internal/content"
	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/pagination"
)

const (
	detailPageSize  = 12
	commentPageSize = 10
	defaultSortBy   = "createdAt"
	defaultSortDir  = "desc"
)

var managedStatuses = []domain.PostStatus{domain.StatusDraft, domain.StatusPublished, domain.StatusArchived}

// DashboardConfig bounds the samples the dashboards reduce.
type DashboardConfig struct {
	SampleSize      int
	FetchPageSize   int
	AdminSampleSize int
	MaxVisiblePages int
	Report          analytics.ReportOptions
}

func (c DashboardConfig) withDefaults() DashboardConfig {
	if c.SampleSize <= 0 {
		c.SampleSize = 1000
	}
	if c.FetchPageSize <= 0 {
		c.FetchPageSize = c.SampleSize
	}
	if c.AdminSampleSize <= 0 {
		c.AdminSampleSize = 100
	}
	if c.MaxVisiblePages <= 0 {
		c.MaxVisiblePages = 5
	}
	return c
}

// PostCard is a post with its list excerpt.
type PostCard struct {
	domain.Post
	Excerpt string `json:"excerpt"`
}

// PostList is one page of cards with its pagination control.
type PostList struct {
	Posts      []PostCard        `json:"posts"`
	TotalItems int64             `json:"totalItems"`
	Window     pagination.Window `json:"pagination"`
}

// ManagedPosts is the management view: a filtered page plus the author filter
// options and the number of posts per status.
type ManagedPosts struct {
	PostList
	Authors      []string                    `json:"authors"`
	StatusCounts map[domain.PostStatus]int64 `json:"statusCounts"`
}

// AuthorView is an author's page of posts with totals.
type AuthorView struct {
	Detail domain.AuthorDetail `json:"stats"`
	PostList
}

// TagView is a tag's page of posts with totals.
type TagView struct {
	Detail domain.TagDetail `json:"stats"`
	PostList
}

// PostView is a rendered post with one page of comments.
type PostView struct {
	Post         domain.Post                 `json:"post"`
	HTML         string                      `json:"html"`
	CommentCount int64                       `json:"commentCount"`
	Comments     domain.Page[domain.Comment] `json:"comments"`
	Window       pagination.Window           `json:"commentPagination"`
}

// Dashboard answers the read-side views from cached backend pages.
type Dashboard struct {
	blog   *BlogService
	cfg    DashboardConfig
	logger *slog.Logger
}

// NewDashboard wires the blog service with dashboard limits.
func NewDashboard(blog *BlogService, cfg DashboardConfig, logger *slog.Logger) *Dashboard {
	return &Dashboard{blog: blog, cfg: cfg.withDefaults(), logger: logger}
}

// Report builds the analytics report over the published sample.
func (d *Dashboard) Report(ctx context.Context) (domain.Report, error) {
	sample, err := d.publishedSample(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("analytics report: %w", err)
	}
	return analytics.BuildReport(sample.Items, d.cfg.Report), nil
}

// AdminStats fetches the newest posts and the published posts in parallel and summarises them.
func (d *Dashboard) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	var all, published domain.Page[domain.Post]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = d.blog.Posts(gctx, domain.PageRequest{Size: d.cfg.AdminSampleSize, SortBy: defaultSortBy, SortDir: defaultSortDir})
		return err
	})
	g.Go(func() error {
		var err error
		published, err = d.blog.Published(gctx, domain.PageRequest{Size: d.cfg.AdminSampleSize})
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}

	return analytics.BuildAdminStats(all, published, d.cfg.Report.TopAuthors), nil
}

// Authors lists author profiles over the published sample, filtered by name.
func (d *Dashboard) Authors(ctx context.Context, query string) ([]domain.AuthorProfile, error) {
	sample, err := d.publishedSample(ctx)
	if err != nil {
		return nil, fmt.Errorf("authors: %w", err)
	}
	return analytics.FilterProfiles(analytics.AuthorProfiles(sample.Items), query), nil
}

// Author returns one page of an author's posts with totals.
func (d *Dashboard) Author(ctx context.Context, author string, page int) (AuthorView, error) {
	posts, err := d.blog.ByAuthor(ctx, author, domain.PageRequest{Page: page, Size: detailPageSize})
	if err != nil {
		return AuthorView{}, fmt.Errorf("author %q: %w", author, err)
	}
	return AuthorView{
		Detail:   analytics.DescribeAuthor(author, posts),
		PostList: d.postList(posts, content.CardExcerpt),
	}, nil
}

// TagCloud counts catalogued tags over the published sample.
func (d *Dashboard) TagCloud(ctx context.Context, query string, by analytics.TagCloudSort) ([]domain.TagCloudEntry, error) {
	var tags []string
	var sample domain.Page[domain.Post]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tags, err = d.blog.Tags(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sample, err = d.publishedSample(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tag cloud: %w", err)
	}

	cloud := analytics.TagCloud(tags, sample.Items)
	return analytics.SortTagCloud(analytics.FilterTagCloud(cloud, query), by), nil
}

// Tag returns one page of a tag's posts with totals.
func (d *Dashboard) Tag(ctx context.Context, tag string, page int) (TagView, error) {
	posts, err := d.blog.ByTags(ctx, []string{tag}, domain.PageRequest{Page: page, Size: detailPageSize})
	if err != nil {
		return TagView{}, fmt.Errorf("tag %q: %w", tag, err)
	}
	return TagView{
		Detail:   analytics.DescribeTag(tag, posts),
		PostList: d.postList(posts, content.CardExcerpt),
	}, nil
}

// ManagePosts returns one page of posts narrowed by filter. A single status is
// queried from the backend; the text and author filters apply to the fetched
// page only, so pagination follows the backend page.
func (d *Dashboard) ManagePosts(ctx context.Context, req domain.PageRequest, filter analytics.PostFilter) (ManagedPosts, error) {
	if req.SortBy == "" {
		req.SortBy = defaultSortBy
	}
	if req.SortDir == "" {
		req.SortDir = defaultSortDir
	}

	var posts domain.Page[domain.Post]
	counts := make(map[domain.PostStatus]int64, len(managedStatuses))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if status := domain.PostStatus(filter.Status); status.Valid() {
			posts, err = d.blog.ByStatus(gctx, status, req)
		} else {
			posts, err = d.blog.Posts(gctx, req)
		}
		return err
	})
	for _, status := range managedStatuses {
		status := status
		g.Go(func() error {
			n, err := d.blog.CountPosts(gctx, status)
			if err != nil {
				return err
			}
			mu.Lock()
			counts[status] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ManagedPosts{}, fmt.Errorf("manage posts: %w", err)
	}

	filtered := posts
	filtered.Items = analytics.FilterPosts(posts.Items, filter)

	return ManagedPosts{
		PostList:     d.postList(filtered, content.CompactExcerpt),
		Authors:      analytics.UniqueAuthors(posts.Items),
		StatusCounts: counts,
	}, nil
}

// Search returns a page of posts matching keyword.
func (d *Dashboard) Search(ctx context.Context, keyword string, req domain.PageRequest) (PostList, error) {
	posts, err := d.blog.Search(ctx, keyword, req)
	if err != nil {
		return PostList{}, fmt.Errorf("search %q: %w", keyword, err)
	}
	return d.postList(posts, content.CardExcerpt), nil
}

// Post renders the post behind slug with one page of its comments.
func (d *Dashboard) Post(ctx context.Context, slug string, commentPage int) (PostView, error) {
	post, err := d.blog.PostBySlug(ctx, slug)
	if err != nil {
		return PostView{}, fmt.Errorf("post %q: %w", slug, err)
	}
	return d.postView(ctx, post, commentPage)
}

// PostByID renders post id with one page of its comments.
func (d *Dashboard) PostByID(ctx context.Context, id int64, commentPage int) (PostView, error) {
	post, err := d.blog.Post(ctx, id)
	if err != nil {
		return PostView{}, fmt.Errorf("post %d: %w", id, err)
	}
	return d.postView(ctx, post, commentPage)
}

func (d *Dashboard) postView(ctx context.Context, post domain.Post, commentPage int) (PostView, error) {
	var comments domain.Page[domain.Comment]
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = d.blog.Comments(gctx, post.ID, domain.PageRequest{Page: commentPage, Size: commentPageSize})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = d.blog.CommentCount(gctx, post.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return PostView{}, fmt.Errorf("comments of post %d: %w", post.ID, err)
	}

	return PostView{
		Post:         post,
		HTML:         content.RenderHTML(post.Content),
		CommentCount: total,
		Comments:     comments,
		Window:       pagination.NewWindow(comments.PageIndex, comments.TotalPages, d.cfg.MaxVisiblePages),
	}, nil
}

// Window computes a standalone pagination control.
func (d *Dashboard) Window(current, total, maxVisible int) pagination.Window {
	if maxVisible <= 0 {
		maxVisible = d.cfg.MaxVisiblePages
	}
	return pagination.NewWindow(current, total, maxVisible)
}

func (d *Dashboard) publishedSample(ctx context.Context) (domain.Page[domain.Post], error) {
	return Collect(ctx, d.blog.Published, domain.PageRequest{Size: d.cfg.FetchPageSize}, d.cfg.SampleSize)
}

func (d *Dashboard) postList(page domain.Page[domain.Post], excerpt int) PostList {
	cards := make([]PostCard, 0, len(page.Items))
	for _, post := range page.Items {
		cards = append(cards, PostCard{Post: post, Excerpt: content.Excerpt(post, excerpt)})
	}
	return PostList{
		Posts:      cards,
		TotalItems: page.TotalItems,
		Window:     pagination.NewWindow(page.PageIndex, page.TotalPages, d.cfg.MaxVisiblePages),
	}
}
