package server

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"BlogAnalytics/internal/analytics"
	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/pagination"
	"BlogAnalytics/internal/ports"
	"BlogAnalytics/internal/usecase"
)

const defaultSnapshotLimit = 10

// Views answers the read-only dashboards.
type Views interface {
	Report(ctx context.Context) (domain.Report, error)
	AdminStats(ctx context.Context) (domain.AdminStats, error)
	Authors(ctx context.Context, query string) ([]domain.AuthorProfile, error)
	Author(ctx context.Context, author string, page int) (usecase.AuthorView, error)
	TagCloud(ctx context.Context, query string, by analytics.TagCloudSort) ([]domain.TagCloudEntry, error)
	Tag(ctx context.Context, tag string, page int) (usecase.TagView, error)
	ManagePosts(ctx context.Context, req domain.PageRequest, filter analytics.PostFilter) (usecase.ManagedPosts, error)
	Search(ctx context.Context, keyword string, req domain.PageRequest) (usecase.PostList, error)
	Post(ctx context.Context, slug string, commentPage int) (usecase.PostView, error)
	PostByID(ctx context.Context, id int64, commentPage int) (usecase.PostView, error)
	Window(current, total, maxVisible int) pagination.Window
}

// Editor applies post and comment mutations.
type Editor interface {
	CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error)
	UpdatePost(ctx context.Context, id int64, in domain.PostInput) (domain.Post, error)
	PublishPost(ctx context.Context, id int64) (domain.Post, error)
	ArchivePost(ctx context.Context, id int64) (domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, postID int64, in domain.CommentInput) (domain.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID int64) error
}

type postRequest struct {
	Title   string   `json:"title" binding:"required,min=5,max=100"`
	Content string   `json:"content" binding:"required,min=10"`
	Author  string   `json:"author" binding:"required,min=2,max=50"`
	Summary string   `json:"summary" binding:"max=200"`
	Status  string   `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Tags    []string `json:"tags"`
}

func (r postRequest) input() domain.PostInput {
	status := domain.PostStatus(r.Status)
	if status == "" {
		status = domain.StatusDraft
	}
	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return domain.PostInput{
		Title:   strings.TrimSpace(r.Title),
		Content: r.Content,
		Author:  strings.TrimSpace(r.Author),
		Summary: strings.TrimSpace(r.Summary),
		Status:  status,
		Tags:    tags,
	}
}

type commentRequest struct {
	Content     string `json:"content" binding:"required,min=1,max=500"`
	AuthorName  string `json:"authorName" binding:"required,min=2,max=50"`
	AuthorEmail string `json:"authorEmail" binding:"omitempty,max=100,email"`
}

func (r commentRequest) input() domain.CommentInput {
	return domain.CommentInput{
		Content:     r.Content,
		AuthorName:  strings.TrimSpace(r.AuthorName),
		AuthorEmail: strings.TrimSpace(r.AuthorEmail),
	}
}

// Handler serves the analytics API.
type Handler struct {
	views     Views
	editor    Editor
	snapshots ports.SnapshotRepository
}

// NewHandler wires the dashboards, the post editor and the snapshot store.
func NewHandler(views Views, editor Editor, snapshots ports.SnapshotRepository) *Handler {
	return &Handler{views: views, editor: editor, snapshots: snapshots}
}

// RegisterRoutes mounts the API under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics", h.report)
	rg.GET("/admin/stats", h.adminStats)
	rg.GET("/pagination", h.window)
	rg.GET("/snapshots", h.listSnapshots)

	authors := rg.Group("/authors")
	authors.GET("", h.listAuthors)
	authors.GET("/:author", h.author)

	tags := rg.Group("/tags")
	tags.GET("", h.tagCloud)
	tags.GET("/:tag", h.tag)

	posts := rg.Group("/posts")
	posts.GET("", h.listPosts)
	posts.GET("/search", h.search)
	posts.GET("/slug/:slug", h.postBySlug)
	posts.GET("/:id", h.postByID)
	posts.POST("", h.createPost)
	posts.PUT("/:id", h.updatePost)
	posts.PATCH("/:id/publish", h.publishPost)
	posts.PATCH("/:id/archive", h.archivePost)
	posts.DELETE("/:id", h.deletePost)
	posts.POST("/:id/comments", h.createComment)
	posts.DELETE("/:id/comments/:commentId", h.deleteComment)
}

func (h *Handler) report(c *gin.Context) {
	report, err := h.views.Report(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, report)
}

func (h *Handler) adminStats(c *gin.Context) {
	stats, err := h.views.AdminStats(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, stats)
}

func (h *Handler) listAuthors(c *gin.Context) {
	profiles, err := h.views.Authors(c.Request.Context(), c.Query("q"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"data": profiles})
}

func (h *Handler) author(c *gin.Context) {
	view, err := h.views.Author(c.Request.Context(), c.Param("author"), pageRequest(c).Page)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, view)
}

func (h *Handler) tagCloud(c *gin.Context) {
	by := analytics.TagCloudSort(strings.ToLower(c.DefaultQuery("sort", string(analytics.SortByCount))))
	switch by {
	case analytics.SortByCount, analytics.SortByViews, analytics.SortByName:
	default:
		BadRequest(c, "sort must be one of count, views, name")
		return
	}

	cloud, err := h.views.TagCloud(c.Request.Context(), c.Query("q"), by)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"data": cloud})
}

func (h *Handler) tag(c *gin.Context) {
	view, err := h.views.Tag(c.Request.Context(), c.Param("tag"), pageRequest(c).Page)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, view)
}

func (h *Handler) listPosts(c *gin.Context) {
	req := pageRequest(c)
	if req.SortDir != "" && req.SortDir != "asc" && req.SortDir != "desc" {
		BadRequest(c, "sortDir must be asc or desc")
		return
	}
	filter := analytics.PostFilter{
		Query:  c.Query("q"),
		Status: strings.ToUpper(c.DefaultQuery("status", analytics.StatusAll)),
		Author: c.Query("author"),
	}

	posts, err := h.views.ManagePosts(c.Request.Context(), req, filter)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, posts)
}

func (h *Handler) search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		BadRequest(c, "keyword is required")
		return
	}

	posts, err := h.views.Search(c.Request.Context(), keyword, pageRequest(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, posts)
}

func (h *Handler) postBySlug(c *gin.Context) {
	view, err := h.views.Post(c.Request.Context(), c.Param("slug"), pageRequest(c).Page)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, view)
}

func (h *Handler) postByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.views.PostByID(c.Request.Context(), id, pageRequest(c).Page)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, view)
}

func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	post, err := h.editor.CreatePost(c.Request.Context(), req.input())
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, post)
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	post, err := h.editor.UpdatePost(c.Request.Context(), id, req.input())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, post)
}

func (h *Handler) publishPost(c *gin.Context) {
	h.transition(c, h.editor.PublishPost)
}

func (h *Handler) archivePost(c *gin.Context) {
	h.transition(c, h.editor.ArchivePost)
}

func (h *Handler) transition(c *gin.Context, apply func(context.Context, int64) (domain.Post, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := apply(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, post)
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.editor.DeletePost(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	NoContent(c)
}

func (h *Handler) createComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	comment, err := h.editor.CreateComment(c.Request.Context(), postID, req.input())
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, comment)
}

func (h *Handler) deleteComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentId")
	if !ok {
		return
	}
	if err := h.editor.DeleteComment(c.Request.Context(), postID, commentID); err != nil {
		Fail(c, err)
		return
	}
	NoContent(c)
}

func (h *Handler) window(c *gin.Context) {
	current := intQuery(c, "current", 0)
	total := intQuery(c, "total", 0)
	if current < 0 || total < 0 {
		BadRequest(c, "current and total must not be negative")
		return
	}
	OK(c, h.views.Window(current, total, intQuery(c, "max", 0)))
}

func (h *Handler) listSnapshots(c *gin.Context) {
	if h.snapshots == nil {
		OK(c, gin.H{"data": []domain.Snapshot{}})
		return
	}
	limit := intQuery(c, "limit", defaultSnapshotLimit)
	if limit < 1 || limit > maxPageSize {
		limit = defaultSnapshotLimit
	}

	snapshots, err := h.snapshots.Latest(c.Request.Context(), limit)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"data": snapshots})
}
