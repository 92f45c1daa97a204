package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogAnalytics/internal/analytics"
	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/pagination"
	"BlogAnalytics/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubViews struct {
	err        error
	report     domain.Report
	lastFilter analytics.PostFilter
	lastReq    domain.PageRequest
	lastSort   analytics.TagCloudSort
	lastPage   int
}

func (s *stubViews) Report(context.Context) (domain.Report, error) { return s.report, s.err }

func (s *stubViews) AdminStats(context.Context) (domain.AdminStats, error) {
	return domain.AdminStats{TotalPosts: 3}, s.err
}

func (s *stubViews) Authors(_ context.Context, query string) ([]domain.AuthorProfile, error) {
	return []domain.AuthorProfile{{Name: "ada" + query}}, s.err
}

func (s *stubViews) Author(_ context.Context, author string, page int) (usecase.AuthorView, error) {
	s.lastPage = page
	return usecase.AuthorView{Detail: domain.AuthorDetail{Author: author}}, s.err
}

func (s *stubViews) TagCloud(_ context.Context, _ string, by analytics.TagCloudSort) ([]domain.TagCloudEntry, error) {
	s.lastSort = by
	return []domain.TagCloudEntry{{Name: "go", Count: 2, Level: 5}}, s.err
}

func (s *stubViews) Tag(_ context.Context, tag string, page int) (usecase.TagView, error) {
	s.lastPage = page
	return usecase.TagView{Detail: domain.TagDetail{Tag: tag}}, s.err
}

func (s *stubViews) ManagePosts(_ context.Context, req domain.PageRequest, filter analytics.PostFilter) (usecase.ManagedPosts, error) {
	s.lastReq = req
	s.lastFilter = filter
	return usecase.ManagedPosts{Authors: []string{"ada"}}, s.err
}

func (s *stubViews) Search(_ context.Context, _ string, req domain.PageRequest) (usecase.PostList, error) {
	s.lastReq = req
	return usecase.PostList{TotalItems: 1}, s.err
}

func (s *stubViews) Post(_ context.Context, slug string, page int) (usecase.PostView, error) {
	s.lastPage = page
	return usecase.PostView{Post: domain.Post{Slug: slug}}, s.err
}

func (s *stubViews) PostByID(_ context.Context, id int64, page int) (usecase.PostView, error) {
	s.lastPage = page
	return usecase.PostView{Post: domain.Post{ID: id}, CommentCount: 4}, s.err
}

func (s *stubViews) Window(current, total, maxVisible int) pagination.Window {
	if maxVisible <= 0 {
		maxVisible = 5
	}
	return pagination.NewWindow(current, total, maxVisible)
}

type stubEditor struct {
	err        error
	created    domain.PostInput
	comment    domain.CommentInput
	deletedIDs []int64
}

func (s *stubEditor) CreatePost(_ context.Context, in domain.PostInput) (domain.Post, error) {
	s.created = in
	return domain.Post{ID: 7, Title: in.Title, Status: in.Status}, s.err
}

func (s *stubEditor) UpdatePost(_ context.Context, id int64, in domain.PostInput) (domain.Post, error) {
	return domain.Post{ID: id, Title: in.Title}, s.err
}

func (s *stubEditor) PublishPost(_ context.Context, id int64) (domain.Post, error) {
	return domain.Post{ID: id, Status: domain.StatusPublished}, s.err
}

func (s *stubEditor) ArchivePost(_ context.Context, id int64) (domain.Post, error) {
	return domain.Post{ID: id, Status: domain.StatusArchived}, s.err
}

func (s *stubEditor) DeletePost(_ context.Context, id int64) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return s.err
}

func (s *stubEditor) CreateComment(_ context.Context, postID int64, in domain.CommentInput) (domain.Comment, error) {
	s.comment = in
	return domain.Comment{ID: 1, PostID: postID, Content: in.Content}, s.err
}

func (s *stubEditor) DeleteComment(_ context.Context, _, commentID int64) error {
	s.deletedIDs = append(s.deletedIDs, commentID)
	return s.err
}

type stubSnapshots struct {
	limit int
}

func (s *stubSnapshots) Save(context.Context, domain.Snapshot) error { return nil }

func (s *stubSnapshots) Latest(_ context.Context, limit int) ([]domain.Snapshot, error) {
	s.limit = limit
	return []domain.Snapshot{{ID: "snap-1", TakenAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}}, nil
}

func newTestRouter(views *stubViews, editor *stubEditor, snapshots *stubSnapshots) *gin.Engine {
	return NewRouter(Deps{
		Handler: NewHandler(views, editor, snapshots),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func serve(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{})
	rec := serve(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestReportRoute(t *testing.T) {
	t.Parallel()

	views := &stubViews{report: domain.Report{Overview: domain.Overview{TotalPosts: 4}}}
	rec := serve(t, newTestRouter(views, &stubEditor{}, &stubSnapshots{}), http.MethodGet, "/api/analytics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(4), report.Overview.TotalPosts)
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("post: %w", domain.ErrNotFound), http.StatusNotFound},
		{"invalid", fmt.Errorf("post: %w", domain.ErrInvalidInput), http.StatusBadRequest},
		{"malformed", fmt.Errorf("decode: %w", domain.ErrMalformedRecord), http.StatusBadGateway},
		{"upstream", fmt.Errorf("load: %w", domain.ErrUpstream), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, newTestRouter(&stubViews{err: tc.err}, &stubEditor{}, &stubSnapshots{}), http.MethodGet, "/api/analytics", "")

			assert.Equal(t, tc.want, rec.Code)
			body := decodeBody(t, rec)
			assert.EqualValues(t, 0, body["ok"])
			assert.EqualValues(t, tc.want, body["code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestListPostsParsesQuery(t *testing.T) {
	t.Parallel()

	views := &stubViews{}
	router := newTestRouter(views, &stubEditor{}, &stubSnapshots{})
	rec := serve(t, router, http.MethodGet, "/api/posts?page=2&size=500&sortBy=viewCount&sortDir=ASC&q=go&status=published&author=ada", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PageRequest{Page: 2, Size: 100, SortBy: "viewCount", SortDir: "asc"}, views.lastReq)
	assert.Equal(t, analytics.PostFilter{Query: "go", Status: "PUBLISHED", Author: "ada"}, views.lastFilter)
}

func TestListPostsDefaults(t *testing.T) {
	t.Parallel()

	views := &stubViews{}
	rec := serve(t, newTestRouter(views, &stubEditor{}, &stubSnapshots{}), http.MethodGet, "/api/posts?page=-3&size=abc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, views.lastReq.Page)
	assert.Equal(t, 10, views.lastReq.Size)
	assert.Equal(t, analytics.StatusAll, views.lastFilter.Status)
}

func TestListPostsRejectsSortDir(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{}), http.MethodGet, "/api/posts?sortDir=sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRequiresKeyword(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{})
	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodGet, "/api/posts/search", "").Code)
	assert.Equal(t, http.StatusOK, serve(t, router, http.MethodGet, "/api/posts/search?keyword=go", "").Code)
}

func TestTagCloudSort(t *testing.T) {
	t.Parallel()

	views := &stubViews{}
	router := newTestRouter(views, &stubEditor{}, &stubSnapshots{})

	rec := serve(t, router, http.MethodGet, "/api/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analytics.SortByCount, views.lastSort)

	rec = serve(t, router, http.MethodGet, "/api/tags?sort=Views", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analytics.SortByViews, views.lastSort)

	rec = serve(t, router, http.MethodGet, "/api/tags?sort=random", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailRoutesPassPage(t *testing.T) {
	t.Parallel()

	views := &stubViews{}
	router := newTestRouter(views, &stubEditor{}, &stubSnapshots{})

	rec := serve(t, router, http.MethodGet, "/api/authors/Ada%20Lovelace?page=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, views.lastPage)
	stats := decodeBody(t, rec)["stats"].(map[string]any)
	assert.Equal(t, "Ada Lovelace", stats["author"])

	rec = serve(t, router, http.MethodGet, "/api/tags/go?page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, views.lastPage)

	rec = serve(t, router, http.MethodGet, "/api/posts/slug/hello-world", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, views.lastPage)
}

func TestPostByIDRoute(t *testing.T) {
	t.Parallel()

	views := &stubViews{}
	router := newTestRouter(views, &stubEditor{}, &stubSnapshots{})

	rec := serve(t, router, http.MethodGet, "/api/posts/12?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, views.lastPage)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 12, body["post"].(map[string]any)["id"])
	assert.EqualValues(t, 4, body["commentCount"])

	rec = serve(t, router, http.MethodGet, "/api/posts/zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodGet, "/api/posts/search?keyword=go", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"title":"Hello world","content":"Long enough content","author":"Ada","tags":[" go ",""]}`, http.StatusCreated},
		{"short title", `{"title":"Hi","content":"Long enough content","author":"Ada"}`, http.StatusBadRequest},
		{"short content", `{"title":"Hello world","content":"short","author":"Ada"}`, http.StatusBadRequest},
		{"short author", `{"title":"Hello world","content":"Long enough content","author":"A"}`, http.StatusBadRequest},
		{"long summary", `{"title":"Hello world","content":"Long enough content","author":"Ada","summary":"` + strings.Repeat("s", 201) + `"}`, http.StatusBadRequest},
		{"bad status", `{"title":"Hello world","content":"Long enough content","author":"Ada","status":"LIVE"}`, http.StatusBadRequest},
		{"not json", `{`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			editor := &stubEditor{}
			rec := serve(t, newTestRouter(&stubViews{}, editor, &stubSnapshots{}), http.MethodPost, "/api/posts", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCreatePostNormalizesInput(t *testing.T) {
	t.Parallel()

	editor := &stubEditor{}
	body := `{"title":"  Hello world ","content":"Long enough content","author":" Ada ","tags":[" go ",""]}`
	rec := serve(t, newTestRouter(&stubViews{}, editor, &stubSnapshots{}), http.MethodPost, "/api/posts", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Hello world", editor.created.Title)
	assert.Equal(t, "Ada", editor.created.Author)
	assert.Equal(t, domain.StatusDraft, editor.created.Status)
	assert.Equal(t, []string{"go"}, editor.created.Tags)
}

func TestPostTransitions(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{})

	rec := serve(t, router, http.MethodPatch, "/api/posts/5/publish", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PUBLISHED", decodeBody(t, rec)["status"])

	rec = serve(t, router, http.MethodPatch, "/api/posts/5/archive", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ARCHIVED", decodeBody(t, rec)["status"])

	rec = serve(t, router, http.MethodPatch, "/api/posts/abc/publish", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNotFound(t *testing.T) {
	t.Parallel()

	editor := &stubEditor{err: fmt.Errorf("update: %w", domain.ErrNotFound)}
	body := `{"title":"Hello world","content":"Long enough content","author":"Ada"}`
	rec := serve(t, newTestRouter(&stubViews{}, editor, &stubSnapshots{}), http.MethodPut, "/api/posts/9", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRoutes(t *testing.T) {
	t.Parallel()

	editor := &stubEditor{}
	router := newTestRouter(&stubViews{}, editor, &stubSnapshots{})

	assert.Equal(t, http.StatusNoContent, serve(t, router, http.MethodDelete, "/api/posts/4", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(t, router, http.MethodDelete, "/api/posts/4/comments/11", "").Code)
	assert.Equal(t, []int64{4, 11}, editor.deletedIDs)
}

func TestCreateCommentValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"content":"Nice post","authorName":"Bob","authorEmail":"bob@example.com"}`, http.StatusCreated},
		{"no email", `{"content":"Nice post","authorName":"Bob"}`, http.StatusCreated},
		{"empty content", `{"content":"","authorName":"Bob"}`, http.StatusBadRequest},
		{"long content", `{"content":"` + strings.Repeat("c", 501) + `","authorName":"Bob"}`, http.StatusBadRequest},
		{"short name", `{"content":"Nice post","authorName":"B"}`, http.StatusBadRequest},
		{"bad email", `{"content":"Nice post","authorName":"Bob","authorEmail":"nope"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{}), http.MethodPost, "/api/posts/3/comments", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestPaginationRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{})

	rec := serve(t, router, http.MethodGet, "/api/pagination?current=0&total=10&max=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var window pagination.Window
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &window))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, window.Pages)
	assert.True(t, window.HasNext)
	assert.False(t, window.HasPrev)

	rec = serve(t, router, http.MethodGet, "/api/pagination?current=-1&total=10", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshotsRoute(t *testing.T) {
	t.Parallel()

	snapshots := &stubSnapshots{}
	router := newTestRouter(&stubViews{}, &stubEditor{}, snapshots)

	rec := serve(t, router, http.MethodGet, "/api/snapshots?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, snapshots.limit)
	data := decodeBody(t, rec)["data"].([]any)
	assert.Len(t, data, 1)

	serve(t, router, http.MethodGet, "/api/snapshots?limit=0", "")
	assert.Equal(t, defaultSnapshotLimit, snapshots.limit)
}

func TestSnapshotsRouteWithoutStore(t *testing.T) {
	t.Parallel()

	router := NewRouter(Deps{Handler: NewHandler(&stubViews{}, &stubEditor{}, nil)})
	rec := serve(t, router, http.MethodGet, "/api/snapshots", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["data"])
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(&stubViews{}, &stubEditor{}, &stubSnapshots{}), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.EqualValues(t, 0, decodeBody(t, rec)["ok"])
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	router := NewRouter(Deps{AllowedOrigins: []string{"http://localhost:3000"}})
	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
