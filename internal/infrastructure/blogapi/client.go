package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"BlogAnalytics/internal/config"
	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/ports"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Unwrap maps 404, 400 and 5xx onto the domain sentinels.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Code == http.StatusBadRequest:
		return domain.ErrInvalidInput
	case e.Code >= http.StatusInternalServerError:
		return domain.ErrUpstream
	default:
		return nil
	}
}

// Client talks to the blog backend REST API.
type Client struct {
	baseURL    string
	retryDelay time.Duration
	http       *http.Client
	logger     *slog.Logger
}

var _ ports.BlogBackend = (*Client)(nil)

// NewClient creates a reusable HTTP client for the backend at cfg.BaseURL.
func NewClient(cfg config.BackendConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retryDelay: cfg.RetryDelay,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListPosts returns a page of posts in any status.
func (c *Client) ListPosts(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	q := pageQuery(req)
	if req.SortBy != "" {
		q.Set("sortBy", req.SortBy)
	}
	if req.SortDir != "" {
		q.Set("sortDir", req.SortDir)
	}
	return c.getPosts(ctx, "/posts", q)
}

// ListPublished returns a page of published posts.
func (c *Client) ListPublished(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return c.getPosts(ctx, "/posts/published", pageQuery(req))
}

// ListByAuthor returns a page of posts written by author.
func (c *Client) ListByAuthor(ctx context.Context, author string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return c.getPosts(ctx, "/posts/author/"+url.PathEscape(author), pageQuery(req))
}

// ListByTags returns a page of posts carrying any of tags.
func (c *Client) ListByTags(ctx context.Context, tags []string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	q := pageQuery(req)
	q.Set("tags", strings.Join(tags, ","))
	return c.getPosts(ctx, "/posts/tags", q)
}

// ListByStatus returns a page of posts in status.
func (c *Client) ListByStatus(ctx context.Context, status domain.PostStatus, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return c.getPosts(ctx, "/posts/status/"+url.PathEscape(string(status)), pageQuery(req))
}

// Search returns a page of posts matching keyword.
func (c *Client) Search(ctx context.Context, keyword string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	q := pageQuery(req)
	q.Set("keyword", keyword)
	return c.getPosts(ctx, "/posts/search", q)
}

// GetPost fetches one post by id.
func (c *Client) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	return c.getPost(ctx, "/posts/"+strconv.FormatInt(id, 10))
}

// GetPostBySlug fetches one post by slug.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return c.getPost(ctx, "/posts/slug/"+url.PathEscape(slug))
}

// AllTags returns the tag catalog.
func (c *Client) AllTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.get(ctx, "/posts/tags/all", nil, &tags); err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// CountPosts returns how many posts are in status.
func (c *Client) CountPosts(ctx context.Context, status domain.PostStatus) (int64, error) {
	q := url.Values{}
	q.Set("status", string(status))
	var n int64
	if err := c.get(ctx, "/posts/stats/count", q, &n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// CreatePost stores a new post.
func (c *Client) CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	return c.sendPost(ctx, http.MethodPost, "/posts", in)
}

// UpdatePost replaces the editable fields of post id.
func (c *Client) UpdatePost(ctx context.Context, id int64, in domain.PostInput) (domain.Post, error) {
	return c.sendPost(ctx, http.MethodPut, "/posts/"+strconv.FormatInt(id, 10), in)
}

// PublishPost moves post id to PUBLISHED.
func (c *Client) PublishPost(ctx context.Context, id int64) (domain.Post, error) {
	return c.sendPost(ctx, http.MethodPatch, "/posts/"+strconv.FormatInt(id, 10)+"/publish", nil)
}

// ArchivePost moves post id to ARCHIVED.
func (c *Client) ArchivePost(ctx context.Context, id int64) (domain.Post, error) {
	return c.sendPost(ctx, http.MethodPatch, "/posts/"+strconv.FormatInt(id, 10)+"/archive", nil)
}

// DeletePost removes post id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// ListComments returns a page of comments on post postID.
func (c *Client) ListComments(ctx context.Context, postID int64, req domain.PageRequest) (domain.Page[domain.Comment], error) {
	var dto pageDTO[commentDTO]
	path := "/comments/post/" + strconv.FormatInt(postID, 10)
	if err := c.get(ctx, path, pageQuery(req), &dto); err != nil {
		return domain.Page[domain.Comment]{}, fmt.Errorf("get %s: %w", path, err)
	}
	page, err := toPage(dto, commentDTO.toDomain)
	if err != nil {
		return domain.Page[domain.Comment]{}, fmt.Errorf("get %s: %w", path, err)
	}
	return page, nil
}

// GetComment fetches one comment by id.
func (c *Client) GetComment(ctx context.Context, id int64) (domain.Comment, error) {
	var dto commentDTO
	if err := c.get(ctx, "/comments/"+strconv.FormatInt(id, 10), nil, &dto); err != nil {
		return domain.Comment{}, fmt.Errorf("get comment %d: %w", id, err)
	}
	return dto.toDomain()
}

// CountComments returns how many comments post postID has.
func (c *Client) CountComments(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := c.get(ctx, "/comments/post/"+strconv.FormatInt(postID, 10)+"/count", nil, &n); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

// CreateComment attaches a comment to post postID.
func (c *Client) CreateComment(ctx context.Context, postID int64, in domain.CommentInput) (domain.Comment, error) {
	return c.sendComment(ctx, http.MethodPost, "/comments/post/"+strconv.FormatInt(postID, 10), in)
}

// UpdateComment edits comment id.
func (c *Client) UpdateComment(ctx context.Context, id int64, in domain.CommentInput) (domain.Comment, error) {
	return c.sendComment(ctx, http.MethodPut, "/comments/"+strconv.FormatInt(id, 10), in)
}

// DeleteComment removes comment id.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodDelete, "/comments/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}

func (c *Client) getPosts(ctx context.Context, path string, q url.Values) (domain.Page[domain.Post], error) {
	var dto pageDTO[postDTO]
	if err := c.get(ctx, path, q, &dto); err != nil {
		return domain.Page[domain.Post]{}, fmt.Errorf("get %s: %w", path, err)
	}
	page, err := toPage(dto, postDTO.toDomain)
	if err != nil {
		return domain.Page[domain.Post]{}, fmt.Errorf("get %s: %w", path, err)
	}
	return page, nil
}

func (c *Client) getPost(ctx context.Context, path string) (domain.Post, error) {
	var dto postDTO
	if err := c.get(ctx, path, nil, &dto); err != nil {
		return domain.Post{}, fmt.Errorf("get %s: %w", path, err)
	}
	return dto.toDomain()
}

func (c *Client) sendPost(ctx context.Context, method, path string, payload any) (domain.Post, error) {
	var dto postDTO
	if err := c.send(ctx, method, path, payload, &dto); err != nil {
		return domain.Post{}, fmt.Errorf("%s %s: %w", strings.ToLower(method), path, err)
	}
	return dto.toDomain()
}

func (c *Client) sendComment(ctx context.Context, method, path string, payload any) (domain.Comment, error) {
	var dto commentDTO
	if err := c.send(ctx, method, path, payload, &dto); err != nil {
		return domain.Comment{}, fmt.Errorf("%s %s: %w", strings.ToLower(method), path, err)
	}
	return dto.toDomain()
}

// get retries once on transport failures and 5xx answers.
func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	attempt := 0
	op := func() error {
		attempt++
		err := c.do(ctx, http.MethodGet, target, nil, v)
		if err == nil {
			return nil
		}
		var se *StatusError
		if (errors.As(err, &se) && se.Code < http.StatusInternalServerError) || errors.Is(err, domain.ErrMalformedRecord) {
			return backoff.Permanent(err)
		}
		c.debug("backend read failed", "url", target, "attempt", attempt, "error", err)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), 1), ctx)
	return backoff.Retry(op, policy)
}

func (c *Client) send(ctx context.Context, method, path string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, c.baseURL+path, body, v)
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: do request: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if v == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrMalformedRecord, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return se
	}
	var body errorDTO
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		se.Message = body.Message
	} else {
		se.Message = strings.TrimSpace(string(raw))
	}
	return se
}

func pageQuery(req domain.PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(req.Page, 0)))
	size := req.Size
	if size <= 0 {
		size = 10
	}
	q.Set("size", strconv.Itoa(size))
	return q
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(msg, args...)
}
