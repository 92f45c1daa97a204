package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/ports"
)

// Cache key roots. A key is its root followed by the query arguments.
const (
	keyBlogPosts      = "blogPosts"
	keyPublishedPosts = "publishedPosts"
	keyBlogPost       = "blogPost"
	keySearchPosts    = "searchPosts"
	keyPostsByAuthor  = "postsByAuthor"
	keyPostsByTags    = "postsByTags"
	keyPostsByStatus  = "postsByStatus"
	keyAllTags        = "allTags"
	keyPostCount      = "postCount"
	keyComments       = "comments"
	keyCommentCount   = "commentCount"
)

// CacheTTL sets the staleness window per query family. Zero fields fall back to Default.
type CacheTTL struct {
	Lists   time.Duration
	Post    time.Duration
	Search  time.Duration
	Tags    time.Duration
	Default time.Duration
}

// DefaultCacheTTL returns lists 5m, post 10m, search 2m, tags 30m, default 5m.
func DefaultCacheTTL() CacheTTL {
	return CacheTTL{
		Lists:   5 * time.Minute,
		Post:    10 * time.Minute,
		Search:  2 * time.Minute,
		Tags:    30 * time.Minute,
		Default: 5 * time.Minute,
	}
}

func (t CacheTTL) or(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return t.Default
}

// BlogServiceDeps wires the backend and the query cache into the service.
type BlogServiceDeps struct {
	Backend ports.BlogBackend
	Cache   ports.Cache
	TTL     CacheTTL
	Logger  *slog.Logger
}

// BlogService reads through the query cache and invalidates it after writes.
type BlogService struct {
	backend ports.BlogBackend
	cache   ports.Cache
	ttl     CacheTTL
	logger  *slog.Logger
}

// NewBlogService constructs the cached backend facade.
func NewBlogService(deps BlogServiceDeps) *BlogService {
	ttl := deps.TTL
	if ttl == (CacheTTL{}) {
		ttl = DefaultCacheTTL()
	}
	return &BlogService{
		backend: deps.Backend,
		cache:   deps.Cache,
		ttl:     ttl,
		logger:  deps.Logger,
	}
}

// Posts returns a page of posts in any status.
func (s *BlogService) Posts(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	key := cacheKey(keyBlogPosts, req.Page, req.Size, req.SortBy, req.SortDir)
	return cached(ctx, s, key, s.ttl.or(s.ttl.Lists), func(ctx context.Context) (domain.Page[domain.Post], error) {
		return s.backend.ListPosts(ctx, req)
	})
}

// Published returns a page of published posts.
func (s *BlogService) Published(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	key := cacheKey(keyPublishedPosts, req.Page, req.Size)
	return cached(ctx, s, key, s.ttl.or(s.ttl.Lists), func(ctx context.Context) (domain.Page[domain.Post], error) {
		return s.backend.ListPublished(ctx, req)
	})
}

// ByAuthor returns a page of the author's posts.
func (s *BlogService) ByAuthor(ctx context.Context, author string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	key := cacheKey(keyPostsByAuthor, author, req.Page, req.Size)
	return cached(ctx, s, key, s.ttl.Default, func(ctx context.Context) (domain.Page[domain.Post], error) {
		return s.backend.ListByAuthor(ctx, author, req)
	})
}

// ByTags returns a page of posts carrying any of tags.
func (s *BlogService) ByTags(ctx context.Context, tags []string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	key := cacheKey(keyPostsByTags, strings.Join(tags, ","), req.Page, req.Size)
	return cached(ctx, s, key, s.ttl.Default, func(ctx context.Context) (domain.Page[domain.Post], error) {
		return s.backend.ListByTags(ctx, tags, req)
	})
}

// ByStatus returns a page of posts in status.
func (s *BlogService) ByStatus(ctx context.Context, status domain.PostStatus, req domain.PageRequest) (domain.Page[domain.Post], error) {
	key := cacheKey(keyPostsByStatus, status, req.Page, req.Size, req.SortBy, req.SortDir)
	return cached(ctx, s, key, s.ttl.Default, func(ctx context.Context) (domain.Page[domain.Post], error) {
		return s.backend.ListByStatus(ctx, status, req)
	})
}

// Search returns a page of posts matching keyword.
func (s *BlogService) Search(ctx context.Context, keyword string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	key := cacheKey(keySearchPosts, keyword, req.Page, req.Size)
	return cached(ctx, s, key, s.ttl.or(s.ttl.Search), func(ctx context.Context) (domain.Page[domain.Post], error) {
		return s.backend.Search(ctx, keyword, req)
	})
}

// Post returns one post by id.
func (s *BlogService) Post(ctx context.Context, id int64) (domain.Post, error) {
	key := cacheKey(keyBlogPost, id)
	return cached(ctx, s, key, s.ttl.or(s.ttl.Post), func(ctx context.Context) (domain.Post, error) {
		return s.backend.GetPost(ctx, id)
	})
}

// PostBySlug returns one post by slug.
func (s *BlogService) PostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	key := cacheKey(keyBlogPost, "slug", slug)
	return cached(ctx, s, key, s.ttl.or(s.ttl.Post), func(ctx context.Context) (domain.Post, error) {
		return s.backend.GetPostBySlug(ctx, slug)
	})
}

// Tags returns the tag catalog.
func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	return cached(ctx, s, keyAllTags, s.ttl.or(s.ttl.Tags), func(ctx context.Context) ([]string, error) {
		return s.backend.AllTags(ctx)
	})
}

// CountPosts returns the number of posts in status.
func (s *BlogService) CountPosts(ctx context.Context, status domain.PostStatus) (int64, error) {
	key := cacheKey(keyPostCount, status)
	return cached(ctx, s, key, s.ttl.Default, func(ctx context.Context) (int64, error) {
		return s.backend.CountPosts(ctx, status)
	})
}

// Comments returns a page of comments on postID.
func (s *BlogService) Comments(ctx context.Context, postID int64, req domain.PageRequest) (domain.Page[domain.Comment], error) {
	key := cacheKey(keyComments, postID, req.Page, req.Size)
	return cached(ctx, s, key, s.ttl.Default, func(ctx context.Context) (domain.Page[domain.Comment], error) {
		return s.backend.ListComments(ctx, postID, req)
	})
}

// CommentCount returns the number of comments on postID.
func (s *BlogService) CommentCount(ctx context.Context, postID int64) (int64, error) {
	key := cacheKey(keyCommentCount, postID)
	return cached(ctx, s, key, s.ttl.Default, func(ctx context.Context) (int64, error) {
		return s.backend.CountComments(ctx, postID)
	})
}

// CreatePost stores a new post and drops the lists, the counts and the tag catalog.
func (s *BlogService) CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	post, err := s.backend.CreatePost(ctx, in)
	if err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	s.invalidate(keyBlogPosts, keyPublishedPosts, keyPostsByStatus, keyPostCount, keyAllTags)
	return post, nil
}

// UpdatePost edits post id and drops the lists, the counts, the post and the tag catalog.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, in domain.PostInput) (domain.Post, error) {
	post, err := s.backend.UpdatePost(ctx, id, in)
	if err != nil {
		return domain.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	s.invalidate(keyBlogPosts, keyPublishedPosts, keyPostsByStatus, keyPostCount, cacheKey(keyBlogPost, post.ID), keyAllTags)
	return post, nil
}

// PublishPost publishes post id and drops the lists, the counts and the post.
func (s *BlogService) PublishPost(ctx context.Context, id int64) (domain.Post, error) {
	post, err := s.backend.PublishPost(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("publish post %d: %w", id, err)
	}
	s.invalidate(keyBlogPosts, keyPublishedPosts, keyPostsByStatus, keyPostCount, cacheKey(keyBlogPost, post.ID))
	return post, nil
}

// ArchivePost archives post id and drops the lists, the counts and the post.
func (s *BlogService) ArchivePost(ctx context.Context, id int64) (domain.Post, error) {
	post, err := s.backend.ArchivePost(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("archive post %d: %w", id, err)
	}
	s.invalidate(keyBlogPosts, keyPublishedPosts, keyPostsByStatus, keyPostCount, cacheKey(keyBlogPost, post.ID))
	return post, nil
}

// DeletePost removes post id and drops the lists, the counts and the tag catalog.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.backend.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	s.invalidate(keyBlogPosts, keyPublishedPosts, keyPostsByStatus, keyPostCount, keyAllTags)
	return nil
}

// CreateComment attaches a comment to postID and drops its comments, its comment count and the post.
func (s *BlogService) CreateComment(ctx context.Context, postID int64, in domain.CommentInput) (domain.Comment, error) {
	comment, err := s.backend.CreateComment(ctx, postID, in)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("create comment on post %d: %w", postID, err)
	}
	s.invalidate(cacheKey(keyComments, postID), cacheKey(keyCommentCount, postID), cacheKey(keyBlogPost, postID))
	return comment, nil
}

// DeleteComment removes commentID from postID and drops its comments, its comment count and the post.
func (s *BlogService) DeleteComment(ctx context.Context, postID, commentID int64) error {
	if err := s.backend.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	s.invalidate(cacheKey(keyComments, postID), cacheKey(keyCommentCount, postID), cacheKey(keyBlogPost, postID))
	return nil
}

func (s *BlogService) invalidate(prefixes ...string) {
	if s.cache == nil {
		return
	}
	for _, p := range prefixes {
		s.cache.DeletePrefix(p)
	}
	s.debug("cache invalidated", "prefixes", prefixes)
}

func (s *BlogService) debug(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}

func cacheKey(segments ...any) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = fmt.Sprint(seg)
	}
	return strings.Join(parts, ":")
}

func cached[T any](ctx context.Context, s *BlogService, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		s.cache.Set(key, v, ttl)
	}
	return v, nil
}
