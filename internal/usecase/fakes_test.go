package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"BlogAnalytics/internal/domain"
)

// fakeBackend serves fixed pages and counts calls per method.
type fakeBackend struct {
	mu        sync.Mutex
	calls     map[string]int
	posts     domain.Page[domain.Post]
	published domain.Page[domain.Post]
	pages     []domain.Page[domain.Post]
	tags      []string
	comments  domain.Page[domain.Comment]
	post      domain.Post
	err       error
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	delay     time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) hit(name string) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxFlight.Load()
		if n <= cur || f.maxFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListPosts(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return f.posts, f.hit("ListPosts")
}

func (f *fakeBackend) ListPublished(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error) {
	if err := f.hit("ListPublished"); err != nil {
		return domain.Page[domain.Post]{}, err
	}
	if len(f.pages) > 0 {
		if req.Page >= len(f.pages) {
			return domain.Page[domain.Post]{PageIndex: req.Page, TotalPages: len(f.pages)}, nil
		}
		return f.pages[req.Page], nil
	}
	return f.published, nil
}

func (f *fakeBackend) ListByAuthor(ctx context.Context, author string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return f.posts, f.hit("ListByAuthor")
}

func (f *fakeBackend) ListByTags(ctx context.Context, tags []string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return f.posts, f.hit("ListByTags")
}

func (f *fakeBackend) ListByStatus(ctx context.Context, status domain.PostStatus, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return f.posts, f.hit("ListByStatus")
}

func (f *fakeBackend) Search(ctx context.Context, keyword string, req domain.PageRequest) (domain.Page[domain.Post], error) {
	return f.posts, f.hit("Search")
}

func (f *fakeBackend) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	return f.post, f.hit("GetPost")
}

func (f *fakeBackend) GetPostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return f.post, f.hit("GetPostBySlug")
}

func (f *fakeBackend) AllTags(ctx context.Context) ([]string, error) {
	return f.tags, f.hit("AllTags")
}

func (f *fakeBackend) CountPosts(ctx context.Context, status domain.PostStatus) (int64, error) {
	return f.posts.TotalItems, f.hit("CountPosts")
}

func (f *fakeBackend) CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	return f.post, f.hit("CreatePost")
}

func (f *fakeBackend) UpdatePost(ctx context.Context, id int64, in domain.PostInput) (domain.Post, error) {
	return f.post, f.hit("UpdatePost")
}

func (f *fakeBackend) PublishPost(ctx context.Context, id int64) (domain.Post, error) {
	return f.post, f.hit("PublishPost")
}

func (f *fakeBackend) ArchivePost(ctx context.Context, id int64) (domain.Post, error) {
	return f.post, f.hit("ArchivePost")
}

func (f *fakeBackend) DeletePost(ctx context.Context, id int64) error {
	return f.hit("DeletePost")
}

func (f *fakeBackend) ListComments(ctx context.Context, postID int64, req domain.PageRequest) (domain.Page[domain.Comment], error) {
	return f.comments, f.hit("ListComments")
}

func (f *fakeBackend) GetComment(ctx context.Context, id int64) (domain.Comment, error) {
	return domain.Comment{ID: id}, f.hit("GetComment")
}

func (f *fakeBackend) CountComments(ctx context.Context, postID int64) (int64, error) {
	return f.comments.TotalItems, f.hit("CountComments")
}

func (f *fakeBackend) CreateComment(ctx context.Context, postID int64, in domain.CommentInput) (domain.Comment, error) {
	return domain.Comment{PostID: postID, Content: in.Content}, f.hit("CreateComment")
}

func (f *fakeBackend) UpdateComment(ctx context.Context, id int64, in domain.CommentInput) (domain.Comment, error) {
	return domain.Comment{ID: id, Content: in.Content}, f.hit("UpdateComment")
}

func (f *fakeBackend) DeleteComment(ctx context.Context, id int64) error {
	return f.hit("DeleteComment")
}

// mapCache is a ports.Cache without expiry.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *mapCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k == prefix || len(k) > len(prefix) && k[:len(prefix)+1] == prefix+":" {
			delete(c.entries, k)
		}
	}
}

func (c *mapCache) has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func samplePost(id int64, author string, status domain.PostStatus, views, comments int64, created time.Time, tags ...string) domain.Post {
	return domain.Post{
		ID:           id,
		Title:        "Post title " + author,
		Slug:         "post-" + author,
		Content:      "Body of the post written by " + author,
		Author:       author,
		Status:       status,
		Tags:         tags,
		ViewCount:    views,
		CommentCount: comments,
		CreatedAt:    created,
	}
}
