package ports

import (
	"context"
	"time"

	"BlogAnalytics/internal/domain"
)

// PostSource reads posts from the blog backend.
type PostSource interface {
	ListPosts(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error)
	ListPublished(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error)
	ListByAuthor(ctx context.Context, author string, req domain.PageRequest) (domain.Page[domain.Post], error)
	ListByTags(ctx context.Context, tags []string, req domain.PageRequest) (domain.Page[domain.Post], error)
	ListByStatus(ctx context.Context, status domain.PostStatus, req domain.PageRequest) (domain.Page[domain.Post], error)
	Search(ctx context.Context, keyword string, req domain.PageRequest) (domain.Page[domain.Post], error)
	GetPost(ctx context.Context, id int64) (domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (domain.Post, error)
	AllTags(ctx context.Context) ([]string, error)
	CountPosts(ctx context.Context, status domain.PostStatus) (int64, error)
}

// PostWriter mutates posts on the blog backend.
type PostWriter interface {
	CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error)
	UpdatePost(ctx context.Context, id int64, in domain.PostInput) (domain.Post, error)
	PublishPost(ctx context.Context, id int64) (domain.Post, error)
	ArchivePost(ctx context.Context, id int64) (domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// CommentSource reads comments from the blog backend.
type CommentSource interface {
	ListComments(ctx context.Context, postID int64, req domain.PageRequest) (domain.Page[domain.Comment], error)
	GetComment(ctx context.Context, id int64) (domain.Comment, error)
	CountComments(ctx context.Context, postID int64) (int64, error)
}

// CommentWriter mutates comments on the blog backend.
type CommentWriter interface {
	CreateComment(ctx context.Context, postID int64, in domain.CommentInput) (domain.Comment, error)
	UpdateComment(ctx context.Context, id int64, in domain.CommentInput) (domain.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// BlogBackend is the full blog REST API.
type BlogBackend interface {
	PostSource
	PostWriter
	CommentSource
	CommentWriter
}

// Cache stores query results under colon-separated keys.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	// DeletePrefix removes key and every key extending it by further segments.
	DeletePrefix(prefix string)
}

// SnapshotRepository persists analytics snapshots.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Latest(ctx context.Context, limit int) ([]domain.Snapshot, error)
}

// Notifier streams digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
