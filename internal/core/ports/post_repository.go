package ports

import (
	"context"
	"time"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// ListPostsFilter carries pagination and filter parameters for post listings.
type ListPostsFilter struct {
	AuthorID string // non-empty = scoped to a single author ("my posts")
	Status   string // optional: filter by post status
	Author   string // optional: partial match on author name or email
	Page     int    // 1-based
	Limit    int
}

// UpdatePostFields carries the editable post fields for a full update.
// PublishedAt is recomputed by the service, not the caller.
type UpdatePostFields struct {
	Title       string
	Content     string
	Status      domain.PostStatus
	PublishedAt *time.Time
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindByIDWithAuthor(ctx context.Context, id string) (*domain.PostWithAuthor, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.PostWithAuthor, int64, error)
	Update(ctx context.Context, id string, fields UpdatePostFields) (*domain.Post, error)
	UpdateStatus(ctx context.Context, id string, status domain.PostStatus, publishedAt *time.Time) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
