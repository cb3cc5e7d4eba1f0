package ports

import (
	"context"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// CreatePostInput carries the data for a new post. Status defaults to draft.
type CreatePostInput struct {
	Title   string
	Content string
	Status  domain.PostStatus
}

// UpdatePostInput carries the editable fields for a post update.
type UpdatePostInput struct {
	Title   string
	Content string
	Status  domain.PostStatus
}

// ListPostsInput carries the query parameters for post listings.
type ListPostsInput struct {
	Page   int
	Limit  int
	Status string
	Author string
}

// ListPostsResult is one page of posts joined with author details.
type ListPostsResult struct {
	Posts      []*domain.PostWithAuthor
	Pagination Pagination
}

// PostService defines content operations. Mutations take the caller's
// identity to enforce ownership-or-permission rules.
type PostService interface {
	ListPosts(ctx context.Context, input ListPostsInput) (*ListPostsResult, error)
	ListMyPosts(ctx context.Context, authorID string, input ListPostsInput) (*ListPostsResult, error)
	GetPost(ctx context.Context, id string) (*domain.PostWithAuthor, error)
	CreatePost(ctx context.Context, authorID string, input CreatePostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, id string, input UpdatePostInput, identity domain.Identity) (*domain.Post, error)
	// TogglePublish switches a post between draft and published.
	TogglePublish(ctx context.Context, id string, publish bool) (*domain.Post, error)
	DeletePost(ctx context.Context, id string, identity domain.Identity) error
}
