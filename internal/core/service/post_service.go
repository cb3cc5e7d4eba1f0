package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// PostService implements content operations with ownership-or-permission checks.
type PostService struct {
	posts ports.PostRepository
	log   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, log: log}
}

func (s *PostService) ListPosts(ctx context.Context, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	return s.list(ctx, "", input)
}

// ListMyPosts lists the caller's own posts. Only the status filter applies;
// an author query parameter must not widen the caller scope.
func (s *PostService) ListMyPosts(ctx context.Context, authorID string, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	input.Author = ""
	return s.list(ctx, authorID, input)
}

func (s *PostService) list(ctx context.Context, authorID string, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	posts, total, err := s.posts.List(ctx, ports.ListPostsFilter{
		AuthorID: authorID,
		Status:   input.Status,
		Author:   input.Author,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListPostsResult{
		Posts:      posts,
		Pagination: ports.NewPagination(page, limit, total),
	}, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.PostWithAuthor, error) {
	return s.posts.FindByIDWithAuthor(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, input ports.CreatePostInput) (*domain.Post, error) {
	status := input.Status
	if status == "" {
		status = domain.PostDraft
	}

	var publishedAt *time.Time
	if status == domain.PostPublished {
		now := time.Now().UTC()
		publishedAt = &now
	}

	post, err := s.posts.Create(ctx, &domain.Post{
		Title:       input.Title,
		Content:     input.Content,
		AuthorID:    authorID,
		Status:      status,
		PublishedAt: publishedAt,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Str("author_id", authorID).Msg("post created")
	return post, nil
}

// UpdatePost edits a post. Authors may edit their own posts; editing someone
// else's requires the "posts.update" permission.
func (s *PostService) UpdatePost(ctx context.Context, id string, input ports.UpdatePostInput, identity domain.Identity) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != identity.User.ID && !identity.HasPermission("posts.update") {
		return nil, domain.ErrNotOwner
	}

	// Keep the original publish timestamp when the post stays published;
	// stamp it on a draft→published transition; clear it otherwise.
	var publishedAt *time.Time
	if input.Status == domain.PostPublished {
		if post.Status == domain.PostPublished {
			publishedAt = post.PublishedAt
		} else {
			now := time.Now().UTC()
			publishedAt = &now
		}
	}

	return s.posts.Update(ctx, id, ports.UpdatePostFields{
		Title:       input.Title,
		Content:     input.Content,
		Status:      input.Status,
		PublishedAt: publishedAt,
	})
}

func (s *PostService) TogglePublish(ctx context.Context, id string, publish bool) (*domain.Post, error) {
	status := domain.PostDraft
	var publishedAt *time.Time
	if publish {
		status = domain.PostPublished
		now := time.Now().UTC()
		publishedAt = &now
	}
	return s.posts.UpdateStatus(ctx, id, status, publishedAt)
}

// DeletePost removes a post. Authors may delete their own posts; deleting
// someone else's requires the "posts.delete" permission.
func (s *PostService) DeletePost(ctx context.Context, id string, identity domain.Identity) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if post.AuthorID != identity.User.ID && !identity.HasPermission("posts.delete") {
		return domain.ErrNotOwner
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("post_id", id).Msg("post deleted")
	return nil
}
