package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// stubPostRepo is an in-memory PostRepository.
type stubPostRepo struct {
	posts      map[string]*domain.Post
	nextID     int
	lastFilter ports.ListPostsFilter
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	clone := *post
	r.nextID++
	clone.ID = fmt.Sprintf("post-%d", r.nextID)
	clone.CreatedAt = time.Now().UTC()
	clone.UpdatedAt = clone.CreatedAt
	r.posts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) FindByIDWithAuthor(ctx context.Context, id string) (*domain.PostWithAuthor, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.PostWithAuthor{Post: *p}, nil
}

func (r *stubPostRepo) List(_ context.Context, filter ports.ListPostsFilter) ([]*domain.PostWithAuthor, int64, error) {
	r.lastFilter = filter
	var out []*domain.PostWithAuthor
	for _, p := range r.posts {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Status != "" && string(p.Status) != filter.Status {
			continue
		}
		out = append(out, &domain.PostWithAuthor{Post: *p})
	}
	return out, int64(len(out)), nil
}

func (r *stubPostRepo) Update(_ context.Context, id string, fields ports.UpdatePostFields) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Title = fields.Title
	p.Content = fields.Content
	p.Status = fields.Status
	p.PublishedAt = fields.PublishedAt
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) UpdateStatus(_ context.Context, id string, status domain.PostStatus, publishedAt *time.Time) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Status = status
	p.PublishedAt = publishedAt
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func identityWith(userID string, permissions ...string) domain.Identity {
	return domain.Identity{
		User:        domain.User{ID: userID, IsActive: true},
		Permissions: permissions,
	}
}

func TestPostService_CreateDefaultsToDraft(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	post, err := svc.CreatePost(context.Background(), "user-1", ports.CreatePostInput{
		Title: "Hello world", Content: "First post content",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Status != domain.PostDraft {
		t.Fatalf("expected draft, got %s", post.Status)
	}
	if post.PublishedAt != nil {
		t.Fatalf("draft must not carry a publish timestamp")
	}
	if post.AuthorID != "user-1" {
		t.Fatalf("author must be the caller, got %q", post.AuthorID)
	}
}

func TestPostService_CreatePublishedStampsTime(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	post, err := svc.CreatePost(context.Background(), "user-1", ports.CreatePostInput{
		Title: "Hello world", Content: "First post content", Status: domain.PostPublished,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.PublishedAt == nil {
		t.Fatalf("published post must carry a publish timestamp")
	}
}

func TestPostService_UpdateOwnership(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	post, _ := svc.CreatePost(context.Background(), "author-1", ports.CreatePostInput{
		Title: "Original", Content: "Original content here",
	})
	update := ports.UpdatePostInput{Title: "Edited", Content: "Edited content here", Status: domain.PostDraft}

	// Owner without the posts.update permission may edit their own post.
	if _, err := svc.UpdatePost(context.Background(), post.ID, update, identityWith("author-1")); err != nil {
		t.Fatalf("owner update: %v", err)
	}

	// Non-owner without the permission is rejected.
	if _, err := svc.UpdatePost(context.Background(), post.ID, update, identityWith("intruder")); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// Non-owner with posts.update may edit.
	if _, err := svc.UpdatePost(context.Background(), post.ID, update, identityWith("editor-1", "posts.update")); err != nil {
		t.Fatalf("editor update: %v", err)
	}
}

func TestPostService_UpdateKeepsPublishTimestamp(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	post, _ := svc.CreatePost(context.Background(), "author-1", ports.CreatePostInput{
		Title: "Original", Content: "Original content here", Status: domain.PostPublished,
	})
	first := repo.posts[post.ID].PublishedAt

	updated, err := svc.UpdatePost(context.Background(), post.ID, ports.UpdatePostInput{
		Title: "Edited", Content: "Edited content here", Status: domain.PostPublished,
	}, identityWith("author-1"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(*first) {
		t.Fatalf("publish timestamp must survive an update while published")
	}

	reverted, err := svc.UpdatePost(context.Background(), post.ID, ports.UpdatePostInput{
		Title: "Edited", Content: "Edited content here", Status: domain.PostDraft,
	}, identityWith("author-1"))
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.PublishedAt != nil {
		t.Fatalf("reverting to draft must clear the publish timestamp")
	}
}

func TestPostService_TogglePublish(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	post, _ := svc.CreatePost(context.Background(), "author-1", ports.CreatePostInput{
		Title: "Original", Content: "Original content here",
	})

	published, err := svc.TogglePublish(context.Background(), post.ID, true)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != domain.PostPublished || published.PublishedAt == nil {
		t.Fatalf("unexpected publish result: %+v", published)
	}

	unpublished, err := svc.TogglePublish(context.Background(), post.ID, false)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.Status != domain.PostDraft || unpublished.PublishedAt != nil {
		t.Fatalf("unexpected unpublish result: %+v", unpublished)
	}
}

func TestPostService_DeleteOwnership(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	post, _ := svc.CreatePost(context.Background(), "author-1", ports.CreatePostInput{
		Title: "Original", Content: "Original content here",
	})

	if err := svc.DeletePost(context.Background(), post.ID, identityWith("intruder")); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.DeletePost(context.Background(), post.ID, identityWith("moderator", "posts.delete")); err != nil {
		t.Fatalf("privileged delete: %v", err)
	}
	if err := svc.DeletePost(context.Background(), post.ID, identityWith("author-1")); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound after delete, got %v", err)
	}
}

func TestPostService_ListMyPosts(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	_, _ = svc.CreatePost(context.Background(), "author-1", ports.CreatePostInput{Title: "Mine one", Content: "Content long enough"})
	_, _ = svc.CreatePost(context.Background(), "author-2", ports.CreatePostInput{Title: "Theirs", Content: "Content long enough"})

	result, err := svc.ListMyPosts(context.Background(), "author-1", ports.ListPostsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Posts) != 1 || result.Posts[0].AuthorID != "author-1" {
		t.Fatalf("expected only author-1 posts, got %+v", result.Posts)
	}
}

func TestPostService_ListMyPostsIgnoresAuthorFilter(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, zerolog.Nop())

	_, _ = svc.CreatePost(context.Background(), "author-1", ports.CreatePostInput{Title: "Mine one", Content: "Content long enough"})
	_, _ = svc.CreatePost(context.Background(), "author-2", ports.CreatePostInput{Title: "Theirs", Content: "Content long enough"})

	// An author query parameter must not let the caller escape their own scope.
	result, err := svc.ListMyPosts(context.Background(), "author-1", ports.ListPostsInput{Author: "author-2"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Posts) != 1 || result.Posts[0].AuthorID != "author-1" {
		t.Fatalf("expected only author-1 posts, got %+v", result.Posts)
	}
	if repo.lastFilter.AuthorID != "author-1" || repo.lastFilter.Author != "" {
		t.Fatalf("filter must stay scoped to the caller, got %+v", repo.lastFilter)
	}
}
