package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// PostHandler exposes the content endpoints.
type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type listPostsResponse struct {
	Posts      []*domain.PostWithAuthor `json:"posts"`
	Pagination ports.Pagination         `json:"pagination"`
}

type postDetailResponse struct {
	Post *domain.PostWithAuthor `json:"post"`
}

type mutatePostResponse struct {
	Message string       `json:"message"`
	Post    *domain.Post `json:"post"`
}

// List handles GET /posts with status and author filters.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Param        status  query     string  false  "Filter by status (draft|published)"
// @Param        author  query     string  false  "Partial match on author name or email"
// @Success      200  {object}  listPostsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	result, err := h.postService.ListPosts(c.Request().Context(), h.listInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.listResponse(result))
}

// ListMine handles GET /posts/my/posts — the caller's own posts.
func (h *PostHandler) ListMine(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.postService.ListMyPosts(c.Request().Context(), identity.User.ID, h.listInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.listResponse(result))
}

// Get handles GET /posts/:id.
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.postService.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postDetailResponse{Post: post})
}

// Create handles POST /posts. The caller becomes the author.
func (h *PostHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.CreatePost(c.Request().Context(), identity.User.ID, ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  domain.PostStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, mutatePostResponse{Message: "Post created successfully", Post: post})
}

// Update handles PUT /posts/:id. Ownership-or-permission is enforced by the service.
func (h *PostHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := domain.PostStatus(req.Status)
	if status == "" {
		status = domain.PostDraft
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), c.Param("id"), ports.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  status,
	}, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mutatePostResponse{Message: "Post updated successfully", Post: post})
}

// TogglePublish handles PATCH /posts/:id/publish.
func (h *PostHandler) TogglePublish(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.postService.TogglePublish(c.Request().Context(), c.Param("id"), req.Publish)
	if err != nil {
		return err
	}

	message := "Post unpublished successfully"
	if req.Publish {
		message = "Post published successfully"
	}
	return c.JSON(http.StatusOK, mutatePostResponse{Message: message, Post: post})
}

// Delete handles DELETE /posts/:id. Ownership-or-permission is enforced by the service.
func (h *PostHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.postService.DeletePost(c.Request().Context(), c.Param("id"), identity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

func (h *PostHandler) listInput(c echo.Context) ports.ListPostsInput {
	return ports.ListPostsInput{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Status: c.QueryParam("status"),
		Author: c.QueryParam("author"),
	}
}

func (h *PostHandler) listResponse(result *ports.ListPostsResult) listPostsResponse {
	posts := result.Posts
	if posts == nil {
		posts = []*domain.PostWithAuthor{}
	}
	return listPostsResponse{Posts: posts, Pagination: result.Pagination}
}
