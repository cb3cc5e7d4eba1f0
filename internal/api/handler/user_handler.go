package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// UserHandler exposes the administrative user endpoints.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type listUsersResponse struct {
	Users      []userView       `json:"users"`
	Pagination ports.Pagination `json:"pagination"`
}

type userResponse struct {
	User userView `json:"user"`
}

type updateUserResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}

// List handles GET /users with pagination and name/email search.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Param        search  query     string  false  "Partial match on name or email"
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.userService.ListUsers(c.Request().Context(), ports.ListUsersInput{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}

	views := make([]userView, 0, len(result.Users))
	for _, identity := range result.Users {
		views = append(views, toUserView(identity))
	}

	return c.JSON(http.StatusOK, listUsersResponse{Users: views, Pagination: result.Pagination})
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	identity, err := h.userService.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: toUserView(identity)})
}

// Update handles PUT /users/:id with a partial field set.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), c.Param("id"), ports.UpdateUserFields{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateUserResponse{
		Message: "User updated successfully",
		User: userView{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsActive:  user.IsActive,
			LastLogin: user.LastLogin,
			CreatedAt: user.CreatedAt,
		},
	})
}

// Delete handles DELETE /users/:id. Self-deletion is rejected after the
// permission check has already passed at the gate.
func (h *UserHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), c.Param("id"), identity.User.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

func toUserView(identity *domain.Identity) userView {
	return userView{
		ID:        identity.User.ID,
		Email:     identity.User.Email,
		FirstName: identity.User.FirstName,
		LastName:  identity.User.LastName,
		IsActive:  identity.User.IsActive,
		LastLogin: identity.User.LastLogin,
		CreatedAt: identity.User.CreatedAt,
		Role:      identity.RoleName,
	}
}

// queryInt parses an integer query parameter, returning 0 when absent or invalid.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
