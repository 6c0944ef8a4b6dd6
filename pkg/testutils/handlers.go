package testutils

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/models"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
	IsPro    bool    `json:"is_pro"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// createUser creates a test user.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		IsPro:        req.IsPro,
	}

	_, err = h.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// deleteAllResponse is the response body for the bulk delete endpoints.
type deleteAllResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes all users along with their bookstores and shelves.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.deleteShelves(ctx); err != nil {
		return err
	}

	result, err := h.db.NewDelete().
		Model((*models.User)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	deleted, _ := result.RowsAffected()

	return c.JSON(http.StatusOK, deleteAllResponse{
		Deleted: int(deleted),
	})
}

// deleteAllBookstores deletes all bookstores and shelf entries but keeps the
// users and the shared catalog.
// DELETE /test/bookstores.
func (h *handler) deleteAllBookstores(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.deleteShelves(ctx); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteAllResponse{})
}

func (h *handler) deleteShelves(ctx context.Context) error {
	_, err := h.db.NewDelete().
		Model((*models.UserBook)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete shelf entries")
	}

	_, err = h.db.NewDelete().
		Model((*models.Bookstore)(nil)).
		Where("1=1").
		Exec(ctx)
	return errors.Wrap(err, "failed to delete bookstores")
}
