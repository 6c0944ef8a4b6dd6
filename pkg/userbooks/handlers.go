package userbooks

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/errcodes"
)

type handler struct {
	userBookService *Service
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateUserBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	userBook, err := h.userBookService.Update(ctx, UpdateOptions{
		UserBookID: id,
		CallerID:   user.ID,
		Comment:    params.Comment,
		IsPublic:   params.IsPublic,
		Title:      params.Title,
		Author:     params.Author,
		ImageURL:   params.ImageURL,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, userBook))
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	err = h.userBookService.Remove(ctx, RemoveOptions{
		UserBookID: id,
		CallerID:   user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) reorder(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReorderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	err := h.userBookService.Reorder(ctx, ReorderOptions{
		BookstoreID: params.BookstoreID,
		CallerID:    user.ID,
		UserBookIDs: params.UserBookIDs,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"ok": true}))
}
