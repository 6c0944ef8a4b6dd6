package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/errcodes"
)

type handler struct {
	bookService *Service
}

func (h *handler) add(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	isPublic := true
	if params.IsPublic != nil {
		isPublic = *params.IsPublic
	}

	userBook, err := h.bookService.AddBook(ctx, AddBookOptions{
		BookstoreID: params.BookstoreID,
		CallerID:    user.ID,
		Mode:        params.Mode,
		ISBN:        params.ISBN,
		ASIN:        params.ASIN,
		URL:         params.URL,
		Title:       params.Title,
		Author:      params.Author,
		ImageURL:    params.ImageURL,
		Comment:     params.Comment,
		IsPublic:    isPublic,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, echo.Map{
		"user_book_id": userBook.ID,
		"user_book":    userBook,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.Retrieve(ctx, RetrieveBookOptions{ID: id})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}
