package bookstores

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/amazon"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/errcodes"
	"github.com/sassamahha/shotenme/pkg/models"
)

type handler struct {
	bookstoreService *Service
	amazonLinks      *amazon.LinkBuilder
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	bookstores, err := h.bookstoreService.List(ctx, ListBookstoresOptions{OwnerID: user.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"bookstores": bookstores}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookstorePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	theme := ""
	if params.Theme != nil {
		theme = *params.Theme
	}

	bookstore, err := h.bookstoreService.Create(ctx, CreateBookstoreOptions{
		OwnerID:     user.ID,
		Handle:      params.Handle,
		Title:       params.Title,
		DisplayName: params.DisplayName,
		Bio:         params.Bio,
		Theme:       theme,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, bookstore))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Bookstore")
	}

	params := UpdateBookstorePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	bookstore, err := h.bookstoreService.Retrieve(ctx, RetrieveBookstoreOptions{ID: &id})
	if err != nil {
		return err
	}
	if bookstore.OwnerID != user.ID {
		return errcodes.Forbidden("You don't own this bookstore")
	}

	columns := []string{}
	if params.Handle != nil {
		bookstore.Handle = params.Handle
		columns = append(columns, "handle")
	}
	if params.Title != nil {
		bookstore.Title = params.Title
		columns = append(columns, "title")
	}
	if params.DisplayName != nil {
		bookstore.DisplayName = params.DisplayName
		columns = append(columns, "display_name")
	}
	if params.Bio != nil {
		bookstore.Bio = params.Bio
		columns = append(columns, "bio")
	}
	if params.Theme != nil {
		bookstore.Theme = *params.Theme
		columns = append(columns, "theme")
	}

	if err := h.bookstoreService.Update(ctx, bookstore, UpdateBookstoreOptions{Columns: columns}); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, bookstore))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Bookstore")
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	bookstore, err := h.bookstoreService.Retrieve(ctx, RetrieveBookstoreOptions{ID: &id})
	if err != nil {
		return err
	}
	if bookstore.OwnerID != user.ID {
		return errcodes.Forbidden("You don't own this bookstore")
	}

	if err := h.bookstoreService.Delete(ctx, id); err != nil {
		return err
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

// retrieveShelf serves the public shelf page data for a handle. Anonymous
// visitors see public entries only; the owner also sees private ones.
func (h *handler) retrieveShelf(c echo.Context) error {
	ctx := c.Request().Context()

	handle := c.Param("handle")
	if handle == "" {
		return errcodes.NotFound("Bookstore")
	}

	bookstore, err := h.bookstoreService.Retrieve(ctx, RetrieveBookstoreOptions{
		Handle: &handle,
	})
	if err != nil {
		return err
	}

	publicOnly := true
	if user := auth.UserFromContext(c); user != nil && user.ID == bookstore.OwnerID {
		publicOnly = false
	}

	bookstore, err = h.bookstoreService.Retrieve(ctx, RetrieveBookstoreOptions{
		Handle:     &handle,
		WithBooks:  true,
		PublicOnly: publicOnly,
	})
	if err != nil {
		return err
	}

	// Outbound links carry the shelf owner's associate tag when they're
	// entitled to one.
	entries := make([]*shelfEntry, 0, len(bookstore.UserBooks))
	for _, ub := range bookstore.UserBooks {
		entry := &shelfEntry{UserBook: ub}
		if ub.Book != nil {
			entry.AmazonURL = h.amazonLinks.Link(ub.Book.ASIN, bookstore.Owner)
		}
		entries = append(entries, entry)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &shelfResponse{
		Bookstore: bookstore,
		UserBooks: entries,
	}))
}

type shelfEntry struct {
	*models.UserBook
	AmazonURL string `json:"amazon_url,omitempty"`
}

type shelfResponse struct {
	*models.Bookstore
	UserBooks []*shelfEntry `json:"user_books"`
}
