package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/errcodes"
)

type handler struct {
	userService *Service
}

func (h *handler) updateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateProfilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	updated, err := h.userService.UpdateProfile(ctx, UpdateProfileOptions{
		UserID:      user.ID,
		Handle:      params.Handle,
		DisplayName: params.DisplayName,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, updated))
}

func (h *handler) updateAccount(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateAccountPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("User not found in context")
	}

	opts := UpdateAccountOptions{
		UserID:          user.ID,
		Email:           params.Email,
		CurrentPassword: params.CurrentPassword,
		NewPassword:     params.NewPassword,
	}

	// An empty string clears the tag; omitting the field leaves it alone.
	if params.AmazonAssociateTag != nil {
		opts.SetAmazonAssociateTag = true
		if *params.AmazonAssociateTag != "" {
			opts.AmazonAssociateTag = params.AmazonAssociateTag
		}
	}

	updated, err := h.userService.UpdateAccount(ctx, opts)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, updated))
}
