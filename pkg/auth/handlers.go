package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sassamahha/shotenme/pkg/models"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "shotenme_session"
	// CookieMaxAge is how long the cookie is valid.
	CookieMaxAge = 7 * 24 * time.Hour // 7 days
)

type handler struct {
	authService *Service
}

func buildMeResponse(user *models.User) MeResponse {
	return MeResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		Handle:             user.Handle,
		DisplayName:        user.DisplayName,
		AmazonAssociateTag: user.AmazonAssociateTag,
		IsPro:              user.IsPro,
	}
}

func (h *handler) setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// signup registers a new user and logs them in.
func (h *handler) signup(c echo.Context) error {
	ctx := c.Request().Context()

	params := SignupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Signup(ctx, SignupOptions{
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	h.setSessionCookie(c, token, int(CookieMaxAge.Seconds()))

	return c.JSON(http.StatusCreated, buildMeResponse(user))
}

// login handles user login.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	h.setSessionCookie(c, token, int(CookieMaxAge.Seconds()))

	return c.JSON(http.StatusOK, buildMeResponse(user))
}

// logout clears the session cookie.
func (h *handler) logout(c echo.Context) error {
	h.setSessionCookie(c, "", -1)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// me returns the current authenticated user's info.
func (h *handler) me(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
	}

	claims, err := h.authService.ValidateToken(cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
	}

	user, err := h.authService.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, buildMeResponse(user))
}
