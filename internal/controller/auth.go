package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arjunks/storefront/internal/models"
)

// (POST /api/auth/login).
// Credentials are forwarded to the remote API; the returned pair lands in
// HttpOnly cookies and never appears in the response body.
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	pair, err := c.remote.Login(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	c.sessionStore(ctx).Set(pair)
	return ctx.JSON(http.StatusOK, map[string]string{"message": "logged in"})
}

// (POST /api/auth/refresh).
func (c *Controller) RefreshTokens(ctx echo.Context) error {
	store := c.sessionStore(ctx)
	pair, _ := store.Get()
	if _, err := c.refresher.Refresh(ctx.Request().Context(), store, pair.AccessToken); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]string{"message": "session refreshed"})
}

// (POST /api/auth/logout).
func (c *Controller) Logout(ctx echo.Context) error {
	c.sessionStore(ctx).Clear()

	if err := c.publisher.PublishSessionRevoked(ctx.Request().Context(), "logout"); err != nil {
		c.zapLogger.Errorw("failed to publish session revoked event", "error", err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
