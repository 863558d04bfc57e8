package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/gateway"
	"github.com/arjunks/storefront/internal/remote"
	"github.com/arjunks/storefront/internal/service"
	"github.com/arjunks/storefront/internal/storage"
	"github.com/arjunks/storefront/internal/util"
)

func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if status, ok := statusFor(err); ok {
			if status >= http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			c.JSON(status, map[string]string{"reason": err.Error()})
			return
		}

		var customErr util.ResponseError
		if errors.As(err, &customErr) {
			c.JSON(customErr.Status, map[string]string{"reason": customErr.Msg})
			return
		}

		he, ok := err.(*echo.HTTPError)
		if ok {
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			if err := c.JSON(he.Code, map[string]string{"reason": he.Message.(string)}); err != nil {
				log.Errorw("failed to write json response", "error", err)
			}
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		c.JSON(http.StatusInternalServerError, map[string]string{"reason": "internal server error"})
	}
}

// statusFor maps the failure taxonomy to response statuses. Session
// expiry never appears here on its own: the session client absorbs it and
// only its unrecovered form, ErrUnauthenticated, reaches the handler.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, remote.ErrUnauthenticated),
		errors.Is(err, service.ErrRefreshFailed):
		return http.StatusUnauthorized, true
	case errors.Is(err, remote.ErrSessionExpired):
		return remote.CodeSessionExpired, true
	case errors.Is(err, remote.ErrNetworkUnreachable),
		errors.Is(err, remote.ErrServerError),
		errors.Is(err, service.ErrOrderCreationFailed):
		return http.StatusBadGateway, true
	case errors.Is(err, gateway.ErrCheckoutUnavailable):
		return http.StatusServiceUnavailable, true
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest, true
	case errors.Is(err, storage.ErrOrderNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, storage.ErrPaymentConflict):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrSecretNotConfigured):
		return http.StatusInternalServerError, true
	}
	return 0, false
}
