package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/events"
	"github.com/arjunks/storefront/internal/gateway"
	"github.com/arjunks/storefront/internal/remote"
	"github.com/arjunks/storefront/internal/service"
	"github.com/arjunks/storefront/internal/session"
	"github.com/arjunks/storefront/internal/util"
)

type Controller struct {
	zapLogger *zap.SugaredLogger
	remote    *remote.Client
	refresher *service.RefreshCoordinator
	payments  *service.PaymentOrders
	checkout  *gateway.Loader
	publisher events.Publisher
	cookieCfg *util.CookieConfig
}

func NewController(
	logger *zap.SugaredLogger,
	remoteClient *remote.Client,
	refresher *service.RefreshCoordinator,
	payments *service.PaymentOrders,
	checkout *gateway.Loader,
	publisher events.Publisher,
	cookieCfg *util.CookieConfig,
) *Controller {
	return &Controller{
		zapLogger: logger,
		remote:    remoteClient,
		refresher: refresher,
		payments:  payments,
		checkout:  checkout,
		publisher: publisher,
		cookieCfg: cookieCfg,
	}
}

// sessionStore binds the request's cookies to the token store the
// services operate on. Handlers are the response-producing path, so this
// is the only place cookie stores get built.
func (c *Controller) sessionStore(ctx echo.Context) session.Store {
	return session.NewCookieStore(ctx, c.cookieCfg)
}

// (GET /api/ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	ctx.JSON(http.StatusOK, "ok")
	return nil
}

func InternalError(ctx echo.Context, err error) error {
	var customErr util.ResponseError
	if errors.As(err, &customErr) {
		ctx.JSON(customErr.Status, ErrorResponse{Reason: customErr.Msg})
		return err
	}

	ctx.JSON(http.StatusInternalServerError, ErrorResponse{Reason: err.Error()})
	return err
}
