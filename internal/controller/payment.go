package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/arjunks/storefront/internal/gateway"
	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/service"
)

// (POST /api/payment/order).
func (c *Controller) CreatePaymentOrder(ctx echo.Context) error {
	var req models.CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be a decimal number")
	}

	order, err := c.payments.CreateOrder(ctx.Request().Context(), c.sessionStore(ctx), amount, req.Currency)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, order)
}

// (GET /api/payment/checkout/:orderID).
// Returns the parameters the storefront opens the gateway checkout with.
func (c *Controller) OpenCheckout(ctx echo.Context) error {
	orderID := ctx.Param("orderID")

	order, err := c.payments.GetOrder(ctx.Request().Context(), orderID)
	if err != nil {
		return err
	}

	prefill := gateway.Prefill{
		Name:    ctx.QueryParam("name"),
		Email:   ctx.QueryParam("email"),
		Contact: ctx.QueryParam("contact"),
	}
	params, err := c.checkout.OpenCheckout(ctx.Request().Context(), *order, prefill)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, params)
}

// (POST /api/payment/verify).
// The gateway's callback contract fixes the statuses here: 400 when any
// of the three fields is missing, 500 when the server secret is not
// configured, otherwise 200 with the verdict.
func (c *Controller) VerifyPayment(ctx echo.Context) error {
	cb := bindCallback(ctx)

	result, err := c.payments.ConfirmPayment(ctx.Request().Context(), cb)
	if err != nil {
		if errors.Is(err, service.ErrSecretNotConfigured) {
			c.zapLogger.Errorw("payment verification misconfigured", "error", err)
			return ctx.JSON(http.StatusInternalServerError, models.VerifyResponse{
				Success: false,
				Message: "payment verification is not configured",
			})
		}
		return err
	}

	if !result.Verified {
		if result.Reason == models.ReasonMissingFields {
			return ctx.JSON(http.StatusBadRequest, models.VerifyResponse{
				Success: false,
				Message: "missing payment callback parameters",
			})
		}
		return ctx.JSON(http.StatusOK, models.VerifyResponse{
			Success: false,
			Message: "payment could not be verified",
		})
	}

	return ctx.JSON(http.StatusOK, models.VerifyResponse{
		Success: true,
		Message: "payment verified",
	})
}

// bindCallback accepts the gateway parameters from the POST body or the
// query string; the gateway uses either depending on the checkout flow.
func bindCallback(ctx echo.Context) models.PaymentCallback {
	var cb models.PaymentCallback
	_ = ctx.Bind(&cb)

	if cb.OrderID == "" {
		cb.OrderID = ctx.QueryParam("razorpay_order_id")
	}
	if cb.PaymentID == "" {
		cb.PaymentID = ctx.QueryParam("razorpay_payment_id")
	}
	if cb.Signature == "" {
		cb.Signature = ctx.QueryParam("razorpay_signature")
	}
	return cb
}
