package controller

import (
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openapiSpec []byte

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, err
	}
	return doc, nil
}

// RegisterHandlers attaches every route to the given group, so the
// group's middleware (the OpenAPI request validator) runs on all of them.
func RegisterHandlers(g *echo.Group, c *Controller) {
	g.GET("/ping", c.CheckServer)

	g.POST("/auth/login", c.Login)
	g.POST("/auth/refresh", c.RefreshTokens)
	g.POST("/auth/logout", c.Logout)

	g.POST("/payment/order", c.CreatePaymentOrder)
	g.GET("/payment/checkout/:orderID", c.OpenCheckout)
	g.POST("/payment/verify", c.VerifyPayment)
}
