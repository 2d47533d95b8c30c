package server

import (
	"net/http"

	"ordermgmt/internal/config"
	"ordermgmt/internal/handler"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	Config  config.Config
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	d.Product.RegisterRoutes(e)
	d.Cart.RegisterRoutes(e, d.Config)
	d.Order.RegisterRoutes(e, d.Config)
}
