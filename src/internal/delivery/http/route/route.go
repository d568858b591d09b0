package route

import (
	"lpg-marketplace/src/internal/delivery/http"
	"lpg-marketplace/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App             *fiber.App
	OrderController *http.OrderController
	RiderController *http.RiderController
	AuthMiddleware  fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	c.App.Post("/orders/v1", c.OrderController.CreateOrder)
	c.App.Get("/orders/v1/mine", c.OrderController.ListMyOrders)
	c.App.Get("/orders/v1/merchant/:merchantId", c.OrderController.ListMerchantOrders)
	c.App.Get("/orders/v1/:orderId", c.OrderController.GetOrder)
	c.App.Post("/orders/v1/:orderId/cancel", c.OrderController.CancelOrder)
	c.App.Patch("/orders/v1/:orderId/status", c.OrderController.UpdateStatus)
	c.App.Post("/orders/v1/:orderId/accept", c.RiderController.AcceptOrder)
	c.App.Post("/orders/v1/:orderId/dispatch", c.RiderController.MarkDispatched)
	c.App.Post("/orders/v1/:orderId/deliver", c.RiderController.MarkDelivered)

	c.App.Post("/riders/v1/register", c.RiderController.Register)
	c.App.Post("/riders/v1/location", c.RiderController.UpdateLocation)
	c.App.Get("/riders/v1/nearby-orders", c.RiderController.NearbyOrders)
}
