package http

import (
	"lpg-marketplace/src/internal/delivery/http/middleware"
	"lpg-marketplace/src/internal/model"
	"lpg-marketplace/src/internal/usecase"
	"lpg-marketplace/src/pkg/log"
	"lpg-marketplace/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	Log     log.Log
	UseCase *usecase.OrderUseCase
}

func NewOrderController(useCase *usecase.OrderUseCase, logger log.Log) *OrderController {
	return &OrderController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CreateOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.CreateOrder", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.CustomerID = auth.Metadata.UserID

	result := c.UseCase.CreateOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Created", fiber.StatusCreated, ctx)
}

func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.GetOrderRequest{
		CallerID: auth.Metadata.UserID,
		OrderID:  ctx.Params("orderId"),
	}

	result := c.UseCase.GetOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Detail", fiber.StatusOK, ctx)
}

func (c *OrderController) ListMyOrders(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.ListCustomerOrdersRequest{
		CustomerID: auth.Metadata.UserID,
	}

	result := c.UseCase.ListCustomerOrders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "My Orders", fiber.StatusOK, ctx)
}

func (c *OrderController) ListMerchantOrders(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.ListMerchantOrdersRequest{
		CallerID:   auth.Metadata.UserID,
		MerchantID: ctx.Params("merchantId"),
	}

	result := c.UseCase.ListMerchantOrders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Merchant Orders", fiber.StatusOK, ctx)
}

func (c *OrderController) CancelOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CancelOrderRequest)
	if err := ctx.BodyParser(request); err != nil && err != fiber.ErrUnprocessableEntity {
		c.Log.Error("OrderController.CancelOrder", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.CallerID = auth.Metadata.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.CancelOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Cancelled", fiber.StatusOK, ctx)
}

func (c *OrderController) UpdateStatus(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.UpdateOrderStatusRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.UpdateStatus", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.CallerID = auth.Metadata.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.UpdateOrderStatus(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Status Updated", fiber.StatusOK, ctx)
}
