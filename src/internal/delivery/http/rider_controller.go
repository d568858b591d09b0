package http

import (
	"lpg-marketplace/src/internal/delivery/http/middleware"
	"lpg-marketplace/src/internal/model"
	"lpg-marketplace/src/internal/usecase"
	"lpg-marketplace/src/pkg/log"
	"lpg-marketplace/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type RiderController struct {
	Log     log.Log
	UseCase *usecase.RiderUseCase
}

func NewRiderController(useCase *usecase.RiderUseCase, logger log.Log) *RiderController {
	return &RiderController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *RiderController) Register(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.RegisterRiderRequest{
		UserID: auth.Metadata.UserID,
	}

	result := c.UseCase.RegisterRider(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Rider Registered", fiber.StatusCreated, ctx)
}

func (c *RiderController) UpdateLocation(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.RiderLocationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RiderController.UpdateLocation", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RiderID = auth.Metadata.UserID

	result := c.UseCase.UpdateLocation(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Location Updated", fiber.StatusOK, ctx)
}

func (c *RiderController) AcceptOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.AcceptOrderRequest{
		RiderID: auth.Metadata.UserID,
		OrderID: ctx.Params("orderId"),
	}

	result := c.UseCase.AcceptOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Accepted", fiber.StatusOK, ctx)
}

func (c *RiderController) MarkDispatched(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.OrderActionRequest{
		CallerID: auth.Metadata.UserID,
		OrderID:  ctx.Params("orderId"),
	}

	result := c.UseCase.MarkDispatched(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Dispatched", fiber.StatusOK, ctx)
}

func (c *RiderController) MarkDelivered(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.OrderActionRequest{
		CallerID: auth.Metadata.UserID,
		OrderID:  ctx.Params("orderId"),
	}

	result := c.UseCase.MarkDelivered(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Delivered", fiber.StatusOK, ctx)
}

func (c *RiderController) NearbyOrders(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.NearbyOrdersRequest{
		RiderID:   auth.Metadata.UserID,
		Longitude: ctx.QueryFloat("longitude"),
		Latitude:  ctx.QueryFloat("latitude"),
		RadiusM:   ctx.QueryFloat("radiusMeters", 5000),
	}

	result := c.UseCase.ListNearbyOrders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Nearby Orders", fiber.StatusOK, ctx)
}
