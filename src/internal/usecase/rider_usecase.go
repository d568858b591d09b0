package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/model"
	"lpg-marketplace/src/internal/model/converter"
	httpError "lpg-marketplace/src/pkg/http-error"
	"lpg-marketplace/src/pkg/log"
	"lpg-marketplace/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// nearbyOrdersPageSize bounds the pending-order listing riders poll.
const nearbyOrdersPageSize = 20

type RiderUseCase struct {
	Log             log.Log
	Validate        *validator.Validate
	Config          *viper.Viper
	OrderRepository OrderStore
	RiderRepository RiderStore
	Geo             GeoStore
	OrderProducer   OrderEventPublisher
}

func NewRiderUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	orderRepository OrderStore,
	riderRepository RiderStore,
	geo GeoStore,
	orderProducer OrderEventPublisher,
) *RiderUseCase {
	return &RiderUseCase{
		Log:             logger,
		Validate:        validate,
		Config:          cfg,
		OrderRepository: orderRepository,
		RiderRepository: riderRepository,
		Geo:             geo,
		OrderProducer:   orderProducer,
	}
}

// RegisterRider creates the rider profile and flips the user role in one
// transaction. Registering twice is a conflict, not a fault.
func (c *RiderUseCase) RegisterRider(ctx context.Context, request *model.RegisterRiderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "RegisterRider", utils.ConvertString(request))
		return result
	}

	exists, err := c.RiderRepository.Exists(ctx, request.UserID)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error checking rider profile: %v", err), "RegisterRider", request.UserID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if exists {
		errObj := httpError.NewConflict()
		errObj.Message = "you already have a rider profile"
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "RegisterRider", request.UserID)
		return result
	}

	if err := c.RiderRepository.Register(ctx, request.UserID); err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("failed to register rider: %v", err), "RegisterRider", request.UserID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	c.Log.Info("rider-usecase", "rider registered", "RegisterRider", request.UserID)
	result.Data = model.RegisterRiderResponse{RiderID: request.UserID}
	return result
}

// UpdateLocation refreshes the rider's heartbeat row and the GEO index entry
// the broadcast job searches.
func (c *RiderUseCase) UpdateLocation(ctx context.Context, request *model.RiderLocationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "UpdateLocation", utils.ConvertString(request))
		return result
	}

	exists, err := c.RiderRepository.Exists(ctx, request.RiderID)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error checking rider profile: %v", err), "UpdateLocation", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !exists {
		errObj := httpError.NewForbidden()
		errObj.Message = "you must register as a rider first"
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "UpdateLocation", request.RiderID)
		return result
	}

	if err := c.RiderRepository.Heartbeat(ctx, request.RiderID); err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("failed to refresh rider heartbeat: %v", err), "UpdateLocation", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	if err := c.Geo.UpdateRiderLocation(ctx, request.RiderID, request.Longitude, request.Latitude); err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("failed to index rider location: %v", err), "UpdateLocation", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	result.Data = map[string]string{"status": "ok"}
	return result
}

// AcceptOrder is the race-claim path. The write is one conditional update
// keyed on the order still being pending; under concurrent claims the store
// matches exactly one rider and everyone else lands in the zero-rows branch.
func (c *RiderUseCase) AcceptOrder(ctx context.Context, request *model.AcceptOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "AcceptOrder", utils.ConvertString(request))
		return result
	}

	isRider, err := c.RiderRepository.Exists(ctx, request.RiderID)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error checking rider profile: %v", err), "AcceptOrder", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !isRider {
		errObj := httpError.NewForbidden()
		errObj.Message = "you must register as a rider before accepting orders"
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "AcceptOrder", request.RiderID)
		return result
	}

	ok, err := c.OrderRepository.ClaimPending(ctx, request.OrderID, request.RiderID)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error claiming order: %v", err), "AcceptOrder", request.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	if !ok {
		// Zero rows matched: either the order never existed or someone else
		// got there first. A follow-up read tells the two apart.
		order, findErr := c.OrderRepository.FindByID(ctx, request.OrderID)
		if findErr != nil {
			c.Log.Error("rider-usecase", fmt.Sprintf("error loading order after failed claim: %v", findErr), "AcceptOrder", request.OrderID)
			result.Error = httpError.NewInternalServerError()
			return result
		}
		if order == nil {
			errObj := httpError.NewNotFound()
			errObj.Message = "order not found"
			result.Error = errObj
			return result
		}
		errObj := httpError.NewConflict()
		errObj.Message = "Order is no longer available"
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "AcceptOrder", request.OrderID)
		return result
	}

	if err := c.Geo.RemovePendingOrder(ctx, request.OrderID); err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("failed to unindex claimed order: %v", err), "AcceptOrder", request.OrderID)
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil || order == nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("failed to reload claimed order: %v", err), "AcceptOrder", request.OrderID)
	} else {
		if payload, marshalErr := json.Marshal(converter.OrderToResponse(order)); marshalErr == nil {
			if cacheErr := c.Geo.CacheActiveOrder(ctx, request.RiderID, payload, 2*time.Hour); cacheErr != nil {
				c.Log.Error("rider-usecase", fmt.Sprintf("failed to cache active order: %v", cacheErr), "AcceptOrder", request.OrderID)
			}
		}
		if c.OrderProducer != nil {
			if sendErr := c.OrderProducer.SendStatusChanged(converter.OrderToEvent(order, entity.StatusPending, request.RiderID)); sendErr != nil {
				c.Log.Error("rider-usecase", fmt.Sprintf("failed to publish accept event: %v", sendErr), "AcceptOrder", request.OrderID)
			}
		}
	}

	c.Log.Info("rider-usecase", "order claimed", "AcceptOrder", request.OrderID)
	result.Data = model.AcceptOrderResponse{Success: true, OrderID: request.OrderID}
	return result
}

// MarkDispatched advances accepted -> dispatched for the assigned rider. The
// conditional update pins both status and rider id, so a repeat call or a
// wrong caller lands in the zero-rows branch instead of faulting.
func (c *RiderUseCase) MarkDispatched(ctx context.Context, request *model.OrderActionRequest) utils.Result {
	return c.advance(ctx, request, entity.StatusAccepted, entity.StatusDispatched, "MarkDispatched")
}

// MarkDelivered advances dispatched -> delivered for the assigned rider.
func (c *RiderUseCase) MarkDelivered(ctx context.Context, request *model.OrderActionRequest) utils.Result {
	return c.advance(ctx, request, entity.StatusDispatched, entity.StatusDelivered, "MarkDelivered")
}

func (c *RiderUseCase) advance(ctx context.Context, request *model.OrderActionRequest, fromStatus, toStatus, scope string) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, scope, utils.ConvertString(request))
		return result
	}

	ok, err := c.OrderRepository.UpdateStatusForRider(ctx, request.OrderID, request.CallerID, fromStatus, toStatus)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error updating order status: %v", err), scope, request.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order could not be moved to %s; it may have changed or you are not its rider", toStatus)
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, scope, request.OrderID)
		return result
	}

	if c.OrderProducer != nil {
		if order, findErr := c.OrderRepository.FindByID(ctx, request.OrderID); findErr == nil && order != nil {
			if sendErr := c.OrderProducer.SendStatusChanged(converter.OrderToEvent(order, fromStatus, request.CallerID)); sendErr != nil {
				c.Log.Error("rider-usecase", fmt.Sprintf("failed to publish status event: %v", sendErr), scope, request.OrderID)
			}
		}
	}

	result.Data = model.AcceptOrderResponse{Success: true, OrderID: request.OrderID}
	return result
}

// ListNearbyOrders returns pending orders around the rider, oldest first so
// claim ordering stays fair. A caller without a rider profile gets an empty
// list rather than an error.
func (c *RiderUseCase) ListNearbyOrders(ctx context.Context, request *model.NearbyOrdersRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "ListNearbyOrders", utils.ConvertString(request))
		return result
	}

	isRider, err := c.RiderRepository.Exists(ctx, request.RiderID)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error checking rider profile: %v", err), "ListNearbyOrders", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !isRider {
		result.Data = []model.OrderResponse{}
		return result
	}

	candidateIDs, err := c.Geo.NearbyPendingOrders(ctx, request.Longitude, request.Latitude, request.RadiusM, nearbyOrdersPageSize*5)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error searching pending orders: %v", err), "ListNearbyOrders", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	orders, err := c.OrderRepository.ListPendingByIDs(ctx, candidateIDs, nearbyOrdersPageSize)
	if err != nil {
		c.Log.Error("rider-usecase", fmt.Sprintf("error listing pending orders: %v", err), "ListNearbyOrders", request.RiderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	result.Data = converter.OrdersToResponse(orders)
	return result
}
