package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/geofence"
	"lpg-marketplace/src/internal/model"
	"lpg-marketplace/src/internal/model/converter"
	"lpg-marketplace/src/internal/pricing"
	httpError "lpg-marketplace/src/pkg/http-error"
	"lpg-marketplace/src/pkg/log"
	"lpg-marketplace/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

// TaskOrderBroadcast is the asynq task type enqueued after an order lands in
// pending; the mux handler fans it out to nearby online riders.
const TaskOrderBroadcast = "order:broadcast-pending"

type OrderUseCase struct {
	Log                log.Log
	Validate           *validator.Validate
	Config             *viper.Viper
	OrderRepository    OrderStore
	MerchantRepository MerchantStore
	RiderRepository    RiderStore
	Geo                GeoStore
	OrderProducer      OrderEventPublisher
	AsynqClient        TaskEnqueuer
}

func NewOrderUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	orderRepository OrderStore,
	merchantRepository MerchantStore,
	riderRepository RiderStore,
	geo GeoStore,
	orderProducer OrderEventPublisher,
	asynqClient TaskEnqueuer,
) *OrderUseCase {
	return &OrderUseCase{
		Log:                logger,
		Validate:           validate,
		Config:             cfg,
		OrderRepository:    orderRepository,
		MerchantRepository: merchantRepository,
		RiderRepository:    riderRepository,
		Geo:                geo,
		OrderProducer:      orderProducer,
		AsynqClient:        asynqClient,
	}
}

// CreateOrder runs the six creation gates in order, each failing fast with its
// own caller-facing reason, then persists the order in pending with the
// server-computed total. The request never contributes to the price.
func (c *OrderUseCase) CreateOrder(ctx context.Context, request *model.CreateOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", utils.ConvertString(request))
		return result
	}

	merchantRow, err := c.MerchantRepository.FindByID(ctx, request.MerchantID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error loading merchant: %v", err), "CreateOrder", request.MerchantID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if merchantRow == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "merchant not found"
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", request.MerchantID)
		return result
	}

	merchant, err := converter.MerchantFromEntity(merchantRow)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("corrupt merchant record: %v", err), "CreateOrder", request.MerchantID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	if !merchant.IsOpen {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("%s is currently closed", merchant.Name)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", "")
		return result
	}

	if !merchant.CarriesBrand(request.Brand) {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("this merchant does not carry %s", request.Brand)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", "")
		return result
	}

	if !merchant.CarriesSize(request.TankSize) {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("this merchant does not carry %s tanks", request.TankSize)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", "")
		return result
	}

	unitPrice, err := pricing.ResolveUnitPrice(merchant.Prices, request.Brand, request.TankSize)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("no price configured for %s", pricing.Key(request.Brand, request.TankSize))
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", "")
		return result
	}

	deliveryPoint := geofence.Point{Lng: request.Longitude, Lat: request.Latitude}
	if !merchant.Area.Contains(deliveryPoint) {
		errObj := httpError.NewBadRequest()
		if merchant.Area.HasPolygon() {
			errObj.Message = "delivery location is outside this merchant's delivery zone"
		} else {
			errObj.Message = fmt.Sprintf("delivery location is %.0fm away; this merchant delivers within %.0fm",
				merchant.Area.Distance(deliveryPoint), merchant.Area.RadiusM)
		}
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", "")
		return result
	}

	order := &entity.Order{
		OrderID:         uuid.NewString(),
		CustomerID:      request.CustomerID,
		MerchantID:      request.MerchantID,
		Brand:           request.Brand,
		TankSize:        request.TankSize,
		Quantity:        request.Quantity,
		DeliveryLng:     request.Longitude,
		DeliveryLat:     request.Latitude,
		DeliveryAddress: request.DeliveryAddress,
		Notes:           request.Notes,
		TotalPrice:      pricing.ComputeTotal(unitPrice, request.Quantity),
		Status:          entity.StatusPending,
	}

	if err := c.OrderRepository.Create(ctx, order); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to persist order: %v", err), "CreateOrder", order.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	if err := c.Geo.AddPendingOrder(ctx, order.OrderID, order.DeliveryLng, order.DeliveryLat); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to index pending order: %v", err), "CreateOrder", order.OrderID)
	}

	if c.OrderProducer != nil {
		event := converter.OrderToEvent(order, "", request.CustomerID)
		if err := c.OrderProducer.SendOrderCreated(event); err != nil {
			c.Log.Error("order-usecase", fmt.Sprintf("failed to publish order created event: %v", err), "CreateOrder", order.OrderID)
		}
	}

	c.enqueueBroadcast(order)

	c.Log.Info("order-usecase", "order created", "CreateOrder", order.OrderID)
	result.Data = model.CreateOrderResponse{
		OrderID:    order.OrderID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	}
	return result
}

// GetOrder returns the order only to the customer, the assigned rider or the
// merchant owner. Anyone else gets the same NotFound an absent order gets.
func (c *OrderUseCase) GetOrder(ctx context.Context, request *model.GetOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "GetOrder", utils.ConvertString(request))
		return result
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error loading order: %v", err), "GetOrder", request.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		result.Error = errObj
		return result
	}

	authorized, err := c.callerCanSeeOrder(ctx, request.CallerID, order)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error checking order visibility: %v", err), "GetOrder", request.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !authorized {
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		result.Error = errObj
		return result
	}

	result.Data = converter.OrderToResponse(order)
	return result
}

func (c *OrderUseCase) ListCustomerOrders(ctx context.Context, request *model.ListCustomerOrdersRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "ListCustomerOrders", utils.ConvertString(request))
		return result
	}

	orders, err := c.OrderRepository.ListByCustomer(ctx, request.CustomerID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error listing orders: %v", err), "ListCustomerOrders", request.CustomerID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	result.Data = converter.OrdersToResponse(orders)
	return result
}

func (c *OrderUseCase) ListMerchantOrders(ctx context.Context, request *model.ListMerchantOrdersRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "ListMerchantOrders", utils.ConvertString(request))
		return result
	}

	owns, err := c.MerchantRepository.ExistsOwnedBy(ctx, request.MerchantID, request.CallerID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error checking merchant ownership: %v", err), "ListMerchantOrders", request.MerchantID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !owns {
		errObj := httpError.NewNotFound()
		errObj.Message = "merchant not found"
		result.Error = errObj
		return result
	}

	orders, err := c.OrderRepository.ListByMerchant(ctx, request.MerchantID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error listing orders: %v", err), "ListMerchantOrders", request.MerchantID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	result.Data = converter.OrdersToResponse(orders)
	return result
}

// CancelOrder: the customer may cancel while pending; the merchant owner and
// the assigned rider may cancel from any non-terminal status.
func (c *OrderUseCase) CancelOrder(ctx context.Context, request *model.CancelOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CancelOrder", utils.ConvertString(request))
		return result
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error loading order: %v", err), "CancelOrder", request.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		result.Error = errObj
		return result
	}

	return c.cancel(ctx, request.CallerID, order, request.Reason)
}

// UpdateOrderStatus is the general transition entry point shared by the
// customer, merchant and rider surfaces. Authorization is re-derived against
// the order's current persisted state, and the write is conditioned on that
// same status snapshot so a concurrent transition fails the update cleanly.
func (c *OrderUseCase) UpdateOrderStatus(ctx context.Context, request *model.UpdateOrderStatusRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "UpdateOrderStatus", utils.ConvertString(request))
		return result
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error loading order: %v", err), "UpdateOrderStatus", request.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		result.Error = errObj
		return result
	}

	if entity.IsTerminal(order.Status) {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order is already %s", order.Status)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "UpdateOrderStatus", request.OrderID)
		return result
	}

	if !entity.CanTransition(order.Status, request.Status) {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order cannot move from %s to %s", order.Status, request.Status)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "UpdateOrderStatus", request.OrderID)
		return result
	}

	switch request.Status {
	case entity.StatusAccepted:
		return c.accept(ctx, request.CallerID, order, request.RiderID)
	case entity.StatusDispatched, entity.StatusDelivered:
		return c.advanceByRider(ctx, request.CallerID, order, request.Status)
	case entity.StatusCancelled:
		return c.cancel(ctx, request.CallerID, order, request.Reason)
	}

	errObj := httpError.NewBadRequest()
	errObj.Message = fmt.Sprintf("unsupported target status %s", request.Status)
	result.Error = errObj
	return result
}

// BroadcastPendingOrder is the asynq handler behind TaskOrderBroadcast: look
// up online riders near the delivery point and fan the order out over kafka.
func (c *OrderUseCase) BroadcastPendingOrder(ctx context.Context, t *asynq.Task) error {
	var event model.BroadcastOrderEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("malformed broadcast payload: %v", err), "BroadcastPendingOrder", "")
		return err
	}

	radius := c.Config.GetFloat64("broadcast.radius_m")
	if radius <= 0 {
		radius = 5000
	}

	riders, err := c.Geo.NearbyRiders(ctx, event.Longitude, event.Latitude, radius, 50)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to look up nearby riders: %v", err), "BroadcastPendingOrder", event.OrderID)
		return err
	}
	if len(riders) == 0 {
		c.Log.Info("order-usecase", "no riders nearby for broadcast", "BroadcastPendingOrder", event.OrderID)
		return nil
	}

	event.RiderIDs = riders
	if c.OrderProducer != nil {
		if err := c.OrderProducer.SendBroadcast(&event); err != nil {
			c.Log.Error("order-usecase", fmt.Sprintf("failed to publish broadcast: %v", err), "BroadcastPendingOrder", event.OrderID)
			return err
		}
	}

	c.Log.Info("order-usecase", fmt.Sprintf("broadcast to %d riders", len(riders)), "BroadcastPendingOrder", event.OrderID)
	return nil
}

func (c *OrderUseCase) accept(ctx context.Context, callerID string, order *entity.Order, riderID *string) utils.Result {
	var result utils.Result

	owns, err := c.MerchantRepository.ExistsOwnedBy(ctx, order.MerchantID, callerID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error checking merchant ownership: %v", err), "accept", order.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	var ok bool
	if owns {
		ok, err = c.OrderRepository.AcceptByMerchant(ctx, order.OrderID, riderID)
	} else {
		isRider, riderErr := c.RiderRepository.Exists(ctx, callerID)
		if riderErr != nil {
			c.Log.Error("order-usecase", fmt.Sprintf("error checking rider profile: %v", riderErr), "accept", order.OrderID)
			result.Error = httpError.NewInternalServerError()
			return result
		}
		if !isRider {
			errObj := httpError.NewNotFound()
			errObj.Message = "order not found"
			result.Error = errObj
			return result
		}
		ok, err = c.OrderRepository.ClaimPending(ctx, order.OrderID, callerID)
	}
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error accepting order: %v", err), "accept", order.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "Order is no longer available"
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "accept", order.OrderID)
		return result
	}

	if err := c.Geo.RemovePendingOrder(ctx, order.OrderID); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to unindex pending order: %v", err), "accept", order.OrderID)
	}

	c.publishTransition(ctx, order.OrderID, order.Status, callerID)

	result.Data = model.AcceptOrderResponse{Success: true, OrderID: order.OrderID}
	return result
}

func (c *OrderUseCase) advanceByRider(ctx context.Context, callerID string, order *entity.Order, target string) utils.Result {
	var result utils.Result

	if order.RiderID == nil || *order.RiderID != callerID {
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.UpdateStatusForRider(ctx, order.OrderID, callerID, order.Status, target)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error updating order status: %v", err), "advanceByRider", order.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "Order is no longer available"
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "advanceByRider", order.OrderID)
		return result
	}

	c.publishTransition(ctx, order.OrderID, order.Status, callerID)

	result.Data = model.AcceptOrderResponse{Success: true, OrderID: order.OrderID}
	return result
}

func (c *OrderUseCase) cancel(ctx context.Context, callerID string, order *entity.Order, reason *string) utils.Result {
	var result utils.Result

	if entity.IsTerminal(order.Status) {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order is already %s", order.Status)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "cancel", order.OrderID)
		return result
	}

	isCustomer := order.CustomerID == callerID
	isAssignedRider := order.RiderID != nil && *order.RiderID == callerID
	ownsMerchant := false
	if !isCustomer && !isAssignedRider {
		var err error
		ownsMerchant, err = c.MerchantRepository.ExistsOwnedBy(ctx, order.MerchantID, callerID)
		if err != nil {
			c.Log.Error("order-usecase", fmt.Sprintf("error checking merchant ownership: %v", err), "cancel", order.OrderID)
			result.Error = httpError.NewInternalServerError()
			return result
		}
	}

	switch {
	case isCustomer:
		if order.Status != entity.StatusPending {
			errObj := httpError.NewConflict()
			errObj.Message = "order can no longer be cancelled; a rider already accepted it"
			result.Error = errObj
			c.Log.Error("order-usecase", errObj.Message, "cancel", order.OrderID)
			return result
		}
	case isAssignedRider, ownsMerchant:
		// any non-terminal status
	default:
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.Cancel(ctx, order.OrderID, order.Status, reason)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error cancelling order: %v", err), "cancel", order.OrderID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "Order is no longer available"
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "cancel", order.OrderID)
		return result
	}

	if order.Status == entity.StatusPending {
		if err := c.Geo.RemovePendingOrder(ctx, order.OrderID); err != nil {
			c.Log.Error("order-usecase", fmt.Sprintf("failed to unindex pending order: %v", err), "cancel", order.OrderID)
		}
	}

	c.publishTransition(ctx, order.OrderID, order.Status, callerID)

	result.Data = model.AcceptOrderResponse{Success: true, OrderID: order.OrderID}
	return result
}

func (c *OrderUseCase) callerCanSeeOrder(ctx context.Context, callerID string, order *entity.Order) (bool, error) {
	if order.CustomerID == callerID {
		return true, nil
	}
	if order.RiderID != nil && *order.RiderID == callerID {
		return true, nil
	}
	return c.MerchantRepository.ExistsOwnedBy(ctx, order.MerchantID, callerID)
}

func (c *OrderUseCase) publishTransition(ctx context.Context, orderID, oldStatus, actorID string) {
	if c.OrderProducer == nil {
		return
	}
	updated, err := c.OrderRepository.FindByID(ctx, orderID)
	if err != nil || updated == nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to reload order for event: %v", err), "publishTransition", orderID)
		return
	}
	if err := c.OrderProducer.SendStatusChanged(converter.OrderToEvent(updated, oldStatus, actorID)); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to publish status event: %v", err), "publishTransition", orderID)
	}
}

func (c *OrderUseCase) enqueueBroadcast(order *entity.Order) {
	if c.AsynqClient == nil {
		return
	}
	payload, err := json.Marshal(&model.BroadcastOrderEvent{
		OrderID:   order.OrderID,
		Longitude: order.DeliveryLng,
		Latitude:  order.DeliveryLat,
		Brand:     order.Brand,
		TankSize:  order.TankSize,
	})
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to marshal broadcast payload: %v", err), "enqueueBroadcast", order.OrderID)
		return
	}
	if _, err := c.AsynqClient.Enqueue(asynq.NewTask(TaskOrderBroadcast, payload)); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("failed to enqueue broadcast task: %v", err), "enqueueBroadcast", order.OrderID)
	}
}
