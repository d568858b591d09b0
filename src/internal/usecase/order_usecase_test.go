package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/geofence"
	"lpg-marketplace/src/internal/model"
	httpError "lpg-marketplace/src/pkg/http-error"
	"lpg-marketplace/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	useCase   *OrderUseCase
	orders    *fakeOrderStore
	merchants *fakeMerchantStore
	riders    *fakeRiderStore
	geo       *fakeGeoStore
	publisher *fakePublisher
}

func newOrderFixture(merchants ...*entity.Merchant) *orderFixture {
	f := &orderFixture{
		orders:    newFakeOrderStore(),
		merchants: newFakeMerchantStore(merchants...),
		riders:    newFakeRiderStore(),
		geo:       newFakeGeoStore(),
		publisher: &fakePublisher{},
	}
	f.useCase = NewOrderUseCase(
		log.Log{},
		validator.New(),
		viper.New(),
		f.orders,
		f.merchants,
		f.riders,
		f.geo,
		f.publisher,
		nil,
	)
	return f
}

func openMerchant() *entity.Merchant {
	return merchantRow(
		"merchant-1", "owner-1", true,
		[]string{"Gasul", "Solane"},
		[]string{"11kg", "22kg"},
		map[string]float64{"Gasul-11kg": 950, "Solane-11kg": 980},
		121.0, 14.6, 3000,
		nil,
	)
}

func createRequest() *model.CreateOrderRequest {
	return &model.CreateOrderRequest{
		CustomerID:      "customer-1",
		MerchantID:      "merchant-1",
		Brand:           "Gasul",
		TankSize:        "11kg",
		Quantity:        2,
		Longitude:       121.001,
		Latitude:        14.6,
		DeliveryAddress: "12 Mabini St",
	}
}

func requireErrObject(t *testing.T, err error, code int) *httpError.ErrorObject {
	t.Helper()
	require.Error(t, err)
	errObj, ok := err.(*httpError.ErrorObject)
	require.True(t, ok, "expected *httpError.ErrorObject, got %T", err)
	assert.Equal(t, code, errObj.Code)
	return errObj
}

func TestCreateOrderComputesTotalFromPriceTable(t *testing.T) {
	f := newOrderFixture(openMerchant())

	result := f.useCase.CreateOrder(context.Background(), createRequest())
	require.NoError(t, result.Error)

	response, ok := result.Data.(model.CreateOrderResponse)
	require.True(t, ok)
	assert.NotEmpty(t, response.OrderID)
	assert.Equal(t, entity.StatusPending, response.Status)
	assert.Equal(t, 1900.0, response.TotalPrice)

	stored, err := f.orders.FindByID(context.Background(), response.OrderID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Nil(t, stored.RiderID)

	assert.Contains(t, f.geo.pendingOrders, response.OrderID)
	require.Len(t, f.publisher.created, 1)
	assert.Equal(t, response.OrderID, f.publisher.created[0].OrderID)
}

func TestCreateOrderMerchantNotFound(t *testing.T) {
	f := newOrderFixture()

	result := f.useCase.CreateOrder(context.Background(), createRequest())

	errObj := requireErrObject(t, result.Error, fiber.StatusNotFound)
	assert.Equal(t, "merchant not found", errObj.Message)
}

func TestCreateOrderMerchantClosed(t *testing.T) {
	merchant := openMerchant()
	merchant.IsOpen = false
	f := newOrderFixture(merchant)

	result := f.useCase.CreateOrder(context.Background(), createRequest())

	errObj := requireErrObject(t, result.Error, fiber.StatusConflict)
	assert.Contains(t, errObj.Message, "currently closed")
}

func TestCreateOrderBrandNotCarried(t *testing.T) {
	f := newOrderFixture(openMerchant())
	request := createRequest()
	request.Brand = "Petron"

	result := f.useCase.CreateOrder(context.Background(), request)

	errObj := requireErrObject(t, result.Error, fiber.StatusBadRequest)
	assert.Contains(t, errObj.Message, "does not carry Petron")
}

func TestCreateOrderSizeNotCarried(t *testing.T) {
	f := newOrderFixture(openMerchant())
	request := createRequest()
	request.TankSize = "50kg"

	result := f.useCase.CreateOrder(context.Background(), request)

	errObj := requireErrObject(t, result.Error, fiber.StatusBadRequest)
	assert.Contains(t, errObj.Message, "50kg tanks")
}

func TestCreateOrderPricingNotConfigured(t *testing.T) {
	// Solane 22kg is carried but has no row in the price table.
	f := newOrderFixture(openMerchant())
	request := createRequest()
	request.Brand = "Solane"
	request.TankSize = "22kg"

	result := f.useCase.CreateOrder(context.Background(), request)

	errObj := requireErrObject(t, result.Error, fiber.StatusBadRequest)
	assert.Contains(t, errObj.Message, "no price configured for Solane-22kg")
}

func TestCreateOrderOutsideRadiusReportsDistance(t *testing.T) {
	f := newOrderFixture(openMerchant())
	request := createRequest()
	request.Longitude = 121.05 // well past the 3km radius

	result := f.useCase.CreateOrder(context.Background(), request)

	errObj := requireErrObject(t, result.Error, fiber.StatusBadRequest)
	assert.Contains(t, errObj.Message, "m away")
	assert.Contains(t, errObj.Message, "delivers within 3000m")
}

func TestCreateOrderPolygonOverridesRadius(t *testing.T) {
	merchant := merchantRow(
		"merchant-1", "owner-1", true,
		[]string{"Gasul"}, []string{"11kg"},
		map[string]float64{"Gasul-11kg": 950},
		121.0, 14.6, 50, // radius alone would reject everything
		[]geofence.Point{
			{Lng: 120.98, Lat: 14.58},
			{Lng: 121.02, Lat: 14.58},
			{Lng: 121.02, Lat: 14.62},
			{Lng: 120.98, Lat: 14.62},
		},
	)
	f := newOrderFixture(merchant)

	inside := createRequest()
	inside.Quantity = 1
	result := f.useCase.CreateOrder(context.Background(), inside)
	require.NoError(t, result.Error)

	outside := createRequest()
	outside.Longitude = 121.03
	result = f.useCase.CreateOrder(context.Background(), outside)
	errObj := requireErrObject(t, result.Error, fiber.StatusBadRequest)
	assert.Contains(t, errObj.Message, "delivery zone")
}

func TestGetOrderVisibility(t *testing.T) {
	f := newOrderFixture(openMerchant())
	riderID := "rider-1"
	f.orders.put(&entity.Order{
		OrderID:    "order-1",
		CustomerID: "customer-1",
		MerchantID: "merchant-1",
		Status:     entity.StatusAccepted,
		RiderID:    &riderID,
		CreatedAt:  time.Now(),
	})

	for _, caller := range []string{"customer-1", "rider-1", "owner-1"} {
		result := f.useCase.GetOrder(context.Background(), &model.GetOrderRequest{CallerID: caller, OrderID: "order-1"})
		require.NoError(t, result.Error, "caller %s should see the order", caller)
	}

	result := f.useCase.GetOrder(context.Background(), &model.GetOrderRequest{CallerID: "stranger", OrderID: "order-1"})
	errObj := requireErrObject(t, result.Error, fiber.StatusNotFound)
	assert.Equal(t, "order not found", errObj.Message)

	result = f.useCase.GetOrder(context.Background(), &model.GetOrderRequest{CallerID: "customer-1", OrderID: "missing"})
	errObj = requireErrObject(t, result.Error, fiber.StatusNotFound)
	assert.Equal(t, "order not found", errObj.Message)
}

func TestListMerchantOrdersRequiresOwnership(t *testing.T) {
	f := newOrderFixture(openMerchant())
	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusPending, CreatedAt: time.Now()})

	result := f.useCase.ListMerchantOrders(context.Background(), &model.ListMerchantOrdersRequest{CallerID: "owner-1", MerchantID: "merchant-1"})
	require.NoError(t, result.Error)
	orders, ok := result.Data.([]model.OrderResponse)
	require.True(t, ok)
	assert.Len(t, orders, 1)

	result = f.useCase.ListMerchantOrders(context.Background(), &model.ListMerchantOrdersRequest{CallerID: "stranger", MerchantID: "merchant-1"})
	errObj := requireErrObject(t, result.Error, fiber.StatusNotFound)
	assert.Equal(t, "merchant not found", errObj.Message)
}

func TestCancelOrderByCustomerOnlyWhilePending(t *testing.T) {
	f := newOrderFixture(openMerchant())
	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusPending, CreatedAt: time.Now()})
	_ = f.geo.AddPendingOrder(context.Background(), "order-1", 121.001, 14.6)

	result := f.useCase.CancelOrder(context.Background(), &model.CancelOrderRequest{CallerID: "customer-1", OrderID: "order-1"})
	require.NoError(t, result.Error)

	stored, _ := f.orders.FindByID(context.Background(), "order-1")
	assert.Equal(t, entity.StatusCancelled, stored.Status)
	assert.NotContains(t, f.geo.pendingOrders, "order-1")

	// once a rider holds the order, the customer can no longer cancel
	riderID := "rider-1"
	f.orders.put(&entity.Order{OrderID: "order-2", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusAccepted, RiderID: &riderID, CreatedAt: time.Now()})

	result = f.useCase.CancelOrder(context.Background(), &model.CancelOrderRequest{CallerID: "customer-1", OrderID: "order-2"})
	errObj := requireErrObject(t, result.Error, fiber.StatusConflict)
	assert.Contains(t, errObj.Message, "a rider already accepted it")
}

func TestCancelOrderByMerchantAndRiderAfterAccept(t *testing.T) {
	f := newOrderFixture(openMerchant())
	riderID := "rider-1"
	reason := "out of stock"

	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusAccepted, RiderID: &riderID, CreatedAt: time.Now()})
	result := f.useCase.CancelOrder(context.Background(), &model.CancelOrderRequest{CallerID: "owner-1", OrderID: "order-1", Reason: &reason})
	require.NoError(t, result.Error)
	stored, _ := f.orders.FindByID(context.Background(), "order-1")
	assert.Equal(t, entity.StatusCancelled, stored.Status)
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, reason, *stored.CancellationReason)

	f.orders.put(&entity.Order{OrderID: "order-2", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusDispatched, RiderID: &riderID, CreatedAt: time.Now()})
	result = f.useCase.CancelOrder(context.Background(), &model.CancelOrderRequest{CallerID: "rider-1", OrderID: "order-2"})
	require.NoError(t, result.Error)

	// an unrelated caller is told the order does not exist
	f.orders.put(&entity.Order{OrderID: "order-3", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusPending, CreatedAt: time.Now()})
	result = f.useCase.CancelOrder(context.Background(), &model.CancelOrderRequest{CallerID: "stranger", OrderID: "order-3"})
	errObj := requireErrObject(t, result.Error, fiber.StatusNotFound)
	assert.Equal(t, "order not found", errObj.Message)
}

func TestCancelOrderTerminalIsConflict(t *testing.T) {
	f := newOrderFixture(openMerchant())
	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusDelivered, CreatedAt: time.Now()})

	result := f.useCase.CancelOrder(context.Background(), &model.CancelOrderRequest{CallerID: "customer-1", OrderID: "order-1"})
	errObj := requireErrObject(t, result.Error, fiber.StatusConflict)
	assert.Equal(t, "order is already delivered", errObj.Message)
}

func TestUpdateOrderStatusRejectsInvalidTransitions(t *testing.T) {
	f := newOrderFixture(openMerchant())
	riderID := "rider-1"

	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusPending, CreatedAt: time.Now()})
	result := f.useCase.UpdateOrderStatus(context.Background(), &model.UpdateOrderStatusRequest{
		CallerID: "owner-1", OrderID: "order-1", Status: entity.StatusDelivered,
	})
	errObj := requireErrObject(t, result.Error, fiber.StatusConflict)
	assert.Equal(t, "order cannot move from pending to delivered", errObj.Message)

	f.orders.put(&entity.Order{OrderID: "order-2", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusCancelled, CreatedAt: time.Now()})
	result = f.useCase.UpdateOrderStatus(context.Background(), &model.UpdateOrderStatusRequest{
		CallerID: "owner-1", OrderID: "order-2", Status: entity.StatusAccepted,
	})
	errObj = requireErrObject(t, result.Error, fiber.StatusConflict)
	assert.Equal(t, "order is already cancelled", errObj.Message)

	// nothing transitions into in_transit
	f.orders.put(&entity.Order{OrderID: "order-3", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusAccepted, RiderID: &riderID, CreatedAt: time.Now()})
	result = f.useCase.UpdateOrderStatus(context.Background(), &model.UpdateOrderStatusRequest{
		CallerID: "rider-1", OrderID: "order-3", Status: entity.StatusInTransit,
	})
	errObj = requireErrObject(t, result.Error, fiber.StatusConflict)
	assert.Contains(t, errObj.Message, "cannot move from accepted to in_transit")
}

func TestUpdateOrderStatusMerchantAcceptAssignsRider(t *testing.T) {
	f := newOrderFixture(openMerchant())
	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusPending, CreatedAt: time.Now()})
	_ = f.geo.AddPendingOrder(context.Background(), "order-1", 121.001, 14.6)

	riderID := "rider-9"
	result := f.useCase.UpdateOrderStatus(context.Background(), &model.UpdateOrderStatusRequest{
		CallerID: "owner-1", OrderID: "order-1", Status: entity.StatusAccepted, RiderID: &riderID,
	})
	require.NoError(t, result.Error)

	stored, _ := f.orders.FindByID(context.Background(), "order-1")
	assert.Equal(t, entity.StatusAccepted, stored.Status)
	require.NotNil(t, stored.RiderID)
	assert.Equal(t, "rider-9", *stored.RiderID)
	assert.NotContains(t, f.geo.pendingOrders, "order-1")
	require.Len(t, f.publisher.changed, 1)
	assert.Equal(t, entity.StatusPending, f.publisher.changed[0].OldStatus)
	assert.Equal(t, entity.StatusAccepted, f.publisher.changed[0].NewStatus)
}

func TestUpdateOrderStatusAcceptByNonRiderIsHidden(t *testing.T) {
	f := newOrderFixture(openMerchant())
	f.orders.put(&entity.Order{OrderID: "order-1", CustomerID: "customer-1", MerchantID: "merchant-1", Status: entity.StatusPending, CreatedAt: time.Now()})

	result := f.useCase.UpdateOrderStatus(context.Background(), &model.UpdateOrderStatusRequest{
		CallerID: "stranger", OrderID: "order-1", Status: entity.StatusAccepted,
	})
	errObj := requireErrObject(t, result.Error, fiber.StatusNotFound)
	assert.Equal(t, "order not found", errObj.Message)
}

func TestBroadcastPendingOrderFansOutToNearbyRiders(t *testing.T) {
	f := newOrderFixture(openMerchant())
	_ = f.geo.UpdateRiderLocation(context.Background(), "rider-near", 121.002, 14.6)
	_ = f.geo.UpdateRiderLocation(context.Background(), "rider-far", 122.0, 15.5)

	payload, err := json.Marshal(&model.BroadcastOrderEvent{
		OrderID:   "order-1",
		Longitude: 121.001,
		Latitude:  14.6,
		Brand:     "Gasul",
		TankSize:  "11kg",
	})
	require.NoError(t, err)

	err = f.useCase.BroadcastPendingOrder(context.Background(), asynq.NewTask(TaskOrderBroadcast, payload))
	require.NoError(t, err)

	require.Len(t, f.publisher.broadcasts, 1)
	assert.Equal(t, []string{"rider-near"}, f.publisher.broadcasts[0].RiderIDs)
}
