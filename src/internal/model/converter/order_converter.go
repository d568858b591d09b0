package converter

import (
	"time"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/model"
)

func OrderToResponse(order *entity.Order) *model.OrderResponse {
	return &model.OrderResponse{
		OrderID:            order.OrderID,
		CustomerID:         order.CustomerID,
		MerchantID:         order.MerchantID,
		Brand:              order.Brand,
		TankSize:           order.TankSize,
		Quantity:           order.Quantity,
		Longitude:          order.DeliveryLng,
		Latitude:           order.DeliveryLat,
		DeliveryAddress:    order.DeliveryAddress,
		Notes:              order.Notes,
		TotalPrice:         order.TotalPrice,
		Status:             order.Status,
		RiderID:            order.RiderID,
		CancellationReason: order.CancellationReason,
		AcceptedAt:         order.AcceptedAt,
		DispatchedAt:       order.DispatchedAt,
		DeliveredAt:        order.DeliveredAt,
		CancelledAt:        order.CancelledAt,
		CreatedAt:          order.CreatedAt,
	}
}

func OrdersToResponse(orders []entity.Order) []model.OrderResponse {
	responses := make([]model.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *OrderToResponse(&orders[i]))
	}
	return responses
}

func OrderToEvent(order *entity.Order, oldStatus, actorID string) *model.OrderEvent {
	return &model.OrderEvent{
		OrderID:    order.OrderID,
		CustomerID: order.CustomerID,
		MerchantID: order.MerchantID,
		RiderID:    order.RiderID,
		OldStatus:  oldStatus,
		NewStatus:  order.Status,
		ActorID:    actorID,
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
}
