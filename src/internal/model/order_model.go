package model

import "time"

type CreateOrderRequest struct {
	CustomerID      string  `json:"-" validate:"required,max=100"`
	MerchantID      string  `json:"merchantId" validate:"required,max=100"`
	Brand           string  `json:"brand" validate:"required,max=50"`
	TankSize        string  `json:"tankSize" validate:"required,max=20"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	Longitude       float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude        float64 `json:"latitude" validate:"gte=-90,lte=90"`
	DeliveryAddress string  `json:"deliveryAddress" validate:"required,max=255"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type CreateOrderResponse struct {
	OrderID    string  `json:"orderId"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"totalPrice"`
}

type AcceptOrderRequest struct {
	RiderID string `json:"-" validate:"required,max=100"`
	OrderID string `json:"orderId" validate:"required,max=100"`
}

type AcceptOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type OrderActionRequest struct {
	CallerID string `json:"-" validate:"required,max=100"`
	OrderID  string `json:"orderId" validate:"required,max=100"`
}

type CancelOrderRequest struct {
	CallerID string  `json:"-" validate:"required,max=100"`
	OrderID  string  `json:"orderId" validate:"required,max=100"`
	Reason   *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

type UpdateOrderStatusRequest struct {
	CallerID string  `json:"-" validate:"required,max=100"`
	OrderID  string  `json:"orderId" validate:"required,max=100"`
	Status   string  `json:"status" validate:"required,oneof=pending accepted dispatched in_transit delivered cancelled"`
	RiderID  *string `json:"riderId,omitempty" validate:"omitempty,max=100"`
	Reason   *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

type GetOrderRequest struct {
	CallerID string `json:"-" validate:"required,max=100"`
	OrderID  string `json:"orderId" validate:"required,max=100"`
}

type ListCustomerOrdersRequest struct {
	CustomerID string `json:"-" validate:"required,max=100"`
}

type ListMerchantOrdersRequest struct {
	CallerID   string `json:"-" validate:"required,max=100"`
	MerchantID string `json:"merchantId" validate:"required,max=100"`
}

type NearbyOrdersRequest struct {
	RiderID   string  `json:"-" validate:"required,max=100"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	RadiusM   float64 `json:"radiusMeters" validate:"gt=0"`
}

type OrderResponse struct {
	OrderID            string     `json:"orderId"`
	CustomerID         string     `json:"customerId"`
	MerchantID         string     `json:"merchantId"`
	Brand              string     `json:"brand"`
	TankSize           string     `json:"tankSize"`
	Quantity           int        `json:"quantity"`
	Longitude          float64    `json:"longitude"`
	Latitude           float64    `json:"latitude"`
	DeliveryAddress    string     `json:"deliveryAddress"`
	Notes              *string    `json:"notes,omitempty"`
	TotalPrice         float64    `json:"totalPrice"`
	Status             string     `json:"status"`
	RiderID            *string    `json:"riderId,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	AcceptedAt         *time.Time `json:"acceptedAt,omitempty"`
	DispatchedAt       *time.Time `json:"dispatchedAt,omitempty"`
	DeliveredAt        *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}
