package model

import "time"

type OrderEvent struct {
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	MerchantID string    `json:"merchantId"`
	RiderID    *string   `json:"riderId,omitempty"`
	OldStatus  string    `json:"oldStatus,omitempty"`
	NewStatus  string    `json:"newStatus"`
	ActorID    string    `json:"actorId"`
	TotalPrice float64   `json:"totalPrice"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e *OrderEvent) GetId() string {
	return e.OrderID
}

// BroadcastOrderEvent goes to nearby online riders after an order lands in
// pending. It carries just enough for a rider app to decide to claim.
type BroadcastOrderEvent struct {
	OrderID   string   `json:"orderId"`
	RiderIDs  []string `json:"riderIds"`
	Longitude float64  `json:"longitude"`
	Latitude  float64  `json:"latitude"`
	Brand     string   `json:"brand"`
	TankSize  string   `json:"tankSize"`
}

func (e *BroadcastOrderEvent) GetId() string {
	return e.OrderID
}
