package entity

import "time"

type Order struct {
	OrderID            string     `db:"order_id"`
	CustomerID         string     `db:"customer_id"`
	MerchantID         string     `db:"merchant_id"`
	Brand              string     `db:"brand"`
	TankSize           string     `db:"tank_size"`
	Quantity           int        `db:"quantity"`
	DeliveryLng        float64    `db:"delivery_lng"`
	DeliveryLat        float64    `db:"delivery_lat"`
	DeliveryAddress    string     `db:"delivery_address"`
	Notes              *string    `db:"notes"`
	TotalPrice         float64    `db:"total_price"`
	Status             string     `db:"status"`
	RiderID            *string    `db:"rider_id"`
	CancellationReason *string    `db:"cancellation_reason"`
	AcceptedAt         *time.Time `db:"accepted_at"`
	DispatchedAt       *time.Time `db:"dispatched_at"`
	DeliveredAt        *time.Time `db:"delivered_at"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}
