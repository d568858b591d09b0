package model

type RegisterRiderRequest struct {
	UserID string `json:"-" validate:"required,max=100"`
}

type RegisterRiderResponse struct {
	RiderID string `json:"riderId"`
}

type RiderLocationRequest struct {
	RiderID   string  `json:"-" validate:"required,max=100"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
}
