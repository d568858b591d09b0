package entity

import "time"

// Merchant row. Brand/size sets, the price table and the optional delivery
// polygon are stored as JSON columns and decoded by the converter.
type Merchant struct {
	MerchantID      string    `db:"merchant_id"`
	OwnerID         string    `db:"owner_id"`
	Name            string    `db:"name"`
	IsOpen          bool      `db:"is_open"`
	Lng             float64   `db:"lng"`
	Lat             float64   `db:"lat"`
	DeliveryRadiusM float64   `db:"delivery_radius_m"`
	AcceptedBrands  []byte    `db:"accepted_brands"`
	AcceptedSizes   []byte    `db:"accepted_sizes"`
	PriceTable      []byte    `db:"price_table"`
	DeliveryPolygon []byte    `db:"delivery_polygon"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
