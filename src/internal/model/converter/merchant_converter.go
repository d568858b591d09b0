package converter

import (
	"encoding/json"
	"fmt"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/geofence"
	"lpg-marketplace/src/internal/model"
)

// MerchantFromEntity decodes the JSON columns of a merchant row. A polygon that
// fails to decode is treated as absent so the radius check still applies.
func MerchantFromEntity(row *entity.Merchant) (*model.Merchant, error) {
	merchant := &model.Merchant{
		MerchantID: row.MerchantID,
		OwnerID:    row.OwnerID,
		Name:       row.Name,
		IsOpen:     row.IsOpen,
		Prices:     map[string]float64{},
		Area: geofence.ServiceArea{
			Center:  geofence.Point{Lng: row.Lng, Lat: row.Lat},
			RadiusM: row.DeliveryRadiusM,
		},
	}

	if len(row.AcceptedBrands) > 0 {
		if err := json.Unmarshal(row.AcceptedBrands, &merchant.Brands); err != nil {
			return nil, fmt.Errorf("decode accepted_brands: %w", err)
		}
	}
	if len(row.AcceptedSizes) > 0 {
		if err := json.Unmarshal(row.AcceptedSizes, &merchant.Sizes); err != nil {
			return nil, fmt.Errorf("decode accepted_sizes: %w", err)
		}
	}
	if len(row.PriceTable) > 0 {
		if err := json.Unmarshal(row.PriceTable, &merchant.Prices); err != nil {
			return nil, fmt.Errorf("decode price_table: %w", err)
		}
	}
	if len(row.DeliveryPolygon) > 0 {
		var polygon []geofence.Point
		if err := json.Unmarshal(row.DeliveryPolygon, &polygon); err == nil {
			merchant.Area.Polygon = polygon
		}
	}

	return merchant, nil
}
