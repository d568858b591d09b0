package model

import "lpg-marketplace/src/internal/geofence"

// Merchant is the decoded read-only view this service needs: who owns it,
// whether it is open, what it carries and charges, and where it delivers.
type Merchant struct {
	MerchantID string
	OwnerID    string
	Name       string
	IsOpen     bool
	Brands     []string
	Sizes      []string
	Prices     map[string]float64
	Area       geofence.ServiceArea
}

func (m *Merchant) CarriesBrand(brand string) bool {
	for _, b := range m.Brands {
		if b == brand {
			return true
		}
	}
	return false
}

func (m *Merchant) CarriesSize(size string) bool {
	for _, s := range m.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
