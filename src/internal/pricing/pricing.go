package pricing

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means the merchant has no positive price for the brand-size
// combination. Callers surface it as a business rejection, not a fault.
var ErrNotConfigured = errors.New("pricing not configured")

// Key builds the price-table key for a brand and tank size, e.g. "Gasul-11kg".
func Key(brand, size string) string {
	return fmt.Sprintf("%s-%s", brand, size)
}

// ResolveUnitPrice looks up the merchant's configured unit price. Absent keys
// and non-positive stored values both fail with ErrNotConfigured.
func ResolveUnitPrice(table map[string]float64, brand, size string) (float64, error) {
	price, ok := table[Key(brand, size)]
	if !ok || price <= 0 {
		return 0, ErrNotConfigured
	}
	return price, nil
}

// ComputeTotal multiplies the server-resolved unit price by quantity. Quantity
// is validated upstream to be a positive integer.
func ComputeTotal(unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity)
}
