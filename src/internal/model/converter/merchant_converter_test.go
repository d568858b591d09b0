package converter

import (
	"testing"

	"lpg-marketplace/src/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerchantFromEntityDecodesJSONColumns(t *testing.T) {
	row := &entity.Merchant{
		MerchantID:      "merchant-1",
		OwnerID:         "owner-1",
		Name:            "Dealer",
		IsOpen:          true,
		Lng:             121.0,
		Lat:             14.6,
		DeliveryRadiusM: 3000,
		AcceptedBrands:  []byte(`["Gasul","Solane"]`),
		AcceptedSizes:   []byte(`["11kg"]`),
		PriceTable:      []byte(`{"Gasul-11kg":950}`),
		DeliveryPolygon: []byte(`[{"lng":120.9,"lat":14.5},{"lng":121.1,"lat":14.5},{"lng":121.0,"lat":14.7}]`),
	}

	merchant, err := MerchantFromEntity(row)
	require.NoError(t, err)

	assert.True(t, merchant.CarriesBrand("Solane"))
	assert.False(t, merchant.CarriesBrand("Petron"))
	assert.True(t, merchant.CarriesSize("11kg"))
	assert.Equal(t, 950.0, merchant.Prices["Gasul-11kg"])
	assert.True(t, merchant.Area.HasPolygon())
	assert.Equal(t, 3000.0, merchant.Area.RadiusM)
}

func TestMerchantFromEntityBadPolygonFallsBackToRadius(t *testing.T) {
	row := &entity.Merchant{
		MerchantID:      "merchant-1",
		Lng:             121.0,
		Lat:             14.6,
		DeliveryRadiusM: 3000,
		DeliveryPolygon: []byte(`{not json`),
	}

	merchant, err := MerchantFromEntity(row)
	require.NoError(t, err)
	assert.False(t, merchant.Area.HasPolygon())
}

func TestMerchantFromEntityCorruptPriceTable(t *testing.T) {
	row := &entity.Merchant{
		MerchantID: "merchant-1",
		PriceTable: []byte(`"not a map"`),
	}

	_, err := MerchantFromEntity(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_table")
}
