package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pendingOrdersGeoKey  = "orders:pending:geo"
	riderLocationsGeoKey = "riders:locations"
	activeOrderKeyPrefix = "RIDER:ACTIVE-ORDER:"
)

// GeoRepository keeps the redis GEO indexes: candidate pending orders for
// rider lookups and live rider locations for the broadcast job. The SQL rows
// stay the source of truth; a stale entry here can only cause a miss.
type GeoRepository struct {
	Redis redis.UniversalClient
}

func NewGeoRepository(client redis.UniversalClient) *GeoRepository {
	return &GeoRepository{
		Redis: client,
	}
}

func (r *GeoRepository) AddPendingOrder(ctx context.Context, orderID string, lng, lat float64) error {
	return r.Redis.GeoAdd(ctx, pendingOrdersGeoKey, &redis.GeoLocation{
		Name:      orderID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

func (r *GeoRepository) RemovePendingOrder(ctx context.Context, orderID string) error {
	return r.Redis.ZRem(ctx, pendingOrdersGeoKey, orderID).Err()
}

func (r *GeoRepository) NearbyPendingOrders(ctx context.Context, lng, lat, radiusM float64, limit int) ([]string, error) {
	locations, err := r.Redis.GeoRadius(ctx, pendingOrdersGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius: radiusM,
		Unit:   "m",
		Count:  limit,
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, loc.Name)
	}
	return ids, nil
}

func (r *GeoRepository) UpdateRiderLocation(ctx context.Context, riderID string, lng, lat float64) error {
	return r.Redis.GeoAdd(ctx, riderLocationsGeoKey, &redis.GeoLocation{
		Name:      riderID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

func (r *GeoRepository) NearbyRiders(ctx context.Context, lng, lat, radiusM float64, limit int) ([]string, error) {
	locations, err := r.Redis.GeoRadius(ctx, riderLocationsGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius: radiusM,
		Unit:   "m",
		Count:  limit,
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, loc.Name)
	}
	return ids, nil
}

func (r *GeoRepository) CacheActiveOrder(ctx context.Context, riderID string, payload []byte, ttl time.Duration) error {
	return r.Redis.Set(ctx, activeOrderKeyPrefix+riderID, payload, ttl).Err()
}
