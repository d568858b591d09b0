package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/geofence"
	"lpg-marketplace/src/internal/model"
)

// In-memory stores standing in for the sqlx repositories. fakeOrderStore
// guards every mutation with a mutex so the conditional updates keep their
// exactly-one-winner semantics under the concurrency tests.

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*entity.Order{}}
}

func (s *fakeOrderStore) put(order *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *order
	s.orders[order.OrderID] = &clone
}

func (s *fakeOrderStore) Create(ctx context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *order
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	s.orders[order.OrderID] = &clone
	return nil
}

func (s *fakeOrderStore) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	clone := *order
	return &clone, nil
}

func (s *fakeOrderStore) ClaimPending(ctx context.Context, orderID, riderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != entity.StatusPending {
		return false, nil
	}
	now := time.Now()
	order.Status = entity.StatusAccepted
	order.RiderID = &riderID
	order.AcceptedAt = &now
	return true, nil
}

func (s *fakeOrderStore) AcceptByMerchant(ctx context.Context, orderID string, riderID *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != entity.StatusPending {
		return false, nil
	}
	now := time.Now()
	order.Status = entity.StatusAccepted
	if riderID != nil {
		order.RiderID = riderID
	}
	order.AcceptedAt = &now
	return true, nil
}

func (s *fakeOrderStore) UpdateStatusForRider(ctx context.Context, orderID, riderID, fromStatus, toStatus string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != fromStatus || order.RiderID == nil || *order.RiderID != riderID {
		return false, nil
	}
	now := time.Now()
	order.Status = toStatus
	switch toStatus {
	case entity.StatusDispatched:
		order.DispatchedAt = &now
	case entity.StatusDelivered:
		order.DeliveredAt = &now
	}
	return true, nil
}

func (s *fakeOrderStore) Cancel(ctx context.Context, orderID, fromStatus string, reason *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != fromStatus {
		return false, nil
	}
	now := time.Now()
	order.Status = entity.StatusCancelled
	order.CancellationReason = reason
	order.CancelledAt = &now
	return true, nil
}

func (s *fakeOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]entity.Order, error) {
	return s.list(func(o *entity.Order) bool { return o.CustomerID == customerID }, false, 0), nil
}

func (s *fakeOrderStore) ListByMerchant(ctx context.Context, merchantID string) ([]entity.Order, error) {
	return s.list(func(o *entity.Order) bool { return o.MerchantID == merchantID }, false, 0), nil
}

func (s *fakeOrderStore) ListPendingByIDs(ctx context.Context, orderIDs []string, limit int) ([]entity.Order, error) {
	wanted := map[string]bool{}
	for _, id := range orderIDs {
		wanted[id] = true
	}
	return s.list(func(o *entity.Order) bool {
		return wanted[o.OrderID] && o.Status == entity.StatusPending
	}, true, limit), nil
}

func (s *fakeOrderStore) list(match func(*entity.Order) bool, oldestFirst bool, limit int) []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Order
	for _, order := range s.orders {
		if match(order) {
			out = append(out, *order)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type fakeMerchantStore struct {
	merchants map[string]*entity.Merchant
}

func newFakeMerchantStore(merchants ...*entity.Merchant) *fakeMerchantStore {
	s := &fakeMerchantStore{merchants: map[string]*entity.Merchant{}}
	for _, m := range merchants {
		s.merchants[m.MerchantID] = m
	}
	return s
}

func (s *fakeMerchantStore) FindByID(ctx context.Context, merchantID string) (*entity.Merchant, error) {
	return s.merchants[merchantID], nil
}

func (s *fakeMerchantStore) ExistsOwnedBy(ctx context.Context, merchantID, ownerID string) (bool, error) {
	m, ok := s.merchants[merchantID]
	return ok && m.OwnerID == ownerID, nil
}

type fakeRiderStore struct {
	mu     sync.Mutex
	riders map[string]bool
}

func newFakeRiderStore(riderIDs ...string) *fakeRiderStore {
	s := &fakeRiderStore{riders: map[string]bool{}}
	for _, id := range riderIDs {
		s.riders[id] = true
	}
	return s
}

func (s *fakeRiderStore) Exists(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.riders[userID], nil
}

func (s *fakeRiderStore) Register(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.riders[userID] = true
	return nil
}

func (s *fakeRiderStore) Heartbeat(ctx context.Context, riderID string) error {
	return nil
}

type geoPoint struct {
	lng, lat float64
}

type fakeGeoStore struct {
	mu            sync.Mutex
	pendingOrders map[string]geoPoint
	riders        map[string]geoPoint
	cached        map[string][]byte
}

func newFakeGeoStore() *fakeGeoStore {
	return &fakeGeoStore{
		pendingOrders: map[string]geoPoint{},
		riders:        map[string]geoPoint{},
		cached:        map[string][]byte{},
	}
}

func (s *fakeGeoStore) AddPendingOrder(ctx context.Context, orderID string, lng, lat float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingOrders[orderID] = geoPoint{lng, lat}
	return nil
}

func (s *fakeGeoStore) RemovePendingOrder(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingOrders, orderID)
	return nil
}

func (s *fakeGeoStore) NearbyPendingOrders(ctx context.Context, lng, lat, radiusM float64, limit int) ([]string, error) {
	return s.nearby(s.pendingOrders, lng, lat, radiusM, limit), nil
}

func (s *fakeGeoStore) UpdateRiderLocation(ctx context.Context, riderID string, lng, lat float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.riders[riderID] = geoPoint{lng, lat}
	return nil
}

func (s *fakeGeoStore) NearbyRiders(ctx context.Context, lng, lat, radiusM float64, limit int) ([]string, error) {
	return s.nearby(s.riders, lng, lat, radiusM, limit), nil
}

func (s *fakeGeoStore) CacheActiveOrder(ctx context.Context, riderID string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached[riderID] = payload
	return nil
}

func (s *fakeGeoStore) nearby(index map[string]geoPoint, lng, lat, radiusM float64, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	origin := geofence.Point{Lng: lng, Lat: lat}
	var ids []string
	for id, p := range index {
		if geofence.Haversine(origin, geofence.Point{Lng: p.lng, Lat: p.lat}) <= radiusM {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

type fakePublisher struct {
	mu         sync.Mutex
	created    []*model.OrderEvent
	changed    []*model.OrderEvent
	broadcasts []*model.BroadcastOrderEvent
}

func (p *fakePublisher) SendOrderCreated(event *model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) SendStatusChanged(event *model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, event)
	return nil
}

func (p *fakePublisher) SendBroadcast(event *model.BroadcastOrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, event)
	return nil
}

func merchantRow(merchantID, ownerID string, open bool, brands, sizes []string, prices map[string]float64, lng, lat, radiusM float64, polygon []geofence.Point) *entity.Merchant {
	brandsJSON, _ := json.Marshal(brands)
	sizesJSON, _ := json.Marshal(sizes)
	pricesJSON, _ := json.Marshal(prices)
	row := &entity.Merchant{
		MerchantID:      merchantID,
		OwnerID:         ownerID,
		Name:            "Test LPG Dealer",
		IsOpen:          open,
		Lng:             lng,
		Lat:             lat,
		DeliveryRadiusM: radiusM,
		AcceptedBrands:  brandsJSON,
		AcceptedSizes:   sizesJSON,
		PriceTable:      pricesJSON,
	}
	if polygon != nil {
		polygonJSON, _ := json.Marshal(polygon)
		row.DeliveryPolygon = polygonJSON
	}
	return row
}
