package usecase

import (
	"context"
	"time"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/internal/model"

	"github.com/hibiken/asynq"
)

// Store contracts the usecases depend on. The sqlx repositories satisfy them
// in production; tests substitute in-memory fakes.

type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, orderID string) (*entity.Order, error)
	ClaimPending(ctx context.Context, orderID, riderID string) (bool, error)
	AcceptByMerchant(ctx context.Context, orderID string, riderID *string) (bool, error)
	UpdateStatusForRider(ctx context.Context, orderID, riderID, fromStatus, toStatus string) (bool, error)
	Cancel(ctx context.Context, orderID, fromStatus string, reason *string) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]entity.Order, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]entity.Order, error)
	ListPendingByIDs(ctx context.Context, orderIDs []string, limit int) ([]entity.Order, error)
}

type MerchantStore interface {
	FindByID(ctx context.Context, merchantID string) (*entity.Merchant, error)
	ExistsOwnedBy(ctx context.Context, merchantID, ownerID string) (bool, error)
}

type RiderStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
	Register(ctx context.Context, userID string) error
	Heartbeat(ctx context.Context, riderID string) error
}

type GeoStore interface {
	AddPendingOrder(ctx context.Context, orderID string, lng, lat float64) error
	RemovePendingOrder(ctx context.Context, orderID string) error
	NearbyPendingOrders(ctx context.Context, lng, lat, radiusM float64, limit int) ([]string, error)
	UpdateRiderLocation(ctx context.Context, riderID string, lng, lat float64) error
	NearbyRiders(ctx context.Context, lng, lat, radiusM float64, limit int) ([]string, error)
	CacheActiveOrder(ctx context.Context, riderID string, payload []byte, ttl time.Duration) error
}

// OrderEventPublisher is satisfied by messaging.OrderProducer.
type OrderEventPublisher interface {
	SendOrderCreated(event *model.OrderEvent) error
	SendStatusChanged(event *model.OrderEvent) error
	SendBroadcast(event *model.BroadcastOrderEvent) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
