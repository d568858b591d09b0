package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

const orderColumns = `
	order_id, customer_id, merchant_id, brand, tank_size, quantity,
	delivery_lng, delivery_lat, delivery_address, notes, total_price,
	status, rider_id, cancellation_reason,
	accepted_at, dispatched_at, delivered_at, cancelled_at,
	created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			order_id, customer_id, merchant_id, brand, tank_size, quantity,
			delivery_lng, delivery_lat, delivery_address, notes, total_price,
			status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(6), NOW(6))`

	_, err = db.ExecContext(ctx, query,
		order.OrderID, order.CustomerID, order.MerchantID,
		order.Brand, order.TankSize, order.Quantity,
		order.DeliveryLng, order.DeliveryLat, order.DeliveryAddress,
		order.Notes, order.TotalPrice, order.Status,
	)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var order entity.Order
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = ?`, orderColumns)
	err = db.GetContext(ctx, &order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

// ClaimPending is the accept-race operation: one conditional update keyed on
// the order still being pending. Rows-affected decides the winner; of N
// concurrent claims on the same order the store matches exactly one.
func (r *OrderRepository) ClaimPending(ctx context.Context, orderID, riderID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE orders
		SET status = ?, rider_id = ?, accepted_at = NOW(6), updated_at = NOW(6)
		WHERE order_id = ? AND status = ?`

	res, err := db.ExecContext(ctx, query, entity.StatusAccepted, riderID, orderID, entity.StatusPending)
	if err != nil {
		return false, err
	}
	return rowsMatched(res)
}

// AcceptByMerchant moves a pending order to accepted on the merchant path. The
// rider assignment is optional here; the claim path always sets it.
func (r *OrderRepository) AcceptByMerchant(ctx context.Context, orderID string, riderID *string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE orders
		SET status = ?, rider_id = COALESCE(?, rider_id), accepted_at = NOW(6), updated_at = NOW(6)
		WHERE order_id = ? AND status = ?`

	res, err := db.ExecContext(ctx, query, entity.StatusAccepted, riderID, orderID, entity.StatusPending)
	if err != nil {
		return false, err
	}
	return rowsMatched(res)
}

// UpdateStatusForRider advances accepted->dispatched or dispatched->delivered.
// The predicate pins both the current status and the assigned rider, so a
// wrong caller and a stale status fail the same way: zero rows.
func (r *OrderRepository) UpdateStatusForRider(ctx context.Context, orderID, riderID, fromStatus, toStatus string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	tsColumn := entity.TimestampColumn(toStatus)
	if tsColumn == "" {
		return false, fmt.Errorf("no timestamp column for status %s", toStatus)
	}

	query := fmt.Sprintf(`
		UPDATE orders
		SET status = ?, %s = NOW(6), updated_at = NOW(6)
		WHERE order_id = ? AND rider_id = ? AND status = ?`, tsColumn)

	res, err := db.ExecContext(ctx, query, toStatus, orderID, riderID, fromStatus)
	if err != nil {
		return false, err
	}
	return rowsMatched(res)
}

// Cancel conditions on the status snapshot the caller was authorized against.
// The rider id is left as-is: a cancelled order keeps whatever rider it had.
func (r *OrderRepository) Cancel(ctx context.Context, orderID, fromStatus string, reason *string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE orders
		SET status = ?, cancellation_reason = ?, cancelled_at = NOW(6), updated_at = NOW(6)
		WHERE order_id = ? AND status = ?`

	res, err := db.ExecContext(ctx, query, entity.StatusCancelled, reason, orderID, fromStatus)
	if err != nil {
		return false, err
	}
	return rowsMatched(res)
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE customer_id = ? ORDER BY created_at DESC`, orderColumns)
	if err := db.SelectContext(ctx, &orders, query, customerID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListByMerchant(ctx context.Context, merchantID string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE merchant_id = ? ORDER BY created_at DESC`, orderColumns)
	if err := db.SelectContext(ctx, &orders, query, merchantID); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListPendingByIDs re-reads GEO candidates against the source of truth: only
// rows still pending come back, oldest first so claiming stays fair.
func (r *OrderRepository) ListPendingByIDs(ctx context.Context, orderIDs []string, limit int) ([]entity.Order, error) {
	if len(orderIDs) == 0 {
		return []entity.Order{}, nil
	}

	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE order_id IN (?) AND status = ?
		ORDER BY created_at ASC
		LIMIT ?`, orderColumns)

	query, args, err := sqlx.In(query, orderIDs, entity.StatusPending, limit)
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	if err := db.SelectContext(ctx, &orders, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return orders, nil
}

func rowsMatched(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
