package repository

import (
	"context"
	"database/sql"
	"errors"

	"lpg-marketplace/src/internal/entity"
	"lpg-marketplace/src/pkg/databases/mysql"
)

type MerchantRepository struct {
	DB mysql.DBInterface
}

func NewMerchantRepository(db mysql.DBInterface) *MerchantRepository {
	return &MerchantRepository{
		DB: db,
	}
}

func (r *MerchantRepository) FindByID(ctx context.Context, merchantID string) (*entity.Merchant, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var merchant entity.Merchant
	query := `
		SELECT
			merchant_id, owner_id, name, is_open, lng, lat, delivery_radius_m,
			accepted_brands, accepted_sizes, price_table, delivery_polygon,
			created_at, updated_at
		FROM merchants
		WHERE merchant_id = ?`

	err = db.GetContext(ctx, &merchant, query, merchantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &merchant, nil
}

func (r *MerchantRepository) ExistsOwnedBy(ctx context.Context, merchantID, ownerID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	var count int
	query := `SELECT COUNT(1) FROM merchants WHERE merchant_id = ? AND owner_id = ?`
	if err := db.GetContext(ctx, &count, query, merchantID, ownerID); err != nil {
		return false, err
	}
	return count > 0, nil
}
