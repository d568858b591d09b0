package repository

import (
	"context"

	"lpg-marketplace/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

type RiderRepository struct {
	DB mysql.DBInterface
}

func NewRiderRepository(db mysql.DBInterface) *RiderRepository {
	return &RiderRepository{
		DB: db,
	}
}

func (r *RiderRepository) Exists(ctx context.Context, userID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	var count int
	query := `SELECT COUNT(1) FROM riders WHERE rider_id = ?`
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Register creates the rider profile and flips the user role in one
// transaction; a failure mid-sequence leaves neither write behind.
func (r *RiderRepository) Register(ctx context.Context, userID string) error {
	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO riders (rider_id, is_online, last_seen_at, created_at) VALUES (?, 0, NOW(6), NOW(6))`,
			userID,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET role = 'rider', updated_at = NOW(6) WHERE user_id = ?`,
			userID,
		)
		return err
	})
}

func (r *RiderRepository) Heartbeat(ctx context.Context, riderID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE riders SET is_online = 1, last_seen_at = NOW(6) WHERE rider_id = ?`,
		riderID,
	)
	return err
}
