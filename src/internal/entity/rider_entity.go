package entity

import "time"

type Rider struct {
	RiderID    string    `db:"rider_id"`
	IsOnline   bool      `db:"is_online"`
	LastSeenAt time.Time `db:"last_seen_at"`
	CreatedAt  time.Time `db:"created_at"`
}

type User struct {
	UserID    string     `db:"user_id"`
	FullName  string     `db:"full_name"`
	Role      string     `db:"role"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}
