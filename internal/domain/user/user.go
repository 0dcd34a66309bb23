package user

import "time"

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Columns is the persisted field order.
var Columns = []string{"username", "password_hash", "created_at"}
