package model

import "time"

// Staff is an operator allowed to use the admin API.
type Staff struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
