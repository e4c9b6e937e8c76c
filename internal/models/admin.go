package models

import "time"

// AdminUser is a back-office account. PasswordHash is bcrypt and never
// leaves the server.
type AdminUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
