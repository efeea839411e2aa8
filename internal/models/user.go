package models

import "time"

// User represents a user account in the system.
//
// PasswordHash is persisted to the users collection but stripped (via
// omitempty) before a user leaves the service layer.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	BornDate     *string    `json:"born_date"` // YYYY-MM-DD, optional
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at"`
}

// Public returns a copy of the user safe to hand to clients.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// Active reports whether the user has not been soft-deleted.
func (u User) Active() bool {
	return u.DeletedAt == nil
}
