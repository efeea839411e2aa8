package models

import "time"

// Tweet represents a short message published by a user.
// The author field keeps its historical wire name "created_by".
type Tweet struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	AuthorID  string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Active reports whether the tweet has not been soft-deleted.
func (t Tweet) Active() bool {
	return t.DeletedAt == nil
}
