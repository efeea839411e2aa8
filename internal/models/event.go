package models

import "time"

// Event represents a loggable action in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "user.registered", "tweet.created"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	SubjectID *string   `json:"subject_id,omitempty"` // Id of the user or tweet involved
	CreatedAt time.Time `json:"created_at"`
}
