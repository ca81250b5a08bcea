package entity

import "time"

// SignupRecord is one line of the shared CSV log. It is append-only and never
// queried back by the API.
type SignupRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Source    string    `json:"source,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}
