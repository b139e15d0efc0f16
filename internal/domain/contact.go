package domain

import "time"

// ContactSubmission is the normalized lead record carried in an email
// notification payload.
type ContactSubmission struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
