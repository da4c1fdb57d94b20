package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Accounts are created on first Google sign-in; there are no local passwords.
// Email and GoogleID are each unique across all users.
type User struct {
	ID        string
	Email     string
	Name      string
	GoogleID  string
	CreatedAt time.Time
}
