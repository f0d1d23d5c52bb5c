package domain

import "time"

// Admin is a moderator account able to decide on listings.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
