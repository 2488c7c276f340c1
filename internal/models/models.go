package models

import "time"

// User represents an account within the Friendloop directory.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RelationshipStatus enumerates the lifecycle states of a relationship row.
type RelationshipStatus string

const (
	RelationshipPending   RelationshipStatus = "pending"
	RelationshipConfirmed RelationshipStatus = "confirmed"
)

// Relationship is the single stored record connecting two users. One row
// represents the pair regardless of which side initiated it; ConfirmedAt is
// nil until the recipient accepts and is never cleared afterwards.
type Relationship struct {
	ID          string
	RequesterID string
	RecipientID string
	Status      RelationshipStatus
	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

// Involves reports whether the given user is one of the two participants.
func (r Relationship) Involves(userID string) bool {
	return r.RequesterID == userID || r.RecipientID == userID
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
