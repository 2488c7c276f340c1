package handlers

import (
	"context"

	"github.com/friendloop/backend/internal/friends"
	"github.com/friendloop/backend/internal/models"
)

// UserStore captures the persistence operations required by the auth and
// profile handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// SessionManager issues and refreshes authentication tokens for users.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
}

// FriendService is the relationship state machine consumed by the friend
// request and profile handlers. The acting user is always passed explicitly.
type FriendService interface {
	SendRequest(ctx context.Context, requesterID, targetID string) (models.Relationship, error)
	Respond(ctx context.Context, responderID, otherID string, decision friends.Decision) (models.Relationship, error)
	FriendshipBetween(ctx context.Context, a, b string) (models.Relationship, bool, error)
}
