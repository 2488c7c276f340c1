package friends

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/friendloop/backend/internal/models"
	"github.com/friendloop/backend/internal/repositories"
)

var (
	// ErrTargetNotFound indicates the requested friend is not a registered user.
	ErrTargetNotFound = errors.New("target user not found")
	// ErrRequestNotFound indicates no connecting request exists, or the caller
	// is not allowed to act on it. The two cases are intentionally identical so
	// an unauthorized caller cannot probe for a relationship's existence.
	ErrRequestNotFound = errors.New("friend request not found")
	// ErrSelfRequest indicates a user attempted to friend themselves.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")
	// ErrDuplicateRequest indicates a relationship already connects the pair.
	ErrDuplicateRequest = errors.New("relationship already exists")
)

// Decision is the recipient's answer to a pending friend request.
type Decision int

const (
	DecisionAccept  Decision = 1
	DecisionDecline Decision = 2
)

// RelationshipStore captures the persistence operations the state machine needs.
type RelationshipStore interface {
	Insert(ctx context.Context, rel models.Relationship) error
	Confirm(ctx context.Context, id string, at time.Time) error
	FindBetween(ctx context.Context, a, b string) (models.Relationship, error)
	Delete(ctx context.Context, id string) error
}

// UserDirectory answers whether a user identifier refers to a registered account.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service implements the friend request state machine: NoRelationship →
// Pending → Confirmed, with confirmation reserved for the invited party.
// Every operation takes the acting user explicitly; the service holds no
// notion of a current user.
type Service struct {
	Relationships RelationshipStore
	Directory     UserDirectory
	NowFunc       func() time.Time
}

// NewService constructs the state machine over the given collaborators.
func NewService(relationships RelationshipStore, directory UserDirectory) *Service {
	return &Service{Relationships: relationships, Directory: directory}
}

// SendRequest creates a pending relationship from requesterID to targetID.
// The store is never mutated when a precondition fails.
func (s *Service) SendRequest(ctx context.Context, requesterID, targetID string) (models.Relationship, error) {
	if requesterID == targetID {
		return models.Relationship{}, ErrSelfRequest
	}

	exists, err := s.Directory.Exists(ctx, targetID)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("look up target user: %w", err)
	}
	if !exists {
		return models.Relationship{}, ErrTargetNotFound
	}

	_, err = s.Relationships.FindBetween(ctx, requesterID, targetID)
	switch {
	case err == nil:
		return models.Relationship{}, ErrDuplicateRequest
	case !errors.Is(err, repositories.ErrNotFound):
		return models.Relationship{}, fmt.Errorf("resolve existing relationship: %w", err)
	}

	rel := models.Relationship{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		RecipientID: targetID,
		Status:      models.RelationshipPending,
		CreatedAt:   s.now(),
	}

	if err := s.Relationships.Insert(ctx, rel); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			// Lost the race against a concurrent request for the same pair;
			// the unordered-pair unique index kept the row count at one.
			return models.Relationship{}, ErrDuplicateRequest
		case errors.Is(err, repositories.ErrNotFound):
			return models.Relationship{}, ErrTargetNotFound
		}
		return models.Relationship{}, fmt.Errorf("insert relationship: %w", err)
	}

	return rel, nil
}

// Respond applies the recipient's decision to the pending request connecting
// responderID and otherID. Only the invited party may respond: the original
// requester and unrelated third parties both receive ErrRequestNotFound.
func (s *Service) Respond(ctx context.Context, responderID, otherID string, decision Decision) (models.Relationship, error) {
	rel, err := s.Relationships.FindBetween(ctx, responderID, otherID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Relationship{}, ErrRequestNotFound
		}
		return models.Relationship{}, fmt.Errorf("resolve relationship: %w", err)
	}

	if rel.RecipientID != responderID {
		return models.Relationship{}, ErrRequestNotFound
	}

	switch decision {
	case DecisionAccept:
		at := s.now().Truncate(time.Second)
		if err := s.Relationships.Confirm(ctx, rel.ID, at); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// Row vanished or was already confirmed between the resolver
				// read and the conditional update.
				return models.Relationship{}, ErrRequestNotFound
			}
			return models.Relationship{}, fmt.Errorf("confirm relationship: %w", err)
		}
		rel.Status = models.RelationshipConfirmed
		rel.ConfirmedAt = &at
		return rel, nil
	case DecisionDecline:
		if err := s.Relationships.Delete(ctx, rel.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return models.Relationship{}, ErrRequestNotFound
			}
			return models.Relationship{}, fmt.Errorf("decline relationship: %w", err)
		}
		return rel, nil
	default:
		return models.Relationship{}, fmt.Errorf("unknown decision %d", decision)
	}
}

// FriendshipBetween reports the relationship connecting the unordered pair
// {a, b}, if any. It is a read-only pass-through to the bidirectional
// resolver; the result is identical whichever way the arguments are ordered.
func (s *Service) FriendshipBetween(ctx context.Context, a, b string) (models.Relationship, bool, error) {
	rel, err := s.Relationships.FindBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Relationship{}, false, nil
		}
		return models.Relationship{}, false, fmt.Errorf("resolve relationship: %w", err)
	}
	return rel, true, nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
