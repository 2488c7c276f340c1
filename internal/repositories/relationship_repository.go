package repositories

import (
	"context"
	"time"

	"github.com/friendloop/backend/internal/models"
)

// RelationshipRepository defines data access for relationship rows. A single
// row represents the unordered pair of its two participants; FindBetween must
// locate it regardless of which participant initiated the request.
type RelationshipRepository interface {
	Insert(ctx context.Context, rel models.Relationship) error
	Confirm(ctx context.Context, id string, at time.Time) error
	FindByID(ctx context.Context, id string) (models.Relationship, error)
	FindBetween(ctx context.Context, a, b string) (models.Relationship, error)
	Delete(ctx context.Context, id string) error
}
