package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/friendloop/backend/internal/db"
	"github.com/friendloop/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, user.ID, user.Email, user.Password, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at, updated_at
        FROM users
        WHERE email = $1
    `, email)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by email: %w", err)
	}

	return user, nil
}

// FindByID fetches a user by their identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}

	return user, nil
}

// Exists reports whether a user with the given identifier is registered.
func (r *PostgresUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	row := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("select user existence: %w", err)
	}

	return exists, nil
}

// PostgresRelationshipRepository provides PostgreSQL-backed persistence for
// relationship rows.
type PostgresRelationshipRepository struct {
	pool db.Pool
}

// NewPostgresRelationshipRepository constructs a relationship repository
// backed by PostgreSQL.
func NewPostgresRelationshipRepository(pool db.Pool) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{pool: pool}
}

// Insert persists a new pending relationship row. The unordered-pair unique
// index makes a concurrent duplicate insert surface as ErrConflict rather
// than a second row.
func (r *PostgresRelationshipRepository) Insert(ctx context.Context, rel models.Relationship) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO relationships (id, requester_id, recipient_id, status, created_at, confirmed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, rel.ID, rel.RequesterID, rel.RecipientID, rel.Status, rel.CreatedAt, rel.ConfirmedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert relationship: %w", err)
	}

	return nil
}

// Confirm transitions a pending row to confirmed in one atomic statement.
// A missing row and an already-confirmed row are indistinguishable here; both
// report ErrNotFound.
func (r *PostgresRelationshipRepository) Confirm(ctx context.Context, id string, at time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE relationships
        SET status = $2, confirmed_at = $3
        WHERE id = $1 AND status = $4
    `, id, models.RelationshipConfirmed, at.UTC(), models.RelationshipPending)
	if err != nil {
		return fmt.Errorf("confirm relationship: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindByID fetches a relationship row by its identifier.
func (r *PostgresRelationshipRepository) FindByID(ctx context.Context, id string) (models.Relationship, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, requester_id, recipient_id, status, created_at, confirmed_at
        FROM relationships
        WHERE id = $1
    `, id)

	return scanRelationship(row, "select relationship by id")
}

// FindBetween returns the single row connecting the unordered pair {a, b}.
// The predicate matches both stored directions; without the reverse clause an
// A-initiated and a B-initiated row would look like distinct records.
func (r *PostgresRelationshipRepository) FindBetween(ctx context.Context, a, b string) (models.Relationship, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, requester_id, recipient_id, status, created_at, confirmed_at
        FROM relationships
        WHERE (requester_id = $1 AND recipient_id = $2)
           OR (requester_id = $2 AND recipient_id = $1)
    `, a, b)

	return scanRelationship(row, "select relationship between users")
}

// Delete removes a still-pending row. Confirmed rows are terminal and cannot
// be deleted through this repository.
func (r *PostgresRelationshipRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM relationships
        WHERE id = $1 AND status = $2
    `, id, models.RelationshipPending)
	if err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanRelationship(row pgx.Row, op string) (models.Relationship, error) {
	var (
		rel         models.Relationship
		confirmedAt sql.NullTime
	)

	if err := row.Scan(&rel.ID, &rel.RequesterID, &rel.RecipientID, &rel.Status, &rel.CreatedAt, &confirmedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Relationship{}, ErrNotFound
		}
		return models.Relationship{}, fmt.Errorf("%s: %w", op, err)
	}

	if confirmedAt.Valid {
		t := confirmedAt.Time.UTC()
		rel.ConfirmedAt = &t
	}

	return rel, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ RelationshipRepository = (*PostgresRelationshipRepository)(nil)
