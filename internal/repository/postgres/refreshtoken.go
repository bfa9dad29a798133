package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/AuthGo/internal/domain"
	apperrors "github.com/utafrali/AuthGo/pkg/errors"
)

// RefreshTokenRepository implements repository.RefreshTokenRepository using PostgreSQL.
type RefreshTokenRepository struct {
	db DB
}

// NewRefreshTokenRepository creates a new PostgreSQL-backed refresh token repository.
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create stores a new refresh token. The token column is the primary key, so a
// collision between two generated values surfaces as a unique violation.
func (r *RefreshTokenRepository) Create(ctx context.Context, token, userID string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, token, userID, expiresAt, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("refresh token collision: %w", err)
		}
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// GetByToken retrieves a refresh token record by its exact value.
func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1`

	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.Token,
		&rt.UserID,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}

	return &rt, nil
}

// Delete removes the token and reports whether a record existed.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) (bool, error) {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	ct, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// DeleteExpired removes the token only if it expired before now. Concurrent
// redemptions race on this row; the condition makes the delete a no-op for
// all but one of them.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, token string, now time.Time) (bool, error) {
	query := `DELETE FROM refresh_tokens WHERE token = $1 AND expires_at < $2`

	ct, err := r.db.Exec(ctx, query, token, now)
	if err != nil {
		return false, fmt.Errorf("delete expired refresh token: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// DeleteByUserID removes every token owned by the user.
func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	ct, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens by user: %w", err)
	}

	return ct.RowsAffected(), nil
}
