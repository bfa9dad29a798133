package repository

import (
	"context"
	"time"

	"github.com/utafrali/AuthGo/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id string) error
}

// RefreshTokenRepository defines the interface for refresh token persistence.
// Tokens are stored and looked up by their exact opaque value.
type RefreshTokenRepository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token, userID string, expiresAt time.Time) error

	// GetByToken retrieves a refresh token record by its value.
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Delete removes the token and reports whether a record existed.
	Delete(ctx context.Context, token string) (bool, error)

	// DeleteExpired removes the token only if it expired before now. The
	// conditional single-statement delete keeps concurrent redemptions of the
	// same token from both observing it as live.
	DeleteExpired(ctx context.Context, token string, now time.Time) (bool, error)

	// DeleteByUserID removes every token owned by the user and returns how
	// many were deleted.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
