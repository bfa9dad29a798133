package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/AuthGo/internal/domain"
	"github.com/utafrali/AuthGo/internal/repository"
	apperrors "github.com/utafrali/AuthGo/pkg/errors"
)

// Guard resolves the calling identity from a presented access token and
// enforces role and ownership policy.
type Guard struct {
	jwt    *JWTManager
	users  repository.UserRepository
	logger *slog.Logger
}

// NewGuard creates a new access control guard.
func NewGuard(jwt *JWTManager, users repository.UserRepository, logger *slog.Logger) *Guard {
	return &Guard{
		jwt:    jwt,
		users:  users,
		logger: logger,
	}
}

// Resolve validates the bearer token and loads the user it names. A missing
// token, an invalid or expired token, and a valid token whose user no longer
// exists all collapse to the same Unauthorized error; the caller learns
// nothing about which case occurred. A storage fault during the lookup is a
// server error, never a credential rejection.
func (g *Guard) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}

	claims, err := g.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}

	user, err := g.users.GetByUsername(ctx, claims.Username())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			g.logger.DebugContext(ctx, "token subject not found",
				slog.String("username", claims.Username()),
			)
			return nil, apperrors.Unauthorized("could not validate credentials")
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return user, nil
}

// RequireAdmin fails with Forbidden unless the identity holds the admin role.
func (g *Guard) RequireAdmin(user *domain.User) error {
	if !user.Role.IsAdmin() {
		return apperrors.Forbidden("only admins can access this resource")
	}
	return nil
}

// RequireOwnerOrAdmin passes when the identity is an admin or is the owner of
// the target resource.
func (g *Guard) RequireOwnerOrAdmin(user *domain.User, targetUserID string) error {
	if user.Role.IsAdmin() {
		return nil
	}
	if user.ID != targetUserID {
		return apperrors.Forbidden("you do not have permission to access this resource")
	}
	return nil
}
