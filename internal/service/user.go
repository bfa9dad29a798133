package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/AuthGo/internal/auth"
	"github.com/utafrali/AuthGo/internal/domain"
	"github.com/utafrali/AuthGo/internal/event"
	"github.com/utafrali/AuthGo/internal/repository"
	apperrors "github.com/utafrali/AuthGo/pkg/errors"
)

// refreshTokenBytes is the entropy of an opaque refresh token before encoding.
const refreshTokenBytes = 64

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// Username length bounds.
const (
	minUsernameLength = 3
	maxUsernameLength = 50
)

const tokenTypeBearer = "bearer"

// UserService implements the auth flows and account management on top of the
// user and refresh-token repositories.
type UserService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtManager       *auth.JWTManager
	refreshExpiry    time.Duration
	producer         *event.Producer
	logger           *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	refreshExpiry time.Duration,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtManager:       jwtManager,
		refreshExpiry:    refreshExpiry,
		producer:         producer,
		logger:           logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Username string
	Password string
}

// UpdateUserInput holds the parameters for a partial user update. Nil fields
// are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

// AccessToken is the result of a successful refresh.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Auth flows ---

// Register creates a new user account. Both username and email uniqueness are
// checked before creation; the repository reports a storage-level uniqueness
// violation as the same Conflict in case of a concurrent registration.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if l := len(input.Username); l < minUsernameLength || l > maxUsernameLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.Conflict("username already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.Conflict("email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user and issues an access/refresh token pair. Unknown
// username and wrong password return the same Unauthorized so the endpoint
// cannot be used to enumerate accounts.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user for login: %w", err)
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.Username, user.Role.String())
	if err != nil {
		return nil, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.refreshExpiry)
	if err := s.refreshTokenRepo.Create(ctx, refreshToken, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// Refresh redeems a refresh token for a new access token. The refresh token
// itself is not rotated: it stays valid until natural expiry or logout. An
// expired token is deleted on detection; invalid and expired both surface as
// the same Unauthorized to the client.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AccessToken, error) {
	rt, err := s.refreshTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.UnauthorizedWith("invalid or expired refresh token", apperrors.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	now := time.Now().UTC()
	if rt.Expired(now) {
		// Conditional delete; a concurrent redemption may already have won.
		if _, err := s.refreshTokenRepo.DeleteExpired(ctx, rt.Token, now); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete expired refresh token",
				slog.String("user_id", rt.UserID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperrors.UnauthorizedWith("invalid or expired refresh token", apperrors.ErrTokenExpired)
	}

	// Mint from the owner's current role, not the role at login time.
	user, err := s.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.UnauthorizedWith("invalid or expired refresh token", apperrors.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get user for token refresh: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.Username, user.Role.String())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "access token refreshed",
		slog.String("user_id", user.ID),
	)

	return &AccessToken{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
	}, nil
}

// Logout revokes exactly the presented refresh token.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	existed, err := s.refreshTokenRepo.Delete(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if !existed {
		return apperrors.NotFoundMessage("token not found")
	}

	s.logger.InfoContext(ctx, "user logged out")
	return nil
}

// ChangePassword verifies the current password, replaces the hash, and
// revokes every refresh token for the user, forcing re-login everywhere.
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if !auth.VerifyPassword(currentPassword, user.PasswordHash) {
		return apperrors.InvalidInput("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	// The old credential must not stay redeemable; a failed revocation fails
	// the whole operation.
	revoked, err := s.refreshTokenRepo.DeleteByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("revoke refresh tokens after password change: %w", err)
	}

	if err := s.producer.PublishUserPasswordChanged(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.password_changed event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
		slog.Int64("tokens_revoked", revoked),
	)

	return nil
}

// DeleteAccount revokes all refresh tokens for the target, then deletes the
// user record, in that order. The revocation is never skipped; a crash
// between the steps leaves a tokenless user who must log in again, which is
// an accepted degraded state.
func (s *UserService) DeleteAccount(ctx context.Context, targetID string) error {
	revoked, err := s.refreshTokenRepo.DeleteByUserID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("revoke refresh tokens for deletion: %w", err)
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	if err := s.producer.PublishUserDeleted(ctx, targetID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.deleted event",
			slog.String("user_id", targetID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", targetID),
		slog.Int64("tokens_revoked", revoked),
	)

	return nil
}

// --- Account management ---

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users. Admin gating happens at the handler layer.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the supplied fields to the user. A new password is
// hashed before it replaces the stored hash; the plaintext never reaches the
// repository.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.Username != nil {
		if l := len(*input.Username); l < minUsernameLength || l > maxUsernameLength {
			return nil, apperrors.InvalidInput(fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
		}
		user.Username = *input.Username
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, apperrors.InvalidInput("email must not be empty")
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.producer.PublishUserUpdated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.updated event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// newRefreshToken generates an opaque refresh token with 64 bytes of entropy,
// base64 raw-URL encoded.
func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
