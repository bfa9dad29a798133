package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/AuthGo/internal/auth"
	"github.com/utafrali/AuthGo/internal/domain"
	"github.com/utafrali/AuthGo/internal/event"
	apperrors "github.com/utafrali/AuthGo/pkg/errors"
	"github.com/utafrali/AuthGo/pkg/kafka"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Refresh Token Repository ---

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token, userID string, expiresAt time.Time) error {
	args := m.Called(ctx, token, userID, expiresAt)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) Delete(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, token string, now time.Time) (bool, error) {
	args := m.Called(ctx, token, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Stub event publisher ---

type stubPublisher struct {
	mu     sync.Mutex
	events []*kafka.Event
}

func (s *stubPublisher) Publish(_ context.Context, _ string, evt *kafka.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *stubPublisher) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.EventType)
	}
	return types
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-testing", 15*time.Minute)
}

func newTestService(
	userRepo *mockUserRepository,
	refreshTokenRepo *mockRefreshTokenRepository,
) (*UserService, *stubPublisher) {
	pub := &stubPublisher{}
	svc := NewUserService(
		userRepo,
		refreshTokenRepo,
		newTestJWTManager(),
		7*24*time.Hour,
		event.NewProducer(pub),
		newTestLogger(),
	)
	return svc, pub
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestRegister_Success(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, pub := newTestService(userRepo, tokenRepo)

	userRepo.On("GetByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-password", user.PasswordHash)
	assert.True(t, auth.VerifyPassword("s3cret-password", user.PasswordHash))
	assert.Contains(t, pub.eventTypes(), "user.registered")
	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	existing := &domain.User{ID: "u-1", Username: "alice"}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(existing, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "s3cret-password",
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	existing := &domain.User{ID: "u-1", Email: "alice@example.com"}
	userRepo.On("GetByUsername", mock.Anything, "bob").Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newTestService(&mockUserRepository{}, &mockRefreshTokenRepository{})

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Email: "a@b.com", Password: "s3cret-password"}},
		{"missing email", RegisterInput{Username: "alice", Email: "", Password: "s3cret-password"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:           "u-1",
		Username:     "alice",
		Role:         domain.RoleUser,
		PasswordHash: hashFor(t, "s3cret-password"),
	}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
	tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("string"), "u-1", mock.AnythingOfType("time.Time")).Return(nil)

	pair, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := newTestJWTManager().ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "user", claims.Role)

	tokenRepo.AssertExpectations(t)
}

func TestLogin_RefreshTokensAreUnique(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:           "u-1",
		Username:     "alice",
		Role:         domain.RoleUser,
		PasswordHash: hashFor(t, "s3cret-password"),
	}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
	tokenRepo.On("Create", mock.Anything, mock.Anything, "u-1", mock.Anything).Return(nil)

	first, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:           "u-1",
		Username:     "alice",
		Role:         domain.RoleUser,
		PasswordHash: hashFor(t, "s3cret-password"),
	}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
	userRepo.On("GetByUsername", mock.Anything, "nobody").Return(nil, apperrors.ErrNotFound)

	_, wrongPass := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})
	_, unknownUser := svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "whatever"})

	var appErr1, appErr2 *apperrors.AppError
	require.ErrorAs(t, wrongPass, &appErr1)
	require.ErrorAs(t, unknownUser, &appErr2)

	// Unknown username and wrong password produce identical responses.
	assert.Equal(t, appErr1.Message, appErr2.Message)
	assert.Equal(t, appErr1.Status, appErr2.Status)
	assert.Equal(t, http.StatusUnauthorized, appErr1.Status)
}

func TestLogin_StorageFailureIsNot401(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	userRepo.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("connection refused"))

	_, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "s3cret-password"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

// ---------------------------------------------------------------------------
// Refresh
// ---------------------------------------------------------------------------

func TestRefresh_Success_UsesCurrentRole(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	stored := &domain.RefreshToken{
		Token:     "refresh-abc",
		UserID:    "u-1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	tokenRepo.On("GetByToken", mock.Anything, "refresh-abc").Return(stored, nil)

	// The user was promoted after login; the new access token carries the
	// current role.
	alice := &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleAdmin}
	userRepo.On("GetByID", mock.Anything, "u-1").Return(alice, nil)

	token, err := svc.Refresh(context.Background(), "refresh-abc")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	claims, err := newTestJWTManager().ValidateAccessToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	tokenRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	tokenRepo.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_UnknownToken(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	tokenRepo.On("GetByToken", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Refresh(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestRefresh_ExpiredTokenIsDeleted(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	stored := &domain.RefreshToken{
		Token:     "refresh-old",
		UserID:    "u-1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	tokenRepo.On("GetByToken", mock.Anything, "refresh-old").Return(stored, nil)
	tokenRepo.On("DeleteExpired", mock.Anything, "refresh-old", mock.AnythingOfType("time.Time")).Return(true, nil)

	_, err := svc.Refresh(context.Background(), "refresh-old")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	tokenRepo.AssertExpectations(t)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRefresh_ExpiredToken_ConcurrentDeleteLost(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	stored := &domain.RefreshToken{
		Token:     "refresh-old",
		UserID:    "u-1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	tokenRepo.On("GetByToken", mock.Anything, "refresh-old").Return(stored, nil)
	// Another request already removed the row; the conditional delete is a no-op.
	tokenRepo.On("DeleteExpired", mock.Anything, "refresh-old", mock.Anything).Return(false, nil)

	_, err := svc.Refresh(context.Background(), "refresh-old")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRefresh_StorageFailureIsNot401(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	tokenRepo.On("GetByToken", mock.Anything, "refresh-abc").Return(nil, errors.New("connection refused"))

	_, err := svc.Refresh(context.Background(), "refresh-abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestLogout_Success(t *testing.T) {
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(&mockUserRepository{}, tokenRepo)

	tokenRepo.On("Delete", mock.Anything, "refresh-abc").Return(true, nil)

	err := svc.Logout(context.Background(), "refresh-abc")
	assert.NoError(t, err)
}

func TestLogout_UnknownToken(t *testing.T) {
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(&mockUserRepository{}, tokenRepo)

	tokenRepo.On("Delete", mock.Anything, "missing").Return(false, nil)

	err := svc.Logout(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

// ---------------------------------------------------------------------------
// ChangePassword
// ---------------------------------------------------------------------------

func TestChangePassword_Success_RevokesAllTokens(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, pub := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:           "u-1",
		Username:     "alice",
		PasswordHash: hashFor(t, "old-password"),
	}
	userRepo.On("Update", mock.Anything, alice).Return(nil)
	tokenRepo.On("DeleteByUserID", mock.Anything, "u-1").Return(int64(2), nil)

	err := svc.ChangePassword(context.Background(), alice, "old-password", "new-password")
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword("new-password", alice.PasswordHash))
	assert.False(t, auth.VerifyPassword("old-password", alice.PasswordHash))
	assert.Contains(t, pub.eventTypes(), "user.password_changed")
	tokenRepo.AssertExpectations(t)
}

func TestChangePassword_RevocationFailureFailsOperation(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, pub := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:           "u-1",
		Username:     "alice",
		PasswordHash: hashFor(t, "old-password"),
	}
	userRepo.On("Update", mock.Anything, alice).Return(nil)
	tokenRepo.On("DeleteByUserID", mock.Anything, "u-1").Return(int64(0), errors.New("connection refused"))

	// If the old sessions cannot be revoked, the caller must not be told the
	// change succeeded.
	err := svc.ChangePassword(context.Background(), alice, "old-password", "new-password")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	assert.NotContains(t, pub.eventTypes(), "user.password_changed")
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:           "u-1",
		PasswordHash: hashFor(t, "old-password"),
	}

	err := svc.ChangePassword(context.Background(), alice, "not-the-password", "new-password")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	tokenRepo.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// DeleteAccount
// ---------------------------------------------------------------------------

func TestDeleteAccount_RevokesTokensBeforeDelete(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, pub := newTestService(userRepo, tokenRepo)

	var order []string
	tokenRepo.On("DeleteByUserID", mock.Anything, "u-1").Run(func(mock.Arguments) {
		order = append(order, "revoke")
	}).Return(int64(3), nil)
	userRepo.On("Delete", mock.Anything, "u-1").Run(func(mock.Arguments) {
		order = append(order, "delete")
	}).Return(nil)

	err := svc.DeleteAccount(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"revoke", "delete"}, order)
	assert.Contains(t, pub.eventTypes(), "user.deleted")
}

func TestDeleteAccount_RevokeFailureAbortsDelete(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	tokenRepo.On("DeleteByUserID", mock.Anything, "u-1").Return(int64(0), errors.New("connection refused"))

	err := svc.DeleteAccount(context.Background(), "u-1")
	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// UpdateUser
// ---------------------------------------------------------------------------

func TestUpdateUser_PartialUpdate(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	alice := &domain.User{
		ID:       "u-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
	}
	userRepo.On("GetByID", mock.Anything, "u-1").Return(alice, nil)
	userRepo.On("Update", mock.Anything, alice).Return(nil)

	newEmail := "alice@new.example.com"
	got, err := svc.UpdateUser(context.Background(), "u-1", UpdateUserInput{Email: &newEmail})
	require.NoError(t, err)

	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, newEmail, got.Email)
}

func TestUpdateUser_PasswordIsHashed(t *testing.T) {
	userRepo := &mockUserRepository{}
	tokenRepo := &mockRefreshTokenRepository{}
	svc, _ := newTestService(userRepo, tokenRepo)

	alice := &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleUser}
	userRepo.On("GetByID", mock.Anything, "u-1").Return(alice, nil)
	userRepo.On("Update", mock.Anything, alice).Return(nil)

	newPassword := "brand-new-password"
	got, err := svc.UpdateUser(context.Background(), "u-1", UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, newPassword, got.PasswordHash)
	assert.True(t, auth.VerifyPassword(newPassword, got.PasswordHash))
}

func TestUpdateUser_NotFound(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc, _ := newTestService(userRepo, &mockRefreshTokenRepository{})

	userRepo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateUser(context.Background(), "missing", UpdateUserInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ---------------------------------------------------------------------------
// GetUser / ListUsers
// ---------------------------------------------------------------------------

func TestGetUser_NotFound(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc, _ := newTestService(userRepo, &mockRefreshTokenRepository{})

	userRepo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetUser(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestListUsers(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc, _ := newTestService(userRepo, &mockRefreshTokenRepository{})

	users := []domain.User{{ID: "u-1"}, {ID: "u-2"}}
	userRepo.On("List", mock.Anything).Return(users, nil)

	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
