package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/AuthGo/internal/domain"
)

// promote flips a registered user to the admin role directly in storage.
func (e *testEnv) promote(t *testing.T, username string) {
	t.Helper()
	u, err := e.users.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	u.Role = domain.RoleAdmin
	require.NoError(t, e.users.Update(context.Background(), u))
}

func TestMeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com", "s3cret-password")
	login := env.login(t, "alice", "s3cret-password")
	access := login["access_token"].(string)

	rec := env.do(t, http.MethodGet, "/users/me", "", "", bearerHeader(access))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "alice", body["username"])
}

func TestMeEndpoint_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/users/me", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/me", "", "", bearerHeader("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserEndpoint_Public(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "alice", "alice@example.com", "s3cret-password")
	id := registered["id"].(string)

	// No Authorization header needed.
	rec := env.do(t, http.MethodGet, "/users/"+id, "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "alice", body["username"])
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/users/does-not-exist", "", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsersEndpoint_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com", "s3cret-password")
	env.register(t, "bob", "bob@example.com", "s3cret-password")

	aliceLogin := env.login(t, "alice", "s3cret-password")
	rec := env.do(t, http.MethodGet, "/users/", "", "", bearerHeader(aliceLogin["access_token"].(string)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.promote(t, "bob")
	bobLogin := env.login(t, "bob", "s3cret-password")
	rec = env.do(t, http.MethodGet, "/users/", "", "", bearerHeader(bobLogin["access_token"].(string)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateUserEndpoint_OwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com", "s3cret-password")
	bob := env.register(t, "bob", "bob@example.com", "s3cret-password")
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	aliceLogin := env.login(t, "alice", "s3cret-password")
	access := aliceLogin["access_token"].(string)

	// Owner may update their own record.
	rec := env.do(t, http.MethodPut, "/users/"+aliceID, "application/json",
		`{"email":"alice@new.example.com"}`, bearerHeader(access))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "alice@new.example.com", body["email"])

	// But not someone else's.
	rec = env.do(t, http.MethodPut, "/users/"+bobID, "application/json",
		`{"email":"hijacked@example.com"}`, bearerHeader(access))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An admin may.
	env.promote(t, "bob")
	bobLogin := env.login(t, "bob", "s3cret-password")
	rec = env.do(t, http.MethodPut, "/users/"+aliceID, "application/json",
		`{"username":"alice2"}`, bearerHeader(bobLogin["access_token"].(string)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteUserEndpoint_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com", "s3cret-password")
	env.register(t, "bob", "bob@example.com", "s3cret-password")
	aliceID := alice["id"].(string)

	bobLogin := env.login(t, "bob", "s3cret-password")
	rec := env.do(t, http.MethodDelete, "/users/"+aliceID, "", "", bearerHeader(bobLogin["access_token"].(string)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.promote(t, "bob")
	bobLogin = env.login(t, "bob", "s3cret-password")
	rec = env.do(t, http.MethodDelete, "/users/"+aliceID, "", "", bearerHeader(bobLogin["access_token"].(string)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/"+aliceID, "", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMeEndpoint_RevokesTokens(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com", "s3cret-password")
	login := env.login(t, "alice", "s3cret-password")
	access := login["access_token"].(string)
	refresh := login["refresh_token"].(string)

	rec := env.do(t, http.MethodDelete, "/users/me", "", "", bearerHeader(access))
	require.Equal(t, http.StatusOK, rec.Code)

	// The account is gone and its refresh token no longer redeems.
	rec = env.do(t, http.MethodPost, "/auth/refresh", "application/json",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	form := url.Values{"username": {"alice"}, "password": {"s3cret-password"}}
	rec = env.do(t, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded", form.Encode(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com", "s3cret-password")
	login := env.login(t, "alice", "s3cret-password")
	access := login["access_token"].(string)
	refresh := login["refresh_token"].(string)

	// Wrong current password is rejected.
	rec := env.do(t, http.MethodPost, "/users/change-password", "application/json",
		`{"current_password":"wrong","new_password":"brand-new-password"}`, bearerHeader(access))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Correct current password succeeds and revokes every session.
	rec = env.do(t, http.MethodPost, "/users/change-password", "application/json",
		`{"current_password":"s3cret-password","new_password":"brand-new-password"}`, bearerHeader(access))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/refresh", "application/json",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Only the new password logs in.
	form := url.Values{"username": {"alice"}, "password": {"s3cret-password"}}
	rec = env.do(t, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded", form.Encode(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.login(t, "alice", "brand-new-password")
}

func TestCreateUserEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/users/", "application/json",
		`{"username":"carol","email":"carol@example.com","password":"s3cret-password"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "carol", body["username"])
	assert.Equal(t, "user", body["role"])
}

func TestCreateUserEndpoint_WithRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/users/", "application/json",
		`{"username":"root","email":"root@example.com","password":"s3cret-password","role":"admin"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "admin", decodeBody(t, rec)["role"])
}
