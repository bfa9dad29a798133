package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/AuthGo/internal/auth"
	"github.com/utafrali/AuthGo/internal/domain"
	"github.com/utafrali/AuthGo/internal/service"
	apperrors "github.com/utafrali/AuthGo/pkg/errors"
	"github.com/utafrali/AuthGo/pkg/validator"
)

// UserHandler handles HTTP requests for user account endpoints.
type UserHandler struct {
	service *service.UserService
	guard   *auth.Guard
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, guard *auth.Guard, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, guard: guard, logger: logger}
}

// --- Request DTOs ---

// CreateUserRequest is the JSON request body for creating a user. Role is
// optional and defaults to the regular user role.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserRequest is the JSON request body for a partial user update.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// ChangePasswordRequest is the JSON request body for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// --- Handlers ---

// Create handles POST /users/
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// List handles GET /users/ (admin only)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := CurrentUser(r.Context())
	if err := h.guard.RequireAdmin(caller); err != nil {
		writeError(w, err)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CurrentUser(r.Context()))
}

// Get handles GET /users/{id} (public)
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /users/{id} (owner or admin)
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	caller := CurrentUser(r.Context())
	if err := h.guard.RequireOwnerOrAdmin(caller, id); err != nil {
		writeError(w, err)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id} (admin only)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	caller := CurrentUser(r.Context())
	if err := h.guard.RequireAdmin(caller); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	caller := CurrentUser(r.Context())

	if err := h.service.DeleteAccount(r.Context(), caller.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// ChangePassword handles POST /users/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller := CurrentUser(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
