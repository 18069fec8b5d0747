// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fabricai/internal/models"
	"fabricai/internal/store"
)

// Users groups the admin user-management handlers. Every endpoint is gated
// on the privileged service credential: when ADMIN_SERVICE_KEY is not
// configured, user management answers 503 without touching the store.
type Users struct {
	users      *store.UserStore
	serviceKey string
}

// NewUsers creates the user-management handler group.
func NewUsers(users *store.UserStore, serviceKey string) *Users {
	return &Users{users: users, serviceKey: serviceKey}
}

// configured writes the 503 response and returns false when the service
// credential is absent.
func (u *Users) configured(w http.ResponseWriter) bool {
	if u.serviceKey == "" {
		writeError(w, http.StatusServiceUnavailable, "User management is not configured. Set ADMIN_SERVICE_KEY.")
		return false
	}
	return true
}

// List handles GET /api/admin/users.
func (u *Users) List(w http.ResponseWriter, r *http.Request) {
	if !u.configured(w) {
		return
	}

	users, err := u.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create handles POST /api/admin/users.
func (u *Users) Create(w http.ResponseWriter, r *http.Request) {
	if !u.configured(w) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Role must be admin or venditore.")
		return
	}

	existing, err := u.users.FindByEmail(email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "A user with this email already exists.")
		return
	}

	user, err := u.users.Create(email, req.Password, req.FullName, models.Role(req.Role))
	if err != nil {
		slog.Error("create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("user created", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

// Delete handles DELETE /api/admin/users/{id}.
func (u *Users) Delete(w http.ResponseWriter, r *http.Request) {
	if !u.configured(w) {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	if err := u.users.Delete(id); err != nil {
		slog.Error("delete user failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SetRole handles PUT /api/admin/users/{id}/role.
func (u *Users) SetRole(w http.ResponseWriter, r *http.Request) {
	if !u.configured(w) {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Role must be admin or venditore.")
		return
	}

	if err := u.users.SetRole(id, models.Role(req.Role)); err != nil {
		slog.Error("set user role failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SetPassword handles PUT /api/admin/users/{id}/password.
func (u *Users) SetPassword(w http.ResponseWriter, r *http.Request) {
	if !u.configured(w) {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required.")
		return
	}

	if err := u.users.SetPassword(id, req.Password); err != nil {
		slog.Error("set user password failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
