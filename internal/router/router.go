// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// FabricAI backend. It organizes routes into public, authenticated, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fabricai/internal/handlers"
	"fabricai/internal/middleware"
	"fabricai/internal/session"
)

// Handlers bundles the handler groups wired into the router.
type Handlers struct {
	Generate *handlers.Generate
	Catalog  *handlers.Catalog
	Gallery  *handlers.Gallery
	Users    *handlers.Users
	Usage    *handlers.Usage
	Auth     *handlers.Auth
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	// Login is rate-limited; generation calls deliberately are not.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Generation gateway. Open by design: the caller-supplied API key
		// path works without a session, and the client enforces nothing.
		r.Post("/gemini/edit", h.Generate.Edit)

		// Public catalog (end-user picker).
		r.Get("/fabrics", h.Catalog.ListFabrics)
		r.Get("/fabrics/{id}/colors", h.Catalog.ListColors)

		// Authentication.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)

			// 2FA enrollment requires auth but not completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		// Admin area: authenticated, 2FA-verified, admin role.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			// Catalog management.
			r.Route("/fabrics", func(r chi.Router) {
				r.Get("/", h.Catalog.ListAllFabrics)
				r.Post("/", h.Catalog.CreateFabric)
				r.Put("/{id}", h.Catalog.UpdateFabric)
				r.Put("/{id}/active", h.Catalog.SetFabricActive)
				r.Post("/{id}/colors", h.Catalog.CreateColor)
			})
			r.Delete("/colors/{id}", h.Catalog.DeleteColor)

			// Gallery.
			r.Route("/folders", func(r chi.Router) {
				r.Get("/", h.Gallery.ListFolders)
				r.Post("/", h.Gallery.CreateFolder)
				r.Put("/{id}", h.Gallery.RenameFolder)
				r.Delete("/{id}", h.Gallery.DeleteFolder)
			})
			r.Route("/images", func(r chi.Router) {
				r.Get("/", h.Gallery.ListImages)
				r.Post("/", h.Gallery.SaveImage)
				r.Delete("/{id}", h.Gallery.DeleteImage)
			})

			// User management (gated on the service credential).
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Post("/", h.Users.Create)
				r.Delete("/{id}", h.Users.Delete)
				r.Put("/{id}/role", h.Users.SetRole)
				r.Put("/{id}/password", h.Users.SetPassword)
			})

			// Usage reporting and limits.
			r.Route("/usage", func(r chi.Router) {
				r.Get("/stats", h.Usage.Stats)
				r.Get("/limits", h.Usage.Limits)
				r.Put("/limits", h.Usage.SetLimits)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
