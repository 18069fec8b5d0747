// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleVenditore Role = "venditore"
)

// ValidRole reports whether a role string is one of the known roles.
func ValidRole(r string) bool {
	return Role(r) == RoleAdmin || Role(r) == RoleVenditore
}

// Plan represents a subscription tier with a monthly generation budget.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// planLimits maps each plan to its monthly generation budget.
// Business is unlimited (-1).
var planLimits = map[Plan]int{
	PlanFree:     3,
	PlanPro:      50,
	PlanBusiness: -1,
}

// User represents an account with authentication, role, and plan usage fields.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Never serialize the hash
	FullName        string    `json:"full_name"`
	Role            Role      `json:"role"`
	Plan            Plan      `json:"plan"`
	GenerationsUsed int       `json:"generations_used"`
	TOTPSecret      *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled     bool      `json:"totp_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GenerationLimit returns the monthly generation budget for the user's plan.
// Returns -1 for unlimited plans and the free tier budget for unknown plans.
func (u *User) GenerationLimit() int {
	if limit, ok := planLimits[u.Plan]; ok {
		return limit
	}
	return planLimits[PlanFree]
}

// RemainingGenerations returns how many generations the user has left this
// month, or -1 if the plan is unlimited.
func (u *User) RemainingGenerations() int {
	limit := u.GenerationLimit()
	if limit < 0 {
		return -1
	}
	if remaining := limit - u.GenerationsUsed; remaining > 0 {
		return remaining
	}
	return 0
}
