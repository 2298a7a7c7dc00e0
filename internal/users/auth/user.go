// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package auth implements the user identity layer of Acadia.

It defines the core domain entities (User, RefreshToken) and logic for
registration, credential verification, and the refresh token lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Acadia platform.
type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Roles        []sec.RoleName `json:"roles"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// HasRole reports whether the account holds the given role.
func (u *User) HasRole(role sec.RoleName) bool {
	for _, held := range u.Roles {
		if held == role {
			return true
		}
	}
	return false
}

// RefreshToken is a long-lived, single-use credential for minting new
// access tokens.
//
// # Invariant
//
// Each account holds AT MOST ONE live refresh token. Issuing a new one
// atomically destroys the previous one, so a stolen old token dies the
// moment its owner logs in again.
type RefreshToken struct {
	// Value is the opaque random token string handed to the client.
	Value string `json:"value"`
	// OwnerID is the account the token belongs to.
	OwnerID int64 `json:"owner_id"`
	// ExpiresAt is the instant the token stops being honored.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token's validity window has passed.
// A token expiring at exactly the current instant is still live.
func (t *RefreshToken) Expired() bool {
	return t.ExpiresAt.Before(time.Now())
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldRoles        = "roles"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)
