// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package auth

import (
	"context"

	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account and its role set.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate username/email)
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given numeric ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity with roles loaded
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity with roles loaded
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity with roles loaded
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Search returns accounts whose username contains the given fragment.

		Parameters:
		  - context: context.Context
		  - usernameFragment: string
		  - params: pagination.Params

		Returns:
		  - []User: Matching page of accounts
		  - int: Total match count across all pages
		  - error: Database retrieval failures
	*/
	Search(context context.Context, usernameFragment string, params pagination.Params) ([]User, int, error)
}

// # Refresh Token Data Access

// RefreshTokenStore defines the contract for the volatile refresh token registry.
//
// # Invariant
//
// The store enforces at-most-one-live-token-per-account: [RefreshTokenStore.Issue]
// atomically replaces whatever token the owner held before.
type RefreshTokenStore interface {

	/*
		Issue stores a fresh token, destroying the owner's previous one in
		the same atomic step.

		Parameters:
		  - context: context.Context
		  - token: *RefreshToken

		Returns:
		  - error: Persistence failures
	*/
	Issue(context context.Context, token *RefreshToken) error

	/*
		Find resolves a presented token value back into its stored entity.

		Parameters:
		  - context: context.Context
		  - value: string

		Returns:
		  - *RefreshToken: Stored token with owner and expiry
		  - error: apperr.NotFound if absent, or connectivity errors
	*/
	Find(context context.Context, value string) (*RefreshToken, error)

	/*
		Revoke removes a token and its owner index entry.

		Parameters:
		  - context: context.Context
		  - token: *RefreshToken

		Returns:
		  - error: Deletion failures
	*/
	Revoke(context context.Context, token *RefreshToken) error
}
