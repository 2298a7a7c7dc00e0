// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # Contracts & Types

// TokenProvider defines the contract for minting signed access tokens.
type TokenProvider interface {
	// Issue creates a signed JWT string for the given subject and role set.
	//
	// # Parameters
	//   - subject: The username of the account.
	//   - roles: The role set granted to the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	Issue(subject string, roles []sec.RoleName, timeToLive time.Duration) (string, error)
}

// Service implements user identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token lifecycle logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	refreshTokenStore RefreshTokenStore
	tokenProvider     TokenProvider
	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
//
// Zero TTLs fall back to the package defaults.
func NewService(
	userRepo UserRepository,
	tokenStore RefreshTokenStore,
	tokenProv TokenProvider,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *Service {
	if accessTokenTTL <= 0 {
		accessTokenTTL = DefaultAccessTokenTTL
	}
	if refreshTokenTTL <= 0 {
		refreshTokenTTL = DefaultRefreshTokenTTL
	}

	return &Service{
		userRepository:    userRepo,
		refreshTokenStore: tokenStore,
		tokenProvider:     tokenProv,
		accessTokenTTL:    accessTokenTTL,
		refreshTokenTTL:   refreshTokenTTL,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Roles     []string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member with an explicit role set, handling
password hashing and uniqueness checks.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists), validation or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Role names come straight off the wire; parse them into the closed set.
	roles, ok := sec.ParseRoles(input.Roles)
	if !ok || len(roles) == 0 {
		return nil, apperr.ValidationError("Unknown role name", apperr.FieldError{
			Field:   FieldRoles,
			Message: "Roles must be a non-empty subset of ADMIN, TEACHER, STUDENT",
		})
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity.
	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Roles:        roles,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// TokenPair represents a successfully established credential set.
type TokenPair struct {
	AccessToken           string
	AccessTokenTTL        time.Duration
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity with constant-time password comparison, mints
a short-lived access token, and registers a new refresh token — atomically
replacing any refresh token the account held before.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *TokenPair: Transport-ready credentials
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*TokenPair, error) {
	user, err := service.userRepository.FindByUsername(context, input.Username)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueTokenPair(context, user)
}

/*
Logout revokes the account's live refresh token.

Description: Idempotent — an already-revoked or unknown token still counts
as a successful logout.

Parameters:
  - context: context.Context
  - refreshValue: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshValue string) error {
	token, err := service.refreshTokenStore.Find(context, refreshValue)
	if err != nil {
		return nil
	}

	if err := service.refreshTokenStore.Revoke(context, token); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Token Refresh

/*
Refresh exchanges a live refresh token for a brand new token pair.

Description: Implements refresh token rotation. The presented token is
resolved, its expiry enforced, and then it is destroyed and replaced — the
old value can never be replayed. An expired token is deleted on sight and
reported as TOKEN_EXPIRED so clients know to re-login rather than retry.

Parameters:
  - context: context.Context
  - refreshValue: string

Returns:
  - *TokenPair: Rotated credentials
  - err: NotFound (unknown token), TokenExpired, or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshValue string) (*TokenPair, error) {
	token, err := service.refreshTokenStore.Find(context, refreshValue)
	if err != nil {
		return nil, err
	}

	// Expiry enforcement happens here, not in the store: the store answers
	// "does this token exist", the service answers "is it still honored".
	if token.Expired() {
		_ = service.refreshTokenStore.Revoke(context, token)
		return nil, apperr.TokenExpired("Refresh token has expired. Please sign in again.")
	}

	user, err := service.userRepository.FindByID(context, token.OwnerID)
	if err != nil {
		// The account vanished while the token lived; kill the orphan.
		_ = service.refreshTokenStore.Revoke(context, token)
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	// Rotation: issuing overwrites the owner index and destroys the old value.
	return service.issueTokenPair(context, user)
}

// issueTokenPair mints an access token and registers a rotated refresh token.
func (service *Service) issueTokenPair(context context.Context, user *User) (*TokenPair, error) {
	accessToken, err := service.tokenProvider.Issue(user.Username, user.Roles, service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken := &RefreshToken{
		Value:     uuid.NewString(),
		OwnerID:   user.ID,
		ExpiresAt: time.Now().Add(service.refreshTokenTTL),
	}

	if err := service.refreshTokenStore.Issue(context, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_issue_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:           accessToken,
		AccessTokenTTL:        service.accessTokenTTL,
		RefreshToken:          refreshToken.Value,
		RefreshTokenExpiresAt: refreshToken.ExpiresAt,
		User:                  user,
	}, nil
}

// # Directory Lookups

/*
Profile returns the account identified by the given username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated entity
  - err: apperr.NotFound or storage failures
*/
func (service *Service) Profile(context context.Context, username string) (*User, error) {
	return service.userRepository.FindByUsername(context, username)
}

/*
FindByID returns the account with the given numeric ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated entity
  - err: apperr.NotFound or storage failures
*/
func (service *Service) FindByID(context context.Context, id int64) (*User, error) {
	return service.userRepository.FindByID(context, id)
}

/*
Search returns accounts whose username contains the given fragment.

Parameters:
  - context: context.Context
  - usernameFragment: string
  - params: pagination.Params

Returns:
  - []User: Matching page
  - int: Total match count
  - err: Storage failures
*/
func (service *Service) Search(context context.Context, usernameFragment string, params pagination.Params) ([]User, int, error) {
	return service.userRepository.Search(context, usernameFragment, params)
}

// # Identity Resolution

/*
ResolveByUsername implements [authz.Resolver] against the user directory.

Description: Turns the trusted identity header into a full caller principal.
Because this runs on every authenticated request, role revocations and
account deletions take effect immediately instead of at token expiry.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *authz.Principal: Resolved caller identity
  - err: apperr.NotFound or storage failures
*/
func (service *Service) ResolveByUsername(context context.Context, username string) (*authz.Principal, error) {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	return &authz.Principal{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	}, nil
}

// compile-time interface check
var _ authz.Resolver = (*Service)(nil)
