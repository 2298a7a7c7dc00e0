// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/middleware"
	requestutil "github.com/acadia-lms/acadia/internal/platform/request"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/validate"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the user-facing HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login,
// Refresh) plus the directory lookups other services and clients rely on.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with user-specific routes.
//
// # Endpoints
//
// Public (allow-listed at the edge):
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a token pair.
//   - POST /refresh  : Rotates a refresh token into a new pair.
//
// Protected (identity header required):
//   - GET /profile            : Returns the caller's own account.
//   - GET /{id}               : Returns an account by numeric ID.
//   - GET /search/{username}  : Searches accounts by username fragment.
func (handler *Handler) Routes(resolver authz.Resolver) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.Identity(resolver))
		r.Get("/profile", handler.profile)
		r.Get("/{id}", handler.findByID)
		r.Get("/search/{username}", handler.search)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
Register handles the creation of a new user account.

POST /api/user/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile with its role set.

Request:
  - Body: registerRequest (Username, Email, Password, FirstName, LastName, Roles)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Roles(FieldRoles, input.Roles)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Roles:     input.Roles,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and issues a token pair.

POST /api/user/login

Description: Verifies credentials, mints a JWT access token and registers a
rotated refresh token for the account.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: TokenPair: Access token, refresh token and user profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenPairPayload(pair))
}

/*
Refresh exchanges a live refresh token for a new token pair.

POST /api/user/refresh

Description: Rotates the refresh token — the presented value is destroyed
and a brand new pair is returned. Expired tokens are rejected with
TOKEN_EXPIRED; unknown ones with NOT_FOUND.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: TokenPair: Rotated credentials
  - 401: ErrTokenExpired: Refresh token past its validity window
  - 404: ErrNotFound: Unknown or already-rotated token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "This field is required"))
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenPairPayload(pair))
}

/*
Logout revokes the presented refresh token.

POST /api/user/logout

Description: Idempotent revocation — unknown tokens still return success.

Response:
  - 204: No Content: Token revoked (or already gone)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Profile returns the authenticated caller's own account.

GET /api/user/profile

Response:
  - 200: User: The caller's profile
  - 401: ErrUnauthorized: Missing or unresolvable identity
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), principal.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
FindByID returns an account by its numeric identifier.

GET /api/user/{id}

Response:
  - 200: User: The requested account
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) findByID(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.FindByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Search returns a page of accounts matching a username fragment.

GET /api/user/search/{username}

Response:
  - 200: []User + pagination meta
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	fragment := requestutil.Param(request, "username")
	params := pagination.FromRequest(request)

	users, total, err := handler.authService.Search(request.Context(), fragment, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// tokenPairPayload shapes a [TokenPair] for the wire.
func tokenPairPayload(pair *TokenPair) map[string]any {
	return map[string]any{
		FieldAccessToken:  pair.AccessToken,
		FieldRefreshToken: pair.RefreshToken,
		FieldTokenType:    "Bearer",
		FieldExpiresIn:    int64(pair.AccessTokenTTL / time.Second),
		FieldUser:         pair.User,
	}
}
