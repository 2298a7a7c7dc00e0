// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package edge implements the authenticating reverse proxy that fronts the
Acadia API.

It is the single place where bearer tokens are verified: requests that pass
the filter are forwarded to the upstream API with the verified username in
the trusted identity header, so internal services never parse JWTs.

Pipeline:

  - Allow-list: login, register and refresh flow through untouched.
  - Verification: every other request must carry a valid bearer token.
  - Injection: the client can never speak for the identity header — the
    filter strips whatever was sent and sets the verified subject.
*/
package edge

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/constants"
	"github.com/acadia-lms/acadia/internal/platform/ctxutil"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens at the edge.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the filter from the concrete
// [sec.Codec], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
}

// allowListedPrefixes are path prefixes that bypass token verification.
//
// Login and register necessarily run without a token; refresh runs with an
// expired access token, so it must not be blocked by the expiry check.
var allowListedPrefixes = []string{
	"/api/user/login",
	"/api/user/register",
	"/api/user/refresh",
	"/health",
}

// AllowListed reports whether the request path bypasses authentication.
func AllowListed(path string) bool {
	for _, prefix := range allowListedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Filter returns the authentication middleware for the edge proxy.
//
// # Flow
//  1. Strip any client-supplied identity header. This happens FIRST, on
//     every path, so an allow-listed request can never smuggle one through.
//  2. Allow-listed paths proceed without a token.
//  3. Extract 'Authorization: Bearer <token>'; absent or malformed
//     headers abort with HTTP 401.
//  4. Verify the token. Any failure aborts with one uniform HTTP 401 body;
//     the response never says whether the token was missing, malformed,
//     expired or forged. The split lives only in the logs: signature
//     failures as security events, expiry at info level.
//  5. Inject the verified subject into the identity header and forward.
func Filter(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Identity Header Hygiene ────────────────────────────────────
			request.Header.Del(constants.HeaderIdentity)

			// ── 2. Allow-list Check ───────────────────────────────────────────
			if AllowListed(request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Bearer Extraction ──────────────────────────────────────────
			authHeader := request.Header.Get(constants.HeaderAuthorization)
			if authHeader == "" {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 4. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(parts[1])
			if err != nil {
				logger := ctxutil.GetLogger(request.Context())
				switch {
				case apperr.IsCode(err, apperr.CodeInvalidToken):
					// A bad signature means someone presented a forged or
					// corrupted credential. Worth an audit trail entry.
					logger.WarnContext(request.Context(), "edge_token_rejected",
						slog.String("reason", "invalid_signature"),
						slog.String("path", request.URL.Path),
					)
				case apperr.IsCode(err, apperr.CodeTokenExpired):
					logger.InfoContext(request.Context(), "edge_token_rejected",
						slog.String("reason", "expired"),
						slog.String("path", request.URL.Path),
					)
				}

				// The response never discloses which check failed; an
				// attacker must not be able to tell a forged token from a
				// merely expired one.
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 5. Identity Injection ─────────────────────────────────────────
			request.Header.Set(constants.HeaderIdentity, claims.Subject)
			next.ServeHTTP(writer, request)
		})
	}
}
