// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/constants"
	"github.com/acadia-lms/acadia/internal/platform/ctxutil"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// Identity resolves the trusted identity header into a caller [authz.Principal].
//
// # Trust Model
//
// The API server only ever receives traffic from the edge proxy, which has
// already verified the bearer token and replaced any client-supplied
// identity header with the verified username. Identity therefore treats the
// header value as authentic and re-resolves the full account through the
// user directory so that role changes and deletions take effect immediately.
//
// # Flow
//  1. Read the identity header; missing header aborts with HTTP 401.
//  2. Resolve the username through the [authz.Resolver] under a bounded
//     deadline. Any failure aborts with HTTP 401 (fail closed).
//  3. Inject the [*authz.Principal] into the request context.
func Identity(resolver authz.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			username := request.Header.Get(constants.HeaderIdentity)

			principal, err := authz.Resolve(request.Context(), resolver, username, constants.ResolveTimeout)
			if err != nil {
				logger := ctxutil.GetLogger(request.Context())
				logger.WarnContext(request.Context(), "identity_resolution_failed",
					slog.String("username", username),
				)
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAnyRole blocks requests unless the resolved principal holds at
// least one of the given roles.
//
// # Usage
//
// Must be registered in the router AFTER [Identity].
func RequireAnyRole(roles ...sec.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			if err := authz.RequireAnyRole(principal, roles...); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
