// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package authz provides the reusable authorization guard for Acadia services.

It defines the caller [Principal], role-membership checks, and the
ownership-or-admin rule shared by every resource service.

Architecture:

  - Principal: The resolved caller identity (numeric ID, username, roles).
  - HasAnyRole: OR-semantics role gate used before creating resources.
  - CanModify: The single mutation rule — admins may touch anything,
    teachers only the resources they own.
  - Resolver: The directory lookup that turns the trusted identity header
    into a Principal, with a bounded deadline that fails closed.

The guard never consults the transport layer: handlers resolve the Principal
once and pass it down, so the same checks work for any caller.
*/
package authz

import (
	"context"
	"time"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// # Caller Identity

// Principal is the resolved identity of the caller for the current request.
//
// It is built from the user directory, not from the token: the edge proxy
// verifies the token and forwards only the username, and each service
// re-resolves the full identity so that role or account changes take effect
// immediately rather than at token expiry.
type Principal struct {
	// ID is the numeric account identifier used for ownership comparisons.
	ID int64
	// Username is the unique login name carried by the identity header.
	Username string
	// Roles holds every role granted to the account.
	Roles []sec.RoleName
}

// HasAnyRole reports whether the principal holds at least one of the
// required roles. An empty requirement list matches nothing.
func (p *Principal) HasAnyRole(required ...sec.RoleName) bool {
	for _, want := range required {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p.HasAnyRole(sec.RoleAdmin)
}

// # Ownership Rule

// Owned is implemented by any resource that records a single owning account.
type Owned interface {
	// OwnerID returns the account ID of the resource owner.
	OwnerID() int64
}

// CanModify reports whether the principal may mutate the given resource.
//
// The rule is deliberately simple and uniform across all resource kinds:
// admins may modify anything, teachers only resources they own. Ownership
// alone is not enough — an account whose TEACHER role was revoked loses
// mutation rights over everything it still owns. Resources owned by their
// acting student (submissions) are guarded at the call site with
// [RequireSelfOrAdmin] instead.
// Callers must establish that the resource EXISTS before asking this
// question — existence and permission are separate concerns.
func CanModify(principal *Principal, resource Owned) bool {
	if principal == nil {
		return false
	}
	if principal.IsAdmin() {
		return true
	}
	return principal.HasAnyRole(sec.RoleTeacher) && resource.OwnerID() == principal.ID
}

// # Guard Helpers

// RequireAnyRole returns a 403 [apperr.AppError] unless the principal holds
// at least one of the required roles.
func RequireAnyRole(principal *Principal, required ...sec.RoleName) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !principal.HasAnyRole(required...) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}

// RequireSelfOrAdmin admits a principal acting on its own account and admins.
//
// Filtered list endpoints use this so a caller can only enumerate resources
// scoped to their own account unless they are an admin.
func RequireSelfOrAdmin(principal *Principal, accountID int64) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if principal.IsAdmin() || principal.ID == accountID {
		return nil
	}
	return apperr.Forbidden("Insufficient permissions")
}

// RequireCanModify returns a 403 [apperr.AppError] unless [CanModify] holds.
func RequireCanModify(principal *Principal, resource Owned) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !CanModify(principal, resource) {
		return apperr.Forbidden("You do not have permission to modify this resource")
	}
	return nil
}

// # Identity Resolution

// Resolver resolves a username from the trusted identity header into a
// full [Principal]. The user service implements it against its directory.
type Resolver interface {
	ResolveByUsername(ctx context.Context, username string) (*Principal, error)
}

// Resolve performs a directory lookup with a bounded deadline.
//
// A slow or unreachable directory must never let a request proceed with a
// guessed identity: every failure mode maps to 401, closing the request.
func Resolve(ctx context.Context, resolver Resolver, username string, timeout time.Duration) (*Principal, error) {
	if username == "" {
		return nil, apperr.Unauthorized("Missing identity")
	}

	boundedCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	principal, err := resolver.ResolveByUsername(boundedCtx, username)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == apperr.CodeNotFound {
			return nil, apperr.Unauthorized("Unknown identity")
		}
		return nil, apperr.Unauthorized("Identity could not be resolved")
	}

	return principal, nil
}
