// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package authz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// ownedResource is a minimal resource carrying an owner for guard tests.
type ownedResource struct {
	ownerID int64
}

func (r ownedResource) OwnerID() int64 { return r.ownerID }

/*
TestPrincipal_HasAnyRole verifies OR-semantics over the caller's role set.
*/
func TestPrincipal_HasAnyRole(t *testing.T) {
	principal := &authz.Principal{
		ID:       7,
		Username: "ada",
		Roles:    []sec.RoleName{sec.RoleTeacher, sec.RoleStudent},
	}

	// 1. Any single held role matches
	assert.True(t, principal.HasAnyRole(sec.RoleTeacher))
	assert.True(t, principal.HasAnyRole(sec.RoleStudent))

	// 2. A mixed requirement passes if at least one role is held
	assert.True(t, principal.HasAnyRole(sec.RoleAdmin, sec.RoleTeacher))

	// 3. No overlap fails, and so does an empty requirement
	assert.False(t, principal.HasAnyRole(sec.RoleAdmin))
	assert.False(t, principal.HasAnyRole())
}

/*
TestCanModify covers the full admin-or-owning-teacher decision table.
*/
func TestCanModify(t *testing.T) {
	admin := &authz.Principal{ID: 1, Username: "root", Roles: []sec.RoleName{sec.RoleAdmin}}
	owner := &authz.Principal{ID: 2, Username: "owner", Roles: []sec.RoleName{sec.RoleTeacher}}
	other := &authz.Principal{ID: 3, Username: "other", Roles: []sec.RoleName{sec.RoleTeacher}}
	demoted := &authz.Principal{ID: 2, Username: "demoted", Roles: []sec.RoleName{sec.RoleStudent}}

	resource := ownedResource{ownerID: 2}

	testCases := []struct {
		name      string
		principal *authz.Principal
		allowed   bool
	}{
		{"admin may modify any resource", admin, true},
		{"owning teacher may modify own resource", owner, true},
		{"non-owner without admin is denied", other, false},
		{"owner without the teacher role is denied", demoted, false},
		{"nil principal is denied", nil, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.allowed, authz.CanModify(testCase.principal, resource))
		})
	}
}

/*
TestCanModify_AdminWithoutOwnership verifies the admin override does not
depend on the owner comparison at all.
*/
func TestCanModify_AdminWithoutOwnership(t *testing.T) {
	adminAndTeacher := &authz.Principal{
		ID:    42,
		Roles: []sec.RoleName{sec.RoleTeacher, sec.RoleAdmin},
	}
	assert.True(t, authz.CanModify(adminAndTeacher, ownedResource{ownerID: 99}))
}

/*
TestRequireCanModify verifies the error mapping of the guard helper.
*/
func TestRequireCanModify(t *testing.T) {
	owner := &authz.Principal{ID: 2, Roles: []sec.RoleName{sec.RoleTeacher}}
	stranger := &authz.Principal{ID: 5, Roles: []sec.RoleName{sec.RoleTeacher}}
	demoted := &authz.Principal{ID: 2, Roles: []sec.RoleName{sec.RoleStudent}}
	resource := ownedResource{ownerID: 2}

	// 1. Owning teacher passes
	assert.NoError(t, authz.RequireCanModify(owner, resource))

	// 2. Stranger gets FORBIDDEN
	err := authz.RequireCanModify(stranger, resource)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 3. Ownership does not survive losing the teacher role
	err = authz.RequireCanModify(demoted, resource)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 4. Missing principal gets UNAUTHORIZED, not FORBIDDEN
	err = authz.RequireCanModify(nil, resource)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

/*
TestRequireAnyRole verifies role gating used before resource creation.
*/
func TestRequireAnyRole(t *testing.T) {
	teacher := &authz.Principal{ID: 1, Roles: []sec.RoleName{sec.RoleTeacher}}

	assert.NoError(t, authz.RequireAnyRole(teacher, sec.RoleTeacher, sec.RoleAdmin))

	err := authz.RequireAnyRole(teacher, sec.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

/*
TestRequireSelfOrAdmin verifies the scoping rule for filtered lists.
*/
func TestRequireSelfOrAdmin(t *testing.T) {
	student := &authz.Principal{ID: 7, Roles: []sec.RoleName{sec.RoleStudent}}
	admin := &authz.Principal{ID: 1, Roles: []sec.RoleName{sec.RoleAdmin}}

	// 1. Acting on your own account passes
	assert.NoError(t, authz.RequireSelfOrAdmin(student, 7))

	// 2. Admins act on anyone
	assert.NoError(t, authz.RequireSelfOrAdmin(admin, 7))

	// 3. Anyone else gets FORBIDDEN
	err := authz.RequireSelfOrAdmin(student, 8)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 4. Missing principal gets UNAUTHORIZED
	err = authz.RequireSelfOrAdmin(nil, 7)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

// stubResolver implements authz.Resolver for deadline and failure tests.
type stubResolver struct {
	principal *authz.Principal
	err       error
	delay     time.Duration
}

func (s *stubResolver) ResolveByUsername(ctx context.Context, username string) (*authz.Principal, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

/*
TestResolve_Success verifies a healthy directory lookup returns the principal.
*/
func TestResolve_Success(t *testing.T) {
	resolver := &stubResolver{
		principal: &authz.Principal{ID: 9, Username: "ada", Roles: []sec.RoleName{sec.RoleTeacher}},
	}

	principal, err := authz.Resolve(context.Background(), resolver, "ada", time.Second)

	require.NoError(t, err)
	assert.Equal(t, int64(9), principal.ID)
	assert.Equal(t, "ada", principal.Username)
}

/*
TestResolve_FailsClosed verifies every failure mode maps to 401.
*/
func TestResolve_FailsClosed(t *testing.T) {
	testCases := []struct {
		name     string
		resolver *stubResolver
		username string
	}{
		{"empty username", &stubResolver{}, ""},
		{"unknown identity", &stubResolver{err: apperr.NotFound("User")}, "ghost"},
		{"directory outage", &stubResolver{err: errors.New("connection refused")}, "ada"},
		{"slow directory", &stubResolver{delay: 200 * time.Millisecond}, "ada"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			timeout := time.Second
			if testCase.name == "slow directory" {
				timeout = 20 * time.Millisecond
			}

			principal, err := authz.Resolve(context.Background(), testCase.resolver, testCase.username, timeout)

			assert.Nil(t, principal)
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
		})
	}
}
