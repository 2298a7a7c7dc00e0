// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package course_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadia-lms/acadia/internal/course"
	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # Test Doubles

// memoryRepository is an in-memory Repository enforcing code uniqueness.
type memoryRepository struct {
	courses map[int64]*course.Course
	nextID  int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{courses: make(map[int64]*course.Course), nextID: 1}
}

func (r *memoryRepository) codeTaken(code string, exceptID int64) bool {
	for _, c := range r.courses {
		if c.Code == code && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(ctx context.Context, c *course.Course) error {
	if r.codeTaken(c.Code, 0) {
		return apperr.Conflict("Course already exists")
	}
	c.ID = r.nextID
	r.nextID++
	clone := *c
	r.courses[c.ID] = &clone
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (*course.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperr.NotFound("Course")
	}
	clone := *c
	return &clone, nil
}

func (r *memoryRepository) FindByCode(ctx context.Context, code string) (*course.Course, error) {
	for _, c := range r.courses {
		if c.Code == code {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Course")
}

func (r *memoryRepository) List(ctx context.Context, params pagination.Params) ([]course.Course, int, error) {
	courses := make([]course.Course, 0, len(r.courses))
	for _, c := range r.courses {
		courses = append(courses, *c)
	}
	return courses, len(courses), nil
}

func (r *memoryRepository) ListByAuthor(ctx context.Context, authorID int64, params pagination.Params) ([]course.Course, int, error) {
	courses := make([]course.Course, 0)
	for _, c := range r.courses {
		if c.CreatedBy == authorID {
			courses = append(courses, *c)
		}
	}
	return courses, len(courses), nil
}

func (r *memoryRepository) Update(ctx context.Context, c *course.Course) error {
	if r.codeTaken(c.Code, c.ID) {
		return apperr.Conflict("Course already exists")
	}
	stored, ok := r.courses[c.ID]
	if !ok {
		return apperr.NotFound("Course")
	}
	*stored = *c
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	delete(r.courses, id)
	return nil
}

func newTestService(t *testing.T) (*course.Service, *memoryRepository) {
	t.Helper()
	repository := newMemoryRepository()
	return course.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

func teacherPrincipal(id int64) *authz.Principal {
	return &authz.Principal{ID: id, Username: "teacher", Roles: []sec.RoleName{sec.RoleTeacher}}
}

func studentPrincipal(id int64) *authz.Principal {
	return &authz.Principal{ID: id, Username: "student", Roles: []sec.RoleName{sec.RoleStudent}}
}

func adminPrincipal(id int64) *authz.Principal {
	return &authz.Principal{ID: id, Username: "admin", Roles: []sec.RoleName{sec.RoleAdmin}}
}

// # Lifecycle

/*
TestService_Create verifies role gating, ownership, and code derivation.
*/
func TestService_Create(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, teacherPrincipal(10), course.CreateInput{Name: "Intro to Algorithms"})
	require.NoError(t, err)
	assert.Equal(t, "intro-to-algorithms", created.Code)
	assert.Equal(t, int64(10), created.CreatedBy)

	// Students cannot publish courses.
	_, err = service.Create(ctx, studentPrincipal(20), course.CreateInput{Name: "Nope"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

/*
TestService_Create_DuplicateCode verifies a second course with the same name
conflicts on its join code.
*/
func TestService_Create_DuplicateCode(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, teacherPrincipal(10), course.CreateInput{Name: "Linear Algebra"})
	require.NoError(t, err)

	_, err = service.Create(ctx, teacherPrincipal(11), course.CreateInput{Name: "Linear Algebra"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

/*
TestService_GetByCode verifies join-code lookup.
*/
func TestService_GetByCode(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, teacherPrincipal(10), course.CreateInput{Name: "Graph Theory"})
	require.NoError(t, err)

	found, err := service.GetByCode(ctx, "graph-theory")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.GetByCode(ctx, "no-such-code")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestService_Lists verifies the admin-only catalog view and the
admin-or-self rule on the by-author list.
*/
func TestService_Lists(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	page := pagination.Params{Page: 1, Limit: 10}

	_, err := service.Create(ctx, teacherPrincipal(10), course.CreateInput{Name: "Graph Theory"})
	require.NoError(t, err)
	_, err = service.Create(ctx, teacherPrincipal(11), course.CreateInput{Name: "Number Theory"})
	require.NoError(t, err)

	// 1. The unscoped catalog is admin-only.
	courses, total, err := service.List(ctx, adminPrincipal(1), page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, courses, 2)

	_, _, err = service.List(ctx, teacherPrincipal(10), page)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 2. Authors see their own courses; strangers are refused.
	courses, total, err = service.ListByAuthor(ctx, teacherPrincipal(10), 10, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, int64(10), courses[0].CreatedBy)

	_, _, err = service.ListByAuthor(ctx, teacherPrincipal(11), 10, page)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	_, total, err = service.ListByAuthor(ctx, adminPrincipal(1), 10, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

/*
TestService_Update verifies the ownership rule and code regeneration on rename.
*/
func TestService_Update(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, teacherPrincipal(10), course.CreateInput{Name: "Graph Theory"})
	require.NoError(t, err)

	// 1. A different teacher is forbidden.
	_, err = service.Update(ctx, teacherPrincipal(11), created.ID, course.UpdateInput{Name: "Hijacked"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 2. Renaming regenerates the join code.
	updated, err := service.Update(ctx, teacherPrincipal(10), created.ID, course.UpdateInput{Name: "Advanced Graph Theory"})
	require.NoError(t, err)
	assert.Equal(t, "advanced-graph-theory", updated.Code)

	// 3. The old code no longer resolves.
	_, err = service.GetByCode(ctx, "graph-theory")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestService_Delete verifies only the owner or an admin can delete.
*/
func TestService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, teacherPrincipal(10), course.CreateInput{Name: "Doomed"})
	require.NoError(t, err)

	err = service.Delete(ctx, studentPrincipal(20), created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	require.NoError(t, service.Delete(ctx, teacherPrincipal(10), created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
