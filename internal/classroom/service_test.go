// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package classroom_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadia-lms/acadia/internal/classroom"
	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/internal/users/auth"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # Test Doubles

// memoryRepository is an in-memory Repository for service tests.
type memoryRepository struct {
	rooms  map[int64]*classroom.Classroom
	nextID int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rooms: make(map[int64]*classroom.Classroom), nextID: 1}
}

func (r *memoryRepository) Create(ctx context.Context, room *classroom.Classroom) error {
	room.ID = r.nextID
	r.nextID++
	clone := *room
	r.rooms[room.ID] = &clone
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (*classroom.Classroom, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, apperr.NotFound("Classroom")
	}
	clone := *room
	clone.StudentIDs = append([]int64{}, room.StudentIDs...)
	clone.CourseIDs = append([]int64{}, room.CourseIDs...)
	return &clone, nil
}

func (r *memoryRepository) List(ctx context.Context, params pagination.Params) ([]classroom.Classroom, int, error) {
	rooms := make([]classroom.Classroom, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, *room)
	}
	return rooms, len(rooms), nil
}

func (r *memoryRepository) ListByTeacher(ctx context.Context, teacherID int64, params pagination.Params) ([]classroom.Classroom, int, error) {
	rooms := make([]classroom.Classroom, 0)
	for _, room := range r.rooms {
		if room.TeacherID == teacherID {
			rooms = append(rooms, *room)
		}
	}
	return rooms, len(rooms), nil
}

func (r *memoryRepository) ListByStudent(ctx context.Context, studentID int64, params pagination.Params) ([]classroom.Classroom, int, error) {
	rooms := make([]classroom.Classroom, 0)
	for _, room := range r.rooms {
		if room.HasStudent(studentID) {
			rooms = append(rooms, *room)
		}
	}
	return rooms, len(rooms), nil
}

func (r *memoryRepository) Update(ctx context.Context, room *classroom.Classroom) error {
	stored, ok := r.rooms[room.ID]
	if !ok {
		return apperr.NotFound("Classroom")
	}
	stored.Name = room.Name
	stored.Description = room.Description
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	delete(r.rooms, id)
	return nil
}

func (r *memoryRepository) AddStudent(ctx context.Context, classroomID, studentID int64) error {
	room := r.rooms[classroomID]
	room.StudentIDs = append(room.StudentIDs, studentID)
	return nil
}

func (r *memoryRepository) RemoveStudent(ctx context.Context, classroomID, studentID int64) error {
	room := r.rooms[classroomID]
	kept := room.StudentIDs[:0]
	for _, id := range room.StudentIDs {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	room.StudentIDs = kept
	return nil
}

func (r *memoryRepository) AddCourse(ctx context.Context, classroomID, courseID int64) error {
	room := r.rooms[classroomID]
	room.CourseIDs = append(room.CourseIDs, courseID)
	return nil
}

func (r *memoryRepository) RemoveCourse(ctx context.Context, classroomID, courseID int64) error {
	room := r.rooms[classroomID]
	kept := room.CourseIDs[:0]
	for _, id := range room.CourseIDs {
		if id != courseID {
			kept = append(kept, id)
		}
	}
	room.CourseIDs = kept
	return nil
}

// memoryDirectory is a fixed account directory for enrollment tests.
// IDs below 100 resolve to students, IDs from 100 to teachers, and
// anything above 999 is unknown.
type memoryDirectory struct{}

func (memoryDirectory) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if id > 999 {
		return nil, apperr.NotFound("User")
	}
	role := sec.RoleStudent
	if id >= 100 {
		role = sec.RoleTeacher
	}
	return &auth.User{ID: id, Roles: []sec.RoleName{role}}, nil
}

func newTestService(t *testing.T) (*classroom.Service, *memoryRepository) {
	t.Helper()
	repository := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return classroom.NewService(repository, memoryDirectory{}, logger), repository
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
TestService_Create verifies creation is limited to teachers and admins and
that ownership lands on the caller.
*/
func TestService_Create(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	room, err := service.Create(ctx, teacherPrincipal(10), classroom.CreateInput{Name: "Algebra"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), room.TeacherID)
	assert.NotZero(t, room.ID)

	// Students may not open classrooms.
	_, err = service.Create(ctx, studentPrincipal(20), classroom.CreateInput{Name: "Nope"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// A missing principal is an authentication failure, not an authorization one.
	_, err = service.Create(ctx, nil, classroom.CreateInput{Name: "Nope"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

/*
TestService_Update verifies the ownership rule and the NotFound-first ordering.
*/
func TestService_Update(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	room, err := service.Create(ctx, teacherPrincipal(10), classroom.CreateInput{Name: "Algebra"})
	require.NoError(t, err)

	// 1. The owner may rename.
	updated, err := service.Update(ctx, teacherPrincipal(10), room.ID, classroom.UpdateInput{Name: "Algebra II"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", updated.Name)

	// 2. A different teacher is forbidden.
	_, err = service.Update(ctx, teacherPrincipal(11), room.ID, classroom.UpdateInput{Name: "Hijacked"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 3. An admin overrides ownership.
	updated, err = service.Update(ctx, adminPrincipal(99), room.ID, classroom.UpdateInput{Name: "Renamed by admin"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed by admin", updated.Name)

	// 4. Unknown IDs report NotFound even for callers with no rights at all.
	_, err = service.Update(ctx, studentPrincipal(20), 404, classroom.UpdateInput{Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestService_Delete verifies only the owner or an admin can delete.
*/
func TestService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	room, err := service.Create(ctx, teacherPrincipal(10), classroom.CreateInput{Name: "Doomed"})
	require.NoError(t, err)

	err = service.Delete(ctx, teacherPrincipal(11), room.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	require.NoError(t, service.Delete(ctx, teacherPrincipal(10), room.ID))

	_, err = service.Get(ctx, room.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

// # Roster

/*
TestService_AddStudent verifies enrollment, the duplicate conflict, and the
ownership guard.
*/
func TestService_AddStudent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	owner := teacherPrincipal(10)

	room, err := service.Create(ctx, owner, classroom.CreateInput{Name: "Algebra"})
	require.NoError(t, err)

	updated, err := service.AddStudent(ctx, owner, room.ID, 42)
	require.NoError(t, err)
	assert.Contains(t, updated.StudentIDs, int64(42))

	// Enrolling the same student twice conflicts.
	_, err = service.AddStudent(ctx, owner, room.ID, 42)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// A non-owner teacher cannot touch the roster.
	_, err = service.AddStudent(ctx, teacherPrincipal(11), room.ID, 43)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// An unknown account cannot be enrolled.
	_, err = service.AddStudent(ctx, owner, room.ID, 5000)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	// A teacher account cannot be placed on a roster.
	_, err = service.AddStudent(ctx, owner, room.ID, 100)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestService_RemoveStudent verifies removal and the NotFound for an
absent roster entry.
*/
func TestService_RemoveStudent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	owner := teacherPrincipal(10)

	room, err := service.Create(ctx, owner, classroom.CreateInput{Name: "Algebra"})
	require.NoError(t, err)
	_, err = service.AddStudent(ctx, owner, room.ID, 42)
	require.NoError(t, err)

	updated, err := service.RemoveStudent(ctx, owner, room.ID, 42)
	require.NoError(t, err)
	assert.NotContains(t, updated.StudentIDs, int64(42))

	// Removing a student who is not on the roster reports NotFound.
	_, err = service.RemoveStudent(ctx, owner, room.ID, 42)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

// # Scoped Lists

/*
TestService_ScopedLists verifies the admin-or-self rule on the filtered
list endpoints.
*/
func TestService_ScopedLists(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	owner := teacherPrincipal(10)

	room, err := service.Create(ctx, owner, classroom.CreateInput{Name: "Algebra"})
	require.NoError(t, err)
	_, err = service.AddStudent(ctx, owner, room.ID, 42)
	require.NoError(t, err)

	// 1. A teacher sees their own classrooms; a stranger does not.
	rooms, total, err := service.ListByTeacher(ctx, owner, 10, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, rooms, 1)

	_, _, err = service.ListByTeacher(ctx, teacherPrincipal(11), 10, pagination.Params{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	// 2. A student sees their own enrollments; admins see anyone's.
	rooms, total, err = service.ListByStudent(ctx, studentPrincipal(42), 42, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, rooms, 1)

	_, _, err = service.ListByStudent(ctx, studentPrincipal(43), 42, pagination.Params{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	_, total, err = service.ListByStudent(ctx, adminPrincipal(1), 42, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// 3. The unscoped view is admin-only.
	_, total, err = service.List(ctx, adminPrincipal(1), pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, _, err = service.List(ctx, teacherPrincipal(10), pagination.Params{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

// # Catalog

/*
TestService_AddCourse verifies attachment and the duplicate conflict.
*/
func TestService_AddCourse(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	owner := teacherPrincipal(10)

	room, err := service.Create(ctx, owner, classroom.CreateInput{Name: "Algebra"})
	require.NoError(t, err)

	updated, err := service.AddCourse(ctx, owner, room.ID, 7)
	require.NoError(t, err)
	assert.Contains(t, updated.CourseIDs, int64(7))

	_, err = service.AddCourse(ctx, owner, room.ID, 7)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	updated, err = service.RemoveCourse(ctx, owner, room.ID, 7)
	require.NoError(t, err)
	assert.Empty(t, updated.CourseIDs)
}
