// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package task_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/internal/task"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # Test Doubles

// memoryRepository is an in-memory Repository for service tests.
type memoryRepository struct {
	tasks  map[int64]*task.Task
	nextID int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{tasks: make(map[int64]*task.Task), nextID: 1}
}

func (r *memoryRepository) Create(ctx context.Context, t *task.Task) error {
	t.ID = r.nextID
	r.nextID++
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperr.NotFound("Task")
	}
	clone := *t
	return &clone, nil
}

func (r *memoryRepository) ListByCourse(ctx context.Context, courseID int64, status *task.Status, params pagination.Params) ([]task.Task, int, error) {
	tasks := make([]task.Task, 0)
	for _, t := range r.tasks {
		if t.CourseID != courseID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, len(tasks), nil
}

func (r *memoryRepository) ListByTeacher(ctx context.Context, teacherID int64, params pagination.Params) ([]task.Task, int, error) {
	tasks := make([]task.Task, 0)
	for _, t := range r.tasks {
		if t.TeacherID == teacherID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, len(tasks), nil
}

func (r *memoryRepository) Update(ctx context.Context, t *task.Task) error {
	stored, ok := r.tasks[t.ID]
	if !ok {
		return apperr.NotFound("Task")
	}
	*stored = *t
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	delete(r.tasks, id)
	return nil
}

func newTestService(t *testing.T) (*task.Service, *memoryRepository) {
	t.Helper()
	repository := newMemoryRepository()
	return task.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
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

func createTestTask(t *testing.T, service *task.Service, teacherID int64) *task.Task {
	t.Helper()
	created, err := service.Create(context.Background(), teacherPrincipal(teacherID), task.CreateInput{
		Title:    "Homework 1",
		CourseID: 1,
		Deadline: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return created
}

// # Lifecycle

/*
TestService_Create verifies role gating and the OPEN starting status.
*/
func TestService_Create(t *testing.T) {
	service, _ := newTestService(t)

	created := createTestTask(t, service, 10)
	assert.Equal(t, task.StatusOpen, created.Status)
	assert.Equal(t, int64(10), created.TeacherID)

	_, err := service.Create(context.Background(), studentPrincipal(20), task.CreateInput{
		Title: "Nope", CourseID: 1, Deadline: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

/*
TestService_Update verifies ownership and the NotFound-first ordering.
*/
func TestService_Update(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	created := createTestTask(t, service, 10)

	deadline := time.Now().Add(72 * time.Hour)
	updated, err := service.Update(ctx, teacherPrincipal(10), created.ID, task.UpdateInput{
		Title: "Homework 1 (extended)", Deadline: deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "Homework 1 (extended)", updated.Title)
	assert.WithinDuration(t, deadline, updated.Deadline, time.Second)

	_, err = service.Update(ctx, teacherPrincipal(11), created.ID, task.UpdateInput{Title: "Hijacked"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	_, err = service.Update(ctx, teacherPrincipal(10), 404, task.UpdateInput{Title: "Ghost"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

// # Status Lifecycle

/*
TestService_UpdateStatus verifies forward-only transitions and ownership.
*/
func TestService_UpdateStatus(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	created := createTestTask(t, service, 10)

	// 1. OPEN -> CLOSED is legal.
	updated, err := service.UpdateStatus(ctx, teacherPrincipal(10), created.ID, task.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, task.StatusClosed, updated.Status)

	// 2. CLOSED -> OPEN is a backward transition.
	_, err = service.UpdateStatus(ctx, teacherPrincipal(10), created.ID, task.StatusOpen)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// 3. An admin can finish the lifecycle without owning the task.
	updated, err = service.UpdateStatus(ctx, adminPrincipal(99), created.ID, task.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, updated.Status)

	// 4. DONE is terminal.
	_, err = service.UpdateStatus(ctx, adminPrincipal(99), created.ID, task.StatusClosed)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

// # Lists

/*
TestService_ListByCourse verifies the optional status filter.
*/
func TestService_ListByCourse(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	page := pagination.Params{Page: 1, Limit: 10}

	first := createTestTask(t, service, 10)
	createTestTask(t, service, 10)

	_, err := service.UpdateStatus(ctx, teacherPrincipal(10), first.ID, task.StatusClosed)
	require.NoError(t, err)

	// 1. No filter lists every task under the course.
	tasks, total, err := service.ListByCourse(ctx, 1, nil, page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, tasks, 2)

	// 2. A status filter narrows the page.
	closed := task.StatusClosed
	tasks, total, err = service.ListByCourse(ctx, 1, &closed, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, first.ID, tasks[0].ID)
}

/*
TestService_ListByTeacher verifies the admin-or-self rule.
*/
func TestService_ListByTeacher(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	page := pagination.Params{Page: 1, Limit: 10}

	createTestTask(t, service, 10)

	tasks, total, err := service.ListByTeacher(ctx, teacherPrincipal(10), 10, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, tasks, 1)

	_, _, err = service.ListByTeacher(ctx, teacherPrincipal(11), 10, page)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	_, total, err = service.ListByTeacher(ctx, adminPrincipal(1), 10, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

/*
TestService_Delete verifies only the owner or an admin can delete.
*/
func TestService_Delete(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	created := createTestTask(t, service, 10)

	err := service.Delete(ctx, studentPrincipal(20), created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	require.NoError(t, service.Delete(ctx, teacherPrincipal(10), created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

// # Entity Helpers

/*
TestTask_DeadlinePassed verifies the on-the-dot boundary: landing exactly on
the deadline still counts as on time.
*/
func TestTask_DeadlinePassed(t *testing.T) {
	deadline := time.Now().Add(time.Hour)
	assignment := &task.Task{Deadline: deadline}

	assert.False(t, assignment.DeadlinePassed(deadline))
	assert.False(t, assignment.DeadlinePassed(deadline.Add(-time.Second)))
	assert.True(t, assignment.DeadlinePassed(deadline.Add(time.Second)))
}

/*
TestParseStatus verifies the closed status set.
*/
func TestParseStatus(t *testing.T) {
	for _, name := range []string{"OPEN", "CLOSED", "DONE"} {
		parsed, ok := task.ParseStatus(name)
		assert.True(t, ok)
		assert.Equal(t, task.Status(name), parsed)
	}

	_, ok := task.ParseStatus("open")
	assert.False(t, ok)
	_, ok = task.ParseStatus("ARCHIVED")
	assert.False(t, ok)
}
