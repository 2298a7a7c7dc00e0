// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Service implements task use cases with ownership enforcement.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Lifecycle

// CreateInput holds the data required to publish a new task.
type CreateInput struct {
	Title       string
	Description string
	CourseID    int64
	Deadline    time.Time
}

/*
Create publishes a new task under a course, owned by the calling teacher.

Description: New tasks always start OPEN; the status lifecycle is driven
exclusively through [Service.UpdateStatus].

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - input: CreateInput

Returns:
  - *Task: Created entity
  - error: Unauthorized, Forbidden, NotFound (unknown course), or persistence failures
*/
func (service *Service) Create(context context.Context, principal *authz.Principal, input CreateInput) (*Task, error) {
	if err := authz.RequireAnyRole(principal, sec.RoleTeacher, sec.RoleAdmin); err != nil {
		return nil, err
	}

	task := &Task{
		Title:       input.Title,
		Description: input.Description,
		TeacherID:   principal.ID,
		CourseID:    input.CourseID,
		Status:      StatusOpen,
		Deadline:    input.Deadline,
	}

	if err := service.repository.Create(context, task); err != nil {
		return nil, err
	}

	service.logger.Info("task_created",
		slog.Int64("task_id", task.ID),
		slog.Int64("course_id", task.CourseID),
		slog.Int64("teacher_id", task.TeacherID),
	)

	return task, nil
}

/*
Get returns the task with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Task: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id int64) (*Task, error) {
	return service.repository.FindByID(context, id)
}

/*
ListByCourse returns a page of tasks under one course, optionally narrowed
to a single lifecycle status.

Parameters:
  - context: context.Context
  - courseID: int64
  - status: *Status (nil lists every status)
  - params: pagination.Params

Returns:
  - []Task: Page of tasks
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListByCourse(context context.Context, courseID int64, status *Status, params pagination.Params) ([]Task, int, error) {
	return service.repository.ListByCourse(context, courseID, status, params)
}

/*
ListByTeacher returns a page of tasks published by one teacher, visible to
that teacher and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - teacherID: int64
  - params: pagination.Params

Returns:
  - []Task: Page of tasks
  - int: Total count
  - error: Forbidden or retrieval failures
*/
func (service *Service) ListByTeacher(context context.Context, principal *authz.Principal, teacherID int64, params pagination.Params) ([]Task, int, error) {
	if err := authz.RequireSelfOrAdmin(principal, teacherID); err != nil {
		return nil, 0, err
	}

	return service.repository.ListByTeacher(context, teacherID, params)
}

// UpdateInput holds the mutable task fields.
type UpdateInput struct {
	Title       string
	Description string
	Deadline    time.Time
}

/*
Update edits a task's title, description, and deadline.

Description: Loads the task first so unknown IDs report NotFound before any
permission check, then enforces the ownership rule.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64
  - input: UpdateInput

Returns:
  - *Task: Updated entity
  - error: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Update(context context.Context, principal *authz.Principal, id int64, input UpdateInput) (*Task, error) {
	task, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, task); err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Deadline = input.Deadline

	if err := service.repository.Update(context, task); err != nil {
		return nil, err
	}

	service.logger.Info("task_updated", slog.Int64("task_id", task.ID))

	return task, nil
}

/*
UpdateStatus moves a task through its lifecycle.

Description: Transitions only move forward: OPEN to CLOSED or DONE, CLOSED
to DONE. Reopening is rejected so students can rely on a closed task
staying closed.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64
  - status: Status

Returns:
  - *Task: Updated entity
  - error: NotFound, Forbidden, Conflict (backward transition), or persistence failures
*/
func (service *Service) UpdateStatus(context context.Context, principal *authz.Principal, id int64, status Status) (*Task, error) {
	task, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, task); err != nil {
		return nil, err
	}

	if !validTransition(task.Status, status) {
		return nil, apperr.Conflict("Task status can only move forward")
	}

	task.Status = status

	if err := service.repository.Update(context, task); err != nil {
		return nil, err
	}

	service.logger.Info("task_status_changed",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(status)),
	)

	return task, nil
}

/*
Delete removes a task.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64

Returns:
  - error: NotFound, Forbidden, or deletion failures
*/
func (service *Service) Delete(context context.Context, principal *authz.Principal, id int64) error {
	task, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := authz.RequireCanModify(principal, task); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("task_deleted", slog.Int64("task_id", id))

	return nil
}

// validTransition encodes the forward-only status lifecycle.
func validTransition(from, to Status) bool {
	switch from {
	case StatusOpen:
		return to == StatusClosed || to == StatusDone
	case StatusClosed:
		return to == StatusDone
	default:
		return false
	}
}
