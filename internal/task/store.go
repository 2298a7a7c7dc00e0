// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package task

import (
	"context"

	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Repository defines the data access contract for tasks.
type Repository interface {

	/*
		Create persists a new task.

		Parameters:
		  - context: context.Context
		  - task: *Task (ID is filled in from the generated key)

		Returns:
		  - error: apperr.NotFound if the course does not exist, or persistence failures
	*/
	Create(context context.Context, task *Task) error

	/*
		FindByID returns the task with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Task: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Task, error)

	/*
		ListByCourse returns a page of tasks under one course, newest first.

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
	ListByCourse(context context.Context, courseID int64, status *Status, params pagination.Params) ([]Task, int, error)

	/*
		ListByTeacher returns a page of tasks published by one teacher.

		Parameters:
		  - context: context.Context
		  - teacherID: int64
		  - params: pagination.Params

		Returns:
		  - []Task: Page of tasks
		  - int: Total count
		  - error: Retrieval failures
	*/
	ListByTeacher(context context.Context, teacherID int64, params pagination.Params) ([]Task, int, error)

	/*
		Update persists changes to title, description, deadline, and status.

		Parameters:
		  - context: context.Context
		  - task: *Task

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, task *Task) error

	/*
		Delete removes the task.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id int64) error
}
