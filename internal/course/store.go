// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package course

import (
	"context"

	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Repository defines the data access contract for courses.
type Repository interface {

	/*
		Create persists a new course.

		Parameters:
		  - context: context.Context
		  - course: *Course (ID is filled in from the generated key)

		Returns:
		  - error: apperr.Conflict if the code is taken, or persistence failures
	*/
	Create(context context.Context, course *Course) error

	/*
		FindByID returns the course with its task list hydrated.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Course: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Course, error)

	/*
		FindByCode returns the course carrying the given join code.

		Parameters:
		  - context: context.Context
		  - code: string

		Returns:
		  - *Course: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByCode(context context.Context, code string) (*Course, error)

	/*
		List returns a page of courses, newest first.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []Course: Page of courses
		  - int: Total count
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]Course, int, error)

	/*
		ListByAuthor returns a page of courses created by one account.

		Parameters:
		  - context: context.Context
		  - authorID: int64
		  - params: pagination.Params

		Returns:
		  - []Course: Page of courses
		  - int: Total count
		  - error: Retrieval failures
	*/
	ListByAuthor(context context.Context, authorID int64, params pagination.Params) ([]Course, int, error)

	/*
		Update persists changes to name, description, and code.

		Parameters:
		  - context: context.Context
		  - course: *Course

		Returns:
		  - error: apperr.Conflict if the new code is taken, or persistence failures
	*/
	Update(context context.Context, course *Course) error

	/*
		Delete removes the course.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id int64) error
}
