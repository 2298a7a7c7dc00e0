// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package submission

import (
	"context"

	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Repository defines the data access contract for submissions.
type Repository interface {

	/*
		Create persists a new submission.

		Parameters:
		  - context: context.Context
		  - submission: *Submission (ID is filled in from the generated key)

		Returns:
		  - error: apperr.Conflict if the student already handed in work for
		    the task, or persistence failures
	*/
	Create(context context.Context, submission *Submission) error

	/*
		FindByID returns the submission with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Submission: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Submission, error)

	/*
		ListByTask returns a page of submissions against one task.

		Parameters:
		  - context: context.Context
		  - taskID: int64
		  - params: pagination.Params

		Returns:
		  - []Submission: Page of submissions
		  - int: Total count
		  - error: Retrieval failures
	*/
	ListByTask(context context.Context, taskID int64, params pagination.Params) ([]Submission, int, error)

	/*
		ListByStudent returns a page of one student's submissions.

		Parameters:
		  - context: context.Context
		  - studentID: int64
		  - params: pagination.Params

		Returns:
		  - []Submission: Page of submissions
		  - int: Total count
		  - error: Retrieval failures
	*/
	ListByStudent(context context.Context, studentID int64, params pagination.Params) ([]Submission, int, error)

	/*
		Update persists changes to content and review status.

		Parameters:
		  - context: context.Context
		  - submission: *Submission

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, submission *Submission) error

	/*
		Delete removes the submission.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id int64) error
}
