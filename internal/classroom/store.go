// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package classroom

import (
	"context"

	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Repository defines the data access contract for classrooms.
type Repository interface {

	/*
		Create persists a new classroom.

		Parameters:
		  - context: context.Context
		  - room: *Classroom (ID is filled in from the generated key)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, room *Classroom) error

	/*
		FindByID returns the classroom with roster and catalog hydrated.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Classroom: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Classroom, error)

	/*
		List returns a page of classrooms, newest first.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []Classroom: Page of classrooms
		  - int: Total count
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]Classroom, int, error)

	/*
		ListByTeacher returns a page of classrooms owned by one teacher.

		Parameters:
		  - context: context.Context
		  - teacherID: int64
		  - params: pagination.Params

		Returns:
		  - []Classroom: Page of classrooms
		  - int: Total count
		  - error: Retrieval failures
	*/
	ListByTeacher(context context.Context, teacherID int64, params pagination.Params) ([]Classroom, int, error)

	/*
		ListByStudent returns a page of classrooms a student is enrolled in.

		Parameters:
		  - context: context.Context
		  - studentID: int64
		  - params: pagination.Params

		Returns:
		  - []Classroom: Page of classrooms
		  - int: Total count
		  - error: Retrieval failures
	*/
	ListByStudent(context context.Context, studentID int64, params pagination.Params) ([]Classroom, int, error)

	/*
		Update persists changes to name and description.

		Parameters:
		  - context: context.Context
		  - room: *Classroom

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, room *Classroom) error

	/*
		Delete removes the classroom and its association rows.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id int64) error

	/*
		AddStudent enrolls a student into the classroom roster.

		Parameters:
		  - context: context.Context
		  - classroomID, studentID: int64

		Returns:
		  - error: apperr.Conflict if already enrolled, or persistence failures
	*/
	AddStudent(context context.Context, classroomID, studentID int64) error

	/*
		RemoveStudent removes a student from the roster.

		Parameters:
		  - context: context.Context
		  - classroomID, studentID: int64

		Returns:
		  - error: Persistence failures
	*/
	RemoveStudent(context context.Context, classroomID, studentID int64) error

	/*
		AddCourse attaches a course to the classroom catalog.

		Parameters:
		  - context: context.Context
		  - classroomID, courseID: int64

		Returns:
		  - error: apperr.Conflict if already attached, or persistence failures
	*/
	AddCourse(context context.Context, classroomID, courseID int64) error

	/*
		RemoveCourse detaches a course from the catalog.

		Parameters:
		  - context: context.Context
		  - classroomID, courseID: int64

		Returns:
		  - error: Persistence failures
	*/
	RemoveCourse(context context.Context, classroomID, courseID int64) error
}
