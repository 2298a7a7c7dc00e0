// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package classroom

import (
	"context"
	"log/slog"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/internal/users/auth"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// MemberDirectory resolves account IDs when building the roster.
// [auth.Service] satisfies this contract.
type MemberDirectory interface {
	FindByID(context context.Context, id int64) (*auth.User, error)
}

// Service implements classroom use cases with ownership enforcement.
type Service struct {
	repository Repository
	members    MemberDirectory
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, members MemberDirectory, logger *slog.Logger) *Service {
	return &Service{repository: repository, members: members, logger: logger}
}

// # Lifecycle

// CreateInput holds the data required to open a new classroom.
type CreateInput struct {
	Name        string
	Description string
}

/*
Create opens a new classroom owned by the calling teacher.

Description: Only teachers and admins may create classrooms. The caller
becomes the owning teacher regardless of role.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - input: CreateInput

Returns:
  - *Classroom: Created entity
  - error: Unauthorized, Forbidden, or persistence failures
*/
func (service *Service) Create(context context.Context, principal *authz.Principal, input CreateInput) (*Classroom, error) {
	if err := authz.RequireAnyRole(principal, sec.RoleTeacher, sec.RoleAdmin); err != nil {
		return nil, err
	}

	room := &Classroom{
		Name:        input.Name,
		Description: input.Description,
		TeacherID:   principal.ID,
		StudentIDs:  []int64{},
		CourseIDs:   []int64{},
	}

	if err := service.repository.Create(context, room); err != nil {
		return nil, err
	}

	service.logger.Info("classroom_created",
		slog.Int64("classroom_id", room.ID),
		slog.Int64("teacher_id", room.TeacherID),
	)

	return room, nil
}

/*
Get returns the classroom with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Classroom: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id int64) (*Classroom, error) {
	return service.repository.FindByID(context, id)
}

/*
List returns a page of all classrooms across all teachers.

Description: The unscoped view is an administrative surface; ordinary
callers use the by-teacher and by-student lookups.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - params: pagination.Params

Returns:
  - []Classroom: Page of classrooms
  - int: Total count
  - error: Unauthorized, Forbidden, or retrieval failures
*/
func (service *Service) List(context context.Context, principal *authz.Principal, params pagination.Params) ([]Classroom, int, error) {
	if err := authz.RequireAnyRole(principal, sec.RoleAdmin); err != nil {
		return nil, 0, err
	}

	return service.repository.List(context, params)
}

/*
ListByTeacher returns a page of classrooms owned by one teacher, visible to
that teacher and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - teacherID: int64
  - params: pagination.Params

Returns:
  - []Classroom: Page of classrooms
  - int: Total count
  - error: Forbidden or retrieval failures
*/
func (service *Service) ListByTeacher(context context.Context, principal *authz.Principal, teacherID int64, params pagination.Params) ([]Classroom, int, error) {
	if err := authz.RequireSelfOrAdmin(principal, teacherID); err != nil {
		return nil, 0, err
	}

	return service.repository.ListByTeacher(context, teacherID, params)
}

/*
ListByStudent returns a page of classrooms a student is enrolled in,
visible to that student and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - studentID: int64
  - params: pagination.Params

Returns:
  - []Classroom: Page of classrooms
  - int: Total count
  - error: Forbidden or retrieval failures
*/
func (service *Service) ListByStudent(context context.Context, principal *authz.Principal, studentID int64, params pagination.Params) ([]Classroom, int, error) {
	if err := authz.RequireSelfOrAdmin(principal, studentID); err != nil {
		return nil, 0, err
	}

	return service.repository.ListByStudent(context, studentID, params)
}

// UpdateInput holds the mutable classroom fields.
type UpdateInput struct {
	Name        string
	Description string
}

/*
Update renames or re-describes a classroom.

Description: Loads the classroom first so unknown IDs report NotFound before
any permission check, then enforces the ownership rule.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64
  - input: UpdateInput

Returns:
  - *Classroom: Updated entity
  - error: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Update(context context.Context, principal *authz.Principal, id int64, input UpdateInput) (*Classroom, error) {
	room, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, room); err != nil {
		return nil, err
	}

	room.Name = input.Name
	room.Description = input.Description

	if err := service.repository.Update(context, room); err != nil {
		return nil, err
	}

	service.logger.Info("classroom_updated", slog.Int64("classroom_id", room.ID))

	return room, nil
}

/*
Delete removes a classroom and its roster and catalog entries.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64

Returns:
  - error: NotFound, Forbidden, or deletion failures
*/
func (service *Service) Delete(context context.Context, principal *authz.Principal, id int64) error {
	room, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := authz.RequireCanModify(principal, room); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("classroom_deleted", slog.Int64("classroom_id", id))

	return nil
}

// # Roster Management

/*
AddStudent enrolls a student into the classroom.

Description: The target account must exist and hold the STUDENT role;
teachers and admins cannot be placed on a roster.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - classroomID, studentID: int64

Returns:
  - *Classroom: Entity with the updated roster
  - error: NotFound, Forbidden, Conflict (already enrolled),
    Validation (target is not a student), or persistence failures
*/
func (service *Service) AddStudent(context context.Context, principal *authz.Principal, classroomID, studentID int64) (*Classroom, error) {
	room, err := service.repository.FindByID(context, classroomID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, room); err != nil {
		return nil, err
	}

	member, err := service.members.FindByID(context, studentID)
	if err != nil {
		return nil, apperr.NotFound("Student")
	}
	if !member.HasRole(sec.RoleStudent) {
		return nil, apperr.ValidationError("Account cannot be enrolled", apperr.FieldError{
			Field:   FieldStudentID,
			Message: "Only accounts with the STUDENT role can join a roster",
		})
	}

	if room.HasStudent(studentID) {
		return nil, apperr.Conflict("Student is already enrolled in this classroom")
	}

	if err := service.repository.AddStudent(context, classroomID, studentID); err != nil {
		return nil, err
	}

	service.logger.Info("classroom_student_added",
		slog.Int64("classroom_id", classroomID),
		slog.Int64("student_id", studentID),
	)

	return service.repository.FindByID(context, classroomID)
}

/*
RemoveStudent removes a student from the classroom roster.

Description: Removing a student who is not enrolled reports NotFound so
clients can tell a stale roster view from a successful removal.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - classroomID, studentID: int64

Returns:
  - *Classroom: Entity with the updated roster
  - error: NotFound, Forbidden, or persistence failures
*/
func (service *Service) RemoveStudent(context context.Context, principal *authz.Principal, classroomID, studentID int64) (*Classroom, error) {
	room, err := service.repository.FindByID(context, classroomID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, room); err != nil {
		return nil, err
	}

	if !room.HasStudent(studentID) {
		return nil, apperr.NotFound("Enrollment")
	}

	if err := service.repository.RemoveStudent(context, classroomID, studentID); err != nil {
		return nil, err
	}

	service.logger.Info("classroom_student_removed",
		slog.Int64("classroom_id", classroomID),
		slog.Int64("student_id", studentID),
	)

	return service.repository.FindByID(context, classroomID)
}

// # Catalog Management

/*
AddCourse attaches a course to the classroom catalog.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - classroomID, courseID: int64

Returns:
  - *Classroom: Entity with the updated catalog
  - error: NotFound, Forbidden, Conflict (already attached), or persistence failures
*/
func (service *Service) AddCourse(context context.Context, principal *authz.Principal, classroomID, courseID int64) (*Classroom, error) {
	room, err := service.repository.FindByID(context, classroomID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, room); err != nil {
		return nil, err
	}

	if room.HasCourse(courseID) {
		return nil, apperr.Conflict("Course is already attached to this classroom")
	}

	if err := service.repository.AddCourse(context, classroomID, courseID); err != nil {
		return nil, err
	}

	service.logger.Info("classroom_course_added",
		slog.Int64("classroom_id", classroomID),
		slog.Int64("course_id", courseID),
	)

	return service.repository.FindByID(context, classroomID)
}

/*
RemoveCourse detaches a course from the classroom catalog.

Description: Detaching a course that is not attached reports NotFound.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - classroomID, courseID: int64

Returns:
  - *Classroom: Entity with the updated catalog
  - error: NotFound, Forbidden, or persistence failures
*/
func (service *Service) RemoveCourse(context context.Context, principal *authz.Principal, classroomID, courseID int64) (*Classroom, error) {
	room, err := service.repository.FindByID(context, classroomID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, room); err != nil {
		return nil, err
	}

	if !room.HasCourse(courseID) {
		return nil, apperr.NotFound("Course attachment")
	}

	if err := service.repository.RemoveCourse(context, classroomID, courseID); err != nil {
		return nil, err
	}

	service.logger.Info("classroom_course_removed",
		slog.Int64("classroom_id", classroomID),
		slog.Int64("course_id", courseID),
	)

	return service.repository.FindByID(context, classroomID)
}
