// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package submission

import (
	"context"
	"log/slog"
	"time"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/internal/task"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// TaskDirectory resolves the task a submission is handed in against.
// [task.Service] satisfies this contract.
type TaskDirectory interface {
	Get(context context.Context, id int64) (*task.Task, error)
}

// Service implements submission use cases.
//
// # Authorization Model
//
// Submissions have two interested parties: the student who owns the work
// and the teacher who owns the task. Read and delete follow the student's
// ownership (the self-or-admin rule, since students never satisfy the
// teacher-scoped [authz.CanModify]); review decisions follow the task's
// ownership.
type Service struct {
	repository Repository
	tasks      TaskDirectory
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, tasks TaskDirectory, logger *slog.Logger) *Service {
	return &Service{repository: repository, tasks: tasks, logger: logger}
}

// # Hand-In

// CreateInput holds the data required to hand in work.
type CreateInput struct {
	TaskID        int64
	Content       string
	AttachmentURL string
}

/*
Create hands in work against an open task.

Description: Only students may hand in work. The task must exist and be
OPEN. The hand-in instant is stamped against the task deadline: work
landing at or before the deadline is IN_TIME, anything after is LATE but
still accepted. A second hand-in for the same task conflicts.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - input: CreateInput

Returns:
  - *Submission: Created entity (status PENDING)
  - error: Unauthorized, Forbidden, NotFound (unknown task),
    Conflict (closed task or duplicate hand-in), or persistence failures
*/
func (service *Service) Create(context context.Context, principal *authz.Principal, input CreateInput) (*Submission, error) {
	if err := authz.RequireAnyRole(principal, sec.RoleStudent); err != nil {
		return nil, err
	}

	assignment, err := service.tasks.Get(context, input.TaskID)
	if err != nil {
		return nil, err
	}

	if !assignment.AcceptsSubmissions() {
		return nil, apperr.Conflict("Task is no longer accepting submissions")
	}

	now := time.Now()
	timeliness := InTime
	if assignment.DeadlinePassed(now) {
		timeliness = Late
	}

	submission := &Submission{
		StudentID:     principal.ID,
		TaskID:        input.TaskID,
		Content:       input.Content,
		AttachmentURL: input.AttachmentURL,
		Status:        StatusPending,
		Timeliness:    timeliness,
		SubmittedAt:   now,
	}

	if err := service.repository.Create(context, submission); err != nil {
		return nil, err
	}

	service.logger.Info("submission_created",
		slog.Int64("submission_id", submission.ID),
		slog.Int64("task_id", submission.TaskID),
		slog.Int64("student_id", submission.StudentID),
		slog.String("timeliness", string(timeliness)),
	)

	return submission, nil
}

// # Retrieval

/*
Get returns one submission, visible to its student, the task's teacher,
and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64

Returns:
  - *Submission: Hydrated entity
  - error: NotFound, Forbidden, or retrieval failures
*/
func (service *Service) Get(context context.Context, principal *authz.Principal, id int64) (*Submission, error) {
	submission, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.requireParty(context, principal, submission); err != nil {
		return nil, err
	}

	return submission, nil
}

/*
ListByTask returns a page of submissions against one task, visible to the
task's teacher and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - taskID: int64
  - params: pagination.Params

Returns:
  - []Submission: Page of submissions
  - int: Total count
  - error: NotFound (unknown task), Forbidden, or retrieval failures
*/
func (service *Service) ListByTask(context context.Context, principal *authz.Principal, taskID int64, params pagination.Params) ([]Submission, int, error) {
	assignment, err := service.tasks.Get(context, taskID)
	if err != nil {
		return nil, 0, err
	}

	if err := authz.RequireCanModify(principal, assignment); err != nil {
		return nil, 0, err
	}

	return service.repository.ListByTask(context, taskID, params)
}

/*
ListByStudent returns a page of one student's submissions, visible to that
student and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - studentID: int64
  - params: pagination.Params

Returns:
  - []Submission: Page of submissions
  - int: Total count
  - error: Forbidden or retrieval failures
*/
func (service *Service) ListByStudent(context context.Context, principal *authz.Principal, studentID int64, params pagination.Params) ([]Submission, int, error) {
	if err := authz.RequireSelfOrAdmin(principal, studentID); err != nil {
		return nil, 0, err
	}

	return service.repository.ListByStudent(context, studentID, params)
}

// # Review

/*
Review records the teacher's decision on a submission.

Description: The decision belongs to the teacher who owns the task (or an
admin), never to the submitting student. PENDING is not a decision; only
APPROVED and REJECTED are accepted here.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64
  - status: Status

Returns:
  - *Submission: Entity with the recorded decision
  - error: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Review(context context.Context, principal *authz.Principal, id int64, status Status) (*Submission, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, apperr.ValidationError("Unknown review decision", apperr.FieldError{
			Field:   FieldStatus,
			Message: "Decision must be APPROVED or REJECTED",
		})
	}

	submission, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	assignment, err := service.tasks.Get(context, submission.TaskID)
	if err != nil {
		return nil, err
	}

	// The review right follows the task, not the submission.
	if err := authz.RequireCanModify(principal, assignment); err != nil {
		return nil, err
	}

	submission.Status = status

	if err := service.repository.Update(context, submission); err != nil {
		return nil, err
	}

	service.logger.Info("submission_reviewed",
		slog.Int64("submission_id", submission.ID),
		slog.String("status", string(status)),
		slog.Int64("reviewer_id", principal.ID),
	)

	return submission, nil
}

// UpdateContentInput holds the fields a student may rework before review.
type UpdateContentInput struct {
	Content       string
	AttachmentURL string
}

/*
UpdateContent lets the student rework a pending submission.

Description: Once a decision is recorded the work is frozen. Editing
does not re-stamp timeliness; the original hand-in instant stands.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64
  - input: UpdateContentInput

Returns:
  - *Submission: Updated entity
  - error: NotFound, Forbidden, Conflict (already reviewed), or persistence failures
*/
func (service *Service) UpdateContent(context context.Context, principal *authz.Principal, id int64, input UpdateContentInput) (*Submission, error) {
	submission, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireSelfOrAdmin(principal, submission.StudentID); err != nil {
		return nil, err
	}

	if submission.Status != StatusPending {
		return nil, apperr.Conflict("Submission has already been reviewed")
	}

	submission.Content = input.Content
	submission.AttachmentURL = input.AttachmentURL

	if err := service.repository.Update(context, submission); err != nil {
		return nil, err
	}

	service.logger.Info("submission_content_updated", slog.Int64("submission_id", submission.ID))

	return submission, nil
}

/*
Delete withdraws a submission.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64

Returns:
  - error: NotFound, Forbidden, or deletion failures
*/
func (service *Service) Delete(context context.Context, principal *authz.Principal, id int64) error {
	submission, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := authz.RequireSelfOrAdmin(principal, submission.StudentID); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("submission_deleted", slog.Int64("submission_id", id))

	return nil
}

// requireParty admits the owning student, the task's teacher, and admins.
func (service *Service) requireParty(context context.Context, principal *authz.Principal, submission *Submission) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if principal.IsAdmin() || principal.ID == submission.StudentID {
		return nil
	}

	assignment, err := service.tasks.Get(context, submission.TaskID)
	if err == nil && authz.CanModify(principal, assignment) {
		return nil
	}

	return apperr.Forbidden("You do not have permission to view this submission")
}
