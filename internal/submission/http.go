// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package submission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/acadia-lms/acadia/internal/platform/request"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/validate"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Handler implements the submission HTTP endpoints.
type Handler struct {
	submissionService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{submissionService: service}
}

// Routes returns a [chi.Router] configured with submission routes.
//
// All routes run behind the identity middleware mounted by the server.
//
// # Endpoints
//
//   - POST   /               : Hands in work against a task.
//   - GET    /task/{id}      : Lists submissions against a task.
//   - GET    /student/{id}   : Lists one student's submissions.
//   - GET    /{id}           : Returns one submission.
//   - PUT    /{id}           : Replaces the content of a pending submission.
//   - PUT    /{id}/review    : Records a review decision.
//   - DELETE /{id}           : Withdraws a submission.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/task/{id}", handler.listByTask)
	router.Get("/student/{id}", handler.listByStudent)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.updateContent)
	router.Put("/{id}/review", handler.review)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type createSubmissionRequest struct {
	TaskID        int64  `json:"task_id"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url"`
}

type contentRequest struct {
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url"`
}

type reviewRequest struct {
	Status string `json:"status"`
}

/*
Create hands in work against an open task.

POST /api/submission

Response:
  - 201: Submission: Created submission (status PENDING, timeliness stamped)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Caller is not a student
  - 404: ErrNotFound: Unknown task
  - 409: ErrConflict: Task closed or work already handed in
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSubmissionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Positive(FieldTaskID, input.TaskID).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, 100000).
		MaxLen(FieldAttachmentURL, input.AttachmentURL, 2048)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission, err := handler.submissionService.Create(request.Context(), principal, CreateInput{
		TaskID:        input.TaskID,
		Content:       input.Content,
		AttachmentURL: input.AttachmentURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, submission)
}

/*
ListByTask returns a page of submissions against one task.

GET /api/submission/task/{id}

Response:
  - 200: []Submission + pagination meta
  - 403: ErrForbidden: Caller is neither the task's teacher nor admin
  - 404: ErrNotFound: Unknown task
*/
func (handler *Handler) listByTask(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	taskID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	submissions, total, err := handler.submissionService.ListByTask(request.Context(), principal, taskID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, submissions, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ListByStudent returns a page of one student's submissions.

GET /api/submission/student/{id}

Response:
  - 200: []Submission + pagination meta
  - 403: ErrForbidden: Caller is neither that student nor admin
*/
func (handler *Handler) listByStudent(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	studentID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	submissions, total, err := handler.submissionService.ListByStudent(request.Context(), principal, studentID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, submissions, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one submission.

GET /api/submission/{id}

Response:
  - 200: Submission
  - 403: ErrForbidden: Caller is not a party to this submission
  - 404: ErrNotFound: No such submission
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission, err := handler.submissionService.Get(request.Context(), principal, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, submission)
}

/*
UpdateContent replaces the content of a pending submission.

PUT /api/submission/{id}

Response:
  - 200: Submission: Updated submission
  - 403: ErrForbidden: Caller does not own the submission
  - 404: ErrNotFound: No such submission
  - 409: ErrConflict: Submission already reviewed
*/
func (handler *Handler) updateContent(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, 100000).
		MaxLen(FieldAttachmentURL, input.AttachmentURL, 2048)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission, err := handler.submissionService.UpdateContent(request.Context(), principal, id, UpdateContentInput{
		Content:       input.Content,
		AttachmentURL: input.AttachmentURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, submission)
}

/*
Review records the teacher's decision on a submission.

PUT /api/submission/{id}/review

Response:
  - 200: Submission: Submission with the recorded decision
  - 400: ErrInvalidJSON: Unknown decision name
  - 403: ErrForbidden: Caller is neither the task's teacher nor admin
  - 404: ErrNotFound: No such submission
*/
func (handler *Handler) review(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	status, ok := ParseStatus(input.Status)
	if !ok {
		respond.Error(writer, request, validate.RequiredError(FieldStatus, "Decision must be APPROVED or REJECTED"))
		return
	}

	submission, err := handler.submissionService.Review(request.Context(), principal, id, status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, submission)
}

/*
Delete withdraws a submission.

DELETE /api/submission/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller does not own the submission
  - 404: ErrNotFound: No such submission
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.submissionService.Delete(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
