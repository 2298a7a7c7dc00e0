// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package task

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/acadia-lms/acadia/internal/platform/request"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/validate"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Handler implements the task HTTP endpoints.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// Routes returns a [chi.Router] configured with task routes.
//
// All routes run behind the identity middleware mounted by the server.
//
// # Endpoints
//
//   - POST   /                  : Publishes a task.
//   - GET    /course/{id}       : Lists tasks under a course (?status= filter).
//   - GET    /teacher/{id}      : Lists tasks of a teacher.
//   - GET    /{id}              : Returns one task.
//   - PUT    /{id}              : Updates title/description/deadline.
//   - PUT    /{id}/status       : Moves the task through its lifecycle.
//   - DELETE /{id}              : Deletes a task.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/course/{id}", handler.listByCourse)
	router.Get("/teacher/{id}", handler.listByTeacher)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Put("/{id}/status", handler.updateStatus)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type createTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CourseID    int64     `json:"course_id"`
	Deadline    time.Time `json:"deadline"`
}

type updateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

type statusRequest struct {
	Status string `json:"status"`
}

/*
Create publishes a new task under a course.

POST /api/task

Response:
  - 201: Task: Created task (status OPEN)
  - 400: ErrInvalidJSON: Bad input, validation failure, or past deadline
  - 403: ErrForbidden: Caller is neither teacher nor admin
  - 404: ErrNotFound: Unknown course
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 5000).
		Positive(FieldCourseID, input.CourseID).
		Future(FieldDeadline, input.Deadline)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Create(request.Context(), principal, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		CourseID:    input.CourseID,
		Deadline:    input.Deadline,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

/*
ListByCourse returns a page of tasks under one course, optionally narrowed
with a ?status= query parameter.

GET /api/task/course/{id}?status=OPEN

Response:
  - 200: []Task + pagination meta
  - 400: ErrInvalidJSON: Unknown status name
*/
func (handler *Handler) listByCourse(writer http.ResponseWriter, request *http.Request) {
	courseID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var statusFilter *Status
	if raw := request.URL.Query().Get("status"); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			respond.Error(writer, request, validate.RequiredError(FieldStatus, "Status must be one of OPEN, CLOSED, DONE"))
			return
		}
		statusFilter = &status
	}

	params := pagination.FromRequest(request)

	tasks, total, err := handler.taskService.ListByCourse(request.Context(), courseID, statusFilter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ListByTeacher returns a page of tasks published by one teacher.

GET /api/task/teacher/{id}

Response:
  - 200: []Task + pagination meta
  - 403: ErrForbidden: Caller is neither that teacher nor an admin
*/
func (handler *Handler) listByTeacher(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	teacherID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	tasks, total, err := handler.taskService.ListByTeacher(request.Context(), principal, teacherID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one task.

GET /api/task/{id}

Response:
  - 200: Task
  - 404: ErrNotFound: No such task
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
Update edits a task's title, description, and deadline.

PUT /api/task/{id}

Response:
  - 200: Task: Updated task
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such task
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
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

	var input updateTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 5000).
		Future(FieldDeadline, input.Deadline)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Update(request.Context(), principal, id, UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
UpdateStatus moves a task through its lifecycle.

PUT /api/task/{id}/status

Response:
  - 200: Task: Task with the new status
  - 400: ErrInvalidJSON: Unknown status name
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such task
  - 409: ErrConflict: Backward transition rejected
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
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

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	status, ok := ParseStatus(input.Status)
	if !ok {
		respond.Error(writer, request, validate.RequiredError(FieldStatus, "Status must be one of OPEN, CLOSED, DONE"))
		return
	}

	task, err := handler.taskService.UpdateStatus(request.Context(), principal, id, status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
Delete removes a task.

DELETE /api/task/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such task
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

	if err := handler.taskService.Delete(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
