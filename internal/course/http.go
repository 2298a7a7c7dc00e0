// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/acadia-lms/acadia/internal/platform/request"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/validate"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Handler implements the course HTTP endpoints.
type Handler struct {
	courseService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{courseService: service}
}

// Routes returns a [chi.Router] configured with course routes.
//
// All routes run behind the identity middleware mounted by the server.
//
// # Endpoints
//
//   - POST   /             : Creates a course.
//   - GET    /             : Lists all courses (admin only).
//   - GET    /author/{id}  : Lists courses created by one account.
//   - GET    /code/{code}  : Returns a course by join code.
//   - GET    /{id}         : Returns a course by ID.
//   - PUT    /{id}         : Updates name/description.
//   - DELETE /{id}         : Deletes a course.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/author/{id}", handler.listByAuthor)
	router.Get("/code/{code}", handler.getByCode)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type courseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (handler *Handler) validateCourse(input courseRequest) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 3).
		MaxLen(FieldName, input.Name, 120).
		MaxLen(FieldDescription, input.Description, 2000)
	return validator.Err()
}

/*
Create publishes a new course.

POST /api/course

Response:
  - 201: Course: Created course with its generated join code
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Caller is neither teacher nor admin
  - 409: ErrConflict: Join code already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input courseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.validateCourse(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Create(request.Context(), principal, CreateInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, course)
}

/*
List returns a page of all courses.

GET /api/course

Response:
  - 200: []Course + pagination meta
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	courses, total, err := handler.courseService.List(request.Context(), principal, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ListByAuthor returns a page of courses created by one account.

GET /api/course/author/{id}

Response:
  - 200: []Course + pagination meta
  - 403: ErrForbidden: Caller is neither that account nor an admin
*/
func (handler *Handler) listByAuthor(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	authorID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	courses, total, err := handler.courseService.ListByAuthor(request.Context(), principal, authorID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one course by numeric ID.

GET /api/course/{id}

Response:
  - 200: Course
  - 404: ErrNotFound: No such course
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
GetByCode returns one course by join code.

GET /api/course/code/{code}

Response:
  - 200: Course
  - 404: ErrNotFound: No such course
*/
func (handler *Handler) getByCode(writer http.ResponseWriter, request *http.Request) {
	code := requestutil.Param(request, "code")
	if code == "" {
		respond.Error(writer, request, validate.RequiredError(FieldCode, "This field is required"))
		return
	}

	course, err := handler.courseService.GetByCode(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
Update renames or re-describes a course.

PUT /api/course/{id}

Response:
  - 200: Course: Updated course (join code regenerated on rename)
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such course
  - 409: ErrConflict: New join code already taken
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

	var input courseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.validateCourse(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Update(request.Context(), principal, id, UpdateInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
Delete removes a course.

DELETE /api/course/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such course
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

	if err := handler.courseService.Delete(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
