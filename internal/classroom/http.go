// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package classroom

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acadia-lms/acadia/internal/platform/authz"
	requestutil "github.com/acadia-lms/acadia/internal/platform/request"
	"github.com/acadia-lms/acadia/internal/platform/respond"
	"github.com/acadia-lms/acadia/internal/platform/validate"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// Handler implements the classroom HTTP endpoints.
type Handler struct {
	classroomService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{classroomService: service}
}

// Routes returns a [chi.Router] configured with classroom routes.
//
// All routes run behind the identity middleware mounted by the server.
//
// # Endpoints
//
//   - POST   /                          : Creates a classroom.
//   - GET    /                          : Lists all classrooms (admin only).
//   - GET    /teacher/{id}              : Lists classrooms of one teacher.
//   - GET    /student/{id}              : Lists classrooms of one student.
//   - GET    /{id}                      : Returns one classroom.
//   - PUT    /{id}                      : Updates name/description.
//   - DELETE /{id}                      : Deletes a classroom.
//   - POST   /{id}/students/{studentID}   : Enrolls a student.
//   - DELETE /{id}/students/{studentID}   : Removes a student.
//   - POST   /{id}/courses/{courseID}     : Attaches a course.
//   - DELETE /{id}/courses/{courseID}     : Detaches a course.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/teacher/{id}", handler.listByTeacher)
	router.Get("/student/{id}", handler.listByStudent)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	router.Post("/{id}/students/{studentID}", handler.addStudent)
	router.Delete("/{id}/students/{studentID}", handler.removeStudent)
	router.Post("/{id}/courses/{courseID}", handler.addCourse)
	router.Delete("/{id}/courses/{courseID}", handler.removeCourse)

	return router
}

// # Request Payloads

type classroomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

/*
Create opens a new classroom owned by the calling teacher.

POST /api/classroom

Response:
  - 201: Classroom: Created classroom
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Caller is neither teacher nor admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input classroomRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 120).
		MaxLen(FieldDescription, input.Description, 2000)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := handler.classroomService.Create(request.Context(), principal, CreateInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, room)
}

/*
List returns a page of all classrooms.

GET /api/classroom

Response:
  - 200: []Classroom + pagination meta
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	rooms, total, err := handler.classroomService.List(request.Context(), principal, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, rooms, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ListByTeacher returns a page of classrooms owned by one teacher.

GET /api/classroom/teacher/{id}

Response:
  - 200: []Classroom + pagination meta
  - 403: ErrForbidden: Caller is neither that teacher nor an admin
*/
func (handler *Handler) listByTeacher(writer http.ResponseWriter, request *http.Request) {
	handler.scopedList(writer, request, handler.classroomService.ListByTeacher)
}

/*
ListByStudent returns a page of classrooms a student is enrolled in.

GET /api/classroom/student/{id}

Response:
  - 200: []Classroom + pagination meta
  - 403: ErrForbidden: Caller is neither that student nor an admin
*/
func (handler *Handler) listByStudent(writer http.ResponseWriter, request *http.Request) {
	handler.scopedList(writer, request, handler.classroomService.ListByStudent)
}

// scopedList is the shared shape of the account-scoped list endpoints:
// resolve the caller, parse the account ID, delegate, return the page.
func (handler *Handler) scopedList(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(context.Context, *authz.Principal, int64, pagination.Params) ([]Classroom, int, error),
) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	rooms, total, err := operation(request.Context(), principal, accountID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, rooms, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one classroom with roster and catalog.

GET /api/classroom/{id}

Response:
  - 200: Classroom
  - 404: ErrNotFound: No such classroom
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := handler.classroomService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, room)
}

/*
Update renames or re-describes a classroom.

PUT /api/classroom/{id}

Response:
  - 200: Classroom: Updated classroom
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such classroom
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

	var input classroomRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 120).
		MaxLen(FieldDescription, input.Description, 2000)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := handler.classroomService.Update(request.Context(), principal, id, UpdateInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, room)
}

/*
Delete removes a classroom.

DELETE /api/classroom/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such classroom
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

	if err := handler.classroomService.Delete(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Roster & Catalog Endpoints

func (handler *Handler) addStudent(writer http.ResponseWriter, request *http.Request) {
	handler.memberMutation(writer, request, "studentID", handler.classroomService.AddStudent)
}

func (handler *Handler) removeStudent(writer http.ResponseWriter, request *http.Request) {
	handler.memberMutation(writer, request, "studentID", handler.classroomService.RemoveStudent)
}

func (handler *Handler) addCourse(writer http.ResponseWriter, request *http.Request) {
	handler.memberMutation(writer, request, "courseID", handler.classroomService.AddCourse)
}

func (handler *Handler) removeCourse(writer http.ResponseWriter, request *http.Request) {
	handler.memberMutation(writer, request, "courseID", handler.classroomService.RemoveCourse)
}

// memberMutation is the shared shape of the four roster/catalog endpoints:
// resolve the caller, parse both IDs, delegate, return the updated classroom.
func (handler *Handler) memberMutation(
	writer http.ResponseWriter,
	request *http.Request,
	memberParam string,
	operation func(context.Context, *authz.Principal, int64, int64) (*Classroom, error),
) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	classroomID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memberID, err := requestutil.ID(request, memberParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := operation(request.Context(), principal, classroomID, memberID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, room)
}
