// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package course

import (
	"context"
	"log/slog"

	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/pkg/pagination"
	"github.com/acadia-lms/acadia/pkg/slug"
)

// Service implements course catalog use cases with ownership enforcement.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Lifecycle

// CreateInput holds the data required to publish a new course.
type CreateInput struct {
	Name        string
	Description string
}

/*
Create publishes a new course owned by the calling teacher.

Description: The join code is derived from the course name; two courses
with colliding codes conflict, which keeps codes usable as stable
client-facing references.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - input: CreateInput

Returns:
  - *Course: Created entity
  - error: Unauthorized, Forbidden, Conflict (code taken), or persistence failures
*/
func (service *Service) Create(context context.Context, principal *authz.Principal, input CreateInput) (*Course, error) {
	if err := authz.RequireAnyRole(principal, sec.RoleTeacher, sec.RoleAdmin); err != nil {
		return nil, err
	}

	course := &Course{
		Name:        input.Name,
		Description: input.Description,
		Code:        slug.From(input.Name),
		CreatedBy:   principal.ID,
		TaskIDs:     []int64{},
	}

	if err := service.repository.Create(context, course); err != nil {
		return nil, err
	}

	service.logger.Info("course_created",
		slog.Int64("course_id", course.ID),
		slog.String("code", course.Code),
		slog.Int64("created_by", course.CreatedBy),
	)

	return course, nil
}

/*
Get returns the course with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Course: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id int64) (*Course, error) {
	return service.repository.FindByID(context, id)
}

/*
GetByCode returns the course carrying the given join code.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - *Course: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetByCode(context context.Context, code string) (*Course, error) {
	return service.repository.FindByCode(context, code)
}

/*
List returns a page of all courses across all authors.

Description: The unscoped catalog view is an administrative surface;
ordinary callers use the by-author and by-code lookups.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - params: pagination.Params

Returns:
  - []Course: Page of courses
  - int: Total count
  - error: Unauthorized, Forbidden, or retrieval failures
*/
func (service *Service) List(context context.Context, principal *authz.Principal, params pagination.Params) ([]Course, int, error) {
	if err := authz.RequireAnyRole(principal, sec.RoleAdmin); err != nil {
		return nil, 0, err
	}

	return service.repository.List(context, params)
}

/*
ListByAuthor returns a page of courses created by one account, visible to
that account and admins.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - authorID: int64
  - params: pagination.Params

Returns:
  - []Course: Page of courses
  - int: Total count
  - error: Forbidden or retrieval failures
*/
func (service *Service) ListByAuthor(context context.Context, principal *authz.Principal, authorID int64, params pagination.Params) ([]Course, int, error) {
	if err := authz.RequireSelfOrAdmin(principal, authorID); err != nil {
		return nil, 0, err
	}

	return service.repository.ListByAuthor(context, authorID, params)
}

// UpdateInput holds the mutable course fields.
type UpdateInput struct {
	Name        string
	Description string
}

/*
Update renames or re-describes a course. Renaming regenerates the join code.

Description: Loads the course first so unknown IDs report NotFound before
any permission check, then enforces the ownership rule.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64
  - input: UpdateInput

Returns:
  - *Course: Updated entity
  - error: NotFound, Forbidden, Conflict (new code taken), or persistence failures
*/
func (service *Service) Update(context context.Context, principal *authz.Principal, id int64, input UpdateInput) (*Course, error) {
	course, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireCanModify(principal, course); err != nil {
		return nil, err
	}

	course.Name = input.Name
	course.Description = input.Description
	course.Code = slug.From(input.Name)

	if err := service.repository.Update(context, course); err != nil {
		return nil, err
	}

	service.logger.Info("course_updated",
		slog.Int64("course_id", course.ID),
		slog.String("code", course.Code),
	)

	return course, nil
}

/*
Delete removes a course.

Parameters:
  - context: context.Context
  - principal: *authz.Principal
  - id: int64

Returns:
  - error: NotFound, Forbidden, or deletion failures
*/
func (service *Service) Delete(context context.Context, principal *authz.Principal, id int64) error {
	course, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := authz.RequireCanModify(principal, course); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("course_deleted", slog.Int64("course_id", id))

	return nil
}
