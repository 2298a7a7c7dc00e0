// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package course

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadia-lms/acadia/internal/platform/dberr"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new course; the unique index on code maps to Conflict.
*/
func (repository *PostgresRepository) Create(context context.Context, course *Course) error {
	const query = `
		INSERT INTO lms.course (name, description, code, createdby, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		course.Name,
		course.Description,
		course.Code,
		course.CreatedBy,
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&course.ID)

	if err != nil {
		return dberr.Wrap(err, "Course")
	}

	return nil
}

/*
FindByID retrieves a course and hydrates its task list.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Course, error) {
	const query = `
		SELECT id, name, description, code, createdby, createdat, updatedat
		FROM lms.course
		WHERE id = $1`

	return repository.findOne(context, query, id)
}

/*
FindByCode retrieves a course by its join code.
*/
func (repository *PostgresRepository) FindByCode(context context.Context, code string) (*Course, error) {
	const query = `
		SELECT id, name, description, code, createdby, createdat, updatedat
		FROM lms.course
		WHERE code = $1`

	return repository.findOne(context, query, code)
}

/*
List returns a page of courses ordered by creation time, newest first.
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]Course, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.course`
	const listQuery = `
		SELECT id, name, description, code, createdby, createdat, updatedat
		FROM lms.course
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, nil, params)
}

/*
ListByAuthor returns a page of courses created by one account.
*/
func (repository *PostgresRepository) ListByAuthor(context context.Context, authorID int64, params pagination.Params) ([]Course, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.course WHERE createdby = $1`
	const listQuery = `
		SELECT id, name, description, code, createdby, createdat, updatedat
		FROM lms.course
		WHERE createdby = $3
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, &authorID, params)
}

// listPage runs a count + page query pair and hydrates each task list.
func (repository *PostgresRepository) listPage(context context.Context, countQuery, listQuery string, authorID *int64, params pagination.Params) ([]Course, int, error) {
	var total int
	var err error
	if authorID != nil {
		err = repository.pool.QueryRow(context, countQuery, *authorID).Scan(&total)
	} else {
		err = repository.pool.QueryRow(context, countQuery).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_count_failed: %w", err)
	}

	var rows pgx.Rows
	if authorID != nil {
		rows, err = repository.pool.Query(context, listQuery, params.Limit, params.Offset(), *authorID)
	} else {
		rows, err = repository.pool.Query(context, listQuery, params.Limit, params.Offset())
	}
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_list_failed: %w", err)
	}
	defer rows.Close()

	courses := make([]Course, 0, params.Limit)
	for rows.Next() {
		course := Course{}
		if err := rows.Scan(&course.ID, &course.Name, &course.Description, &course.Code, &course.CreatedBy, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_course_repo_scan_failed: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_rows_failed: %w", err)
	}

	for i := range courses {
		if err := repository.hydrateTasks(context, &courses[i]); err != nil {
			return nil, 0, err
		}
	}

	return courses, total, nil
}

/*
Update persists changes to a course's mutable fields.
*/
func (repository *PostgresRepository) Update(context context.Context, course *Course) error {
	const query = `
		UPDATE lms.course
		SET name = $2, description = $3, code = $4, updatedat = $5
		WHERE id = $1`

	course.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query, course.ID, course.Name, course.Description, course.Code, course.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Course")
	}

	return nil
}

/*
Delete removes the course row.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM lms.course WHERE id = $1`
	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "Course")
	}
	return nil
}

// findOne runs a single-row course query and hydrates the task list.
func (repository *PostgresRepository) findOne(context context.Context, query string, argument any) (*Course, error) {
	course := &Course{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Code,
		&course.CreatedBy,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Course")
	}

	if err := repository.hydrateTasks(context, course); err != nil {
		return nil, err
	}

	return course, nil
}

// hydrateTasks loads the IDs of tasks assigned under this course.
func (repository *PostgresRepository) hydrateTasks(context context.Context, course *Course) error {
	const query = `SELECT id FROM lms.task WHERE courseid = $1 ORDER BY id`

	rows, err := repository.pool.Query(context, query, course.ID)
	if err != nil {
		return fmt.Errorf("postgres_course_repo_tasks_failed: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("postgres_course_repo_tasks_scan_failed: %w", err)
		}
		ids = append(ids, id)
	}
	course.TaskIDs = ids

	return rows.Err()
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
