// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package task

import (
	"context"
	"fmt"
	"time"

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

const taskColumns = `id, title, description, teacherid, courseid, status, deadline, createdat, updatedat`

/*
Create persists a new task; a missing course trips the foreign key and maps
to NotFound.
*/
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	const query = `
		INSERT INTO lms.task (title, description, teacherid, courseid, status, deadline, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		task.Title,
		task.Description,
		task.TeacherID,
		task.CourseID,
		task.Status,
		task.Deadline,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		return dberr.Wrap(err, "Task")
	}

	return nil
}

/*
FindByID returns the task with the given ID.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM lms.task WHERE id = $1`

	task := &Task{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.TeacherID,
		&task.CourseID,
		&task.Status,
		&task.Deadline,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Task")
	}

	return task, nil
}

/*
ListByCourse returns a page of tasks under one course, newest first,
optionally narrowed to one lifecycle status.
*/
func (repository *PostgresRepository) ListByCourse(context context.Context, courseID int64, status *Status, params pagination.Params) ([]Task, int, error) {
	if status != nil {
		const countQuery = `SELECT COUNT(*) FROM lms.task WHERE courseid = $1 AND status = $2`
		listQuery := `SELECT ` + taskColumns + ` FROM lms.task WHERE courseid = $3 AND status = $4 ORDER BY createdat DESC LIMIT $1 OFFSET $2`

		return repository.listPage(context, countQuery, listQuery, params, courseID, *status)
	}

	const countQuery = `SELECT COUNT(*) FROM lms.task WHERE courseid = $1`
	listQuery := `SELECT ` + taskColumns + ` FROM lms.task WHERE courseid = $3 ORDER BY createdat DESC LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, params, courseID)
}

/*
ListByTeacher returns a page of tasks published by one teacher.
*/
func (repository *PostgresRepository) ListByTeacher(context context.Context, teacherID int64, params pagination.Params) ([]Task, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.task WHERE teacherid = $1`
	listQuery := `SELECT ` + taskColumns + ` FROM lms.task WHERE teacherid = $3 ORDER BY createdat DESC LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, params, teacherID)
}

/*
Update persists changes to a task's mutable fields.
*/
func (repository *PostgresRepository) Update(context context.Context, task *Task) error {
	const query = `
		UPDATE lms.task
		SET title = $2, description = $3, status = $4, deadline = $5, updatedat = $6
		WHERE id = $1`

	task.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Deadline,
		task.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Task")
	}

	return nil
}

/*
Delete removes the task row.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM lms.task WHERE id = $1`
	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "Task")
	}
	return nil
}

// listPage runs a count + page query pair sharing the same filter arguments.
func (repository *PostgresRepository) listPage(context context.Context, countQuery, listQuery string, params pagination.Params, filters ...any) ([]Task, int, error) {
	var total int
	if err := repository.pool.QueryRow(context, countQuery, filters...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_count_failed: %w", err)
	}

	arguments := append([]any{params.Limit, params.Offset()}, filters...)
	rows, err := repository.pool.Query(context, listQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0, params.Limit)
	for rows.Next() {
		task := Task{}
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.TeacherID,
			&task.CourseID,
			&task.Status,
			&task.Deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_task_repo_scan_failed: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_rows_failed: %w", err)
	}

	return tasks, total, nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
