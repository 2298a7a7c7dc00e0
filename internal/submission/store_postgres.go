// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package submission

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

const submissionColumns = `id, studentid, taskid, content, attachmenturl, status, timeliness, submittedat, updatedat`

/*
Create persists a new submission; the unique index on (studentid, taskid)
maps a double hand-in to Conflict.
*/
func (repository *PostgresRepository) Create(context context.Context, submission *Submission) error {
	const query = `
		INSERT INTO lms.submission (studentid, taskid, content, attachmenturl, status, timeliness, submittedat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	submission.UpdatedAt = submission.SubmittedAt

	err := repository.pool.QueryRow(context, query,
		submission.StudentID,
		submission.TaskID,
		submission.Content,
		submission.AttachmentURL,
		submission.Status,
		submission.Timeliness,
		submission.SubmittedAt,
		submission.UpdatedAt,
	).Scan(&submission.ID)

	if err != nil {
		return dberr.Wrap(err, "Submission")
	}

	return nil
}

/*
FindByID returns the submission with the given ID.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM lms.submission WHERE id = $1`

	submission := &Submission{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.TaskID,
		&submission.Content,
		&submission.AttachmentURL,
		&submission.Status,
		&submission.Timeliness,
		&submission.SubmittedAt,
		&submission.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Submission")
	}

	return submission, nil
}

/*
ListByTask returns a page of submissions against one task.
*/
func (repository *PostgresRepository) ListByTask(context context.Context, taskID int64, params pagination.Params) ([]Submission, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.submission WHERE taskid = $1`
	listQuery := `SELECT ` + submissionColumns + ` FROM lms.submission WHERE taskid = $3 ORDER BY submittedat DESC LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, taskID, params)
}

/*
ListByStudent returns a page of one student's submissions.
*/
func (repository *PostgresRepository) ListByStudent(context context.Context, studentID int64, params pagination.Params) ([]Submission, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.submission WHERE studentid = $1`
	listQuery := `SELECT ` + submissionColumns + ` FROM lms.submission WHERE studentid = $3 ORDER BY submittedat DESC LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, studentID, params)
}

/*
Update persists changes to a submission's mutable fields.
*/
func (repository *PostgresRepository) Update(context context.Context, submission *Submission) error {
	const query = `
		UPDATE lms.submission
		SET content = $2, attachmenturl = $3, status = $4, updatedat = $5
		WHERE id = $1`

	submission.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		submission.ID,
		submission.Content,
		submission.AttachmentURL,
		submission.Status,
		submission.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Submission")
	}

	return nil
}

/*
Delete removes the submission row.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM lms.submission WHERE id = $1`
	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "Submission")
	}
	return nil
}

// listPage runs a count + page query pair sharing one filter argument.
func (repository *PostgresRepository) listPage(context context.Context, countQuery, listQuery string, filter int64, params pagination.Params) ([]Submission, int, error) {
	var total int
	if err := repository.pool.QueryRow(context, countQuery, filter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_submission_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery, params.Limit, params.Offset(), filter)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_submission_repo_list_failed: %w", err)
	}
	defer rows.Close()

	submissions := make([]Submission, 0, params.Limit)
	for rows.Next() {
		submission := Submission{}
		if err := rows.Scan(
			&submission.ID,
			&submission.StudentID,
			&submission.TaskID,
			&submission.Content,
			&submission.AttachmentURL,
			&submission.Status,
			&submission.Timeliness,
			&submission.SubmittedAt,
			&submission.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_submission_repo_scan_failed: %w", err)
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_submission_repo_rows_failed: %w", err)
	}

	return submissions, total, nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
