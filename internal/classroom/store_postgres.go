// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package classroom

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
Create persists a new classroom record into the lms.classroom table.

Parameters:
  - context: context.Context
  - room: *Classroom

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, room *Classroom) error {
	const query = `
		INSERT INTO lms.classroom (name, description, teacherid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		room.Name,
		room.Description,
		room.TeacherID,
		room.CreatedAt,
		room.UpdatedAt,
	).Scan(&room.ID)

	if err != nil {
		return dberr.Wrap(err, "Classroom")
	}

	return nil
}

/*
FindByID retrieves a classroom and hydrates its roster and catalog.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Classroom: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Classroom, error) {
	const query = `
		SELECT id, name, description, teacherid, createdat, updatedat
		FROM lms.classroom
		WHERE id = $1`

	room := &Classroom{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Description,
		&room.TeacherID,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Classroom")
	}

	if err := repository.hydrateAssociations(context, room); err != nil {
		return nil, err
	}

	return room, nil
}

/*
List returns a page of classrooms ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Classroom: Page of classrooms (associations hydrated)
  - int: Total count
  - error: Execution errors
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]Classroom, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.classroom`
	const listQuery = `
		SELECT id, name, description, teacherid, createdat, updatedat
		FROM lms.classroom
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, nil, params)
}

/*
ListByTeacher returns a page of classrooms owned by one teacher.

Parameters:
  - context: context.Context
  - teacherID: int64
  - params: pagination.Params

Returns:
  - []Classroom: Page of classrooms (associations hydrated)
  - int: Total count
  - error: Execution errors
*/
func (repository *PostgresRepository) ListByTeacher(context context.Context, teacherID int64, params pagination.Params) ([]Classroom, int, error) {
	const countQuery = `SELECT COUNT(*) FROM lms.classroom WHERE teacherid = $1`
	const listQuery = `
		SELECT id, name, description, teacherid, createdat, updatedat
		FROM lms.classroom
		WHERE teacherid = $3
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, &teacherID, params)
}

/*
ListByStudent returns a page of classrooms a student is enrolled in.

Parameters:
  - context: context.Context
  - studentID: int64
  - params: pagination.Params

Returns:
  - []Classroom: Page of classrooms (associations hydrated)
  - int: Total count
  - error: Execution errors
*/
func (repository *PostgresRepository) ListByStudent(context context.Context, studentID int64, params pagination.Params) ([]Classroom, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM lms.classroom c
		JOIN lms.classroomstudent cs ON cs.classroomid = c.id
		WHERE cs.studentid = $1`
	const listQuery = `
		SELECT c.id, c.name, c.description, c.teacherid, c.createdat, c.updatedat
		FROM lms.classroom c
		JOIN lms.classroomstudent cs ON cs.classroomid = c.id
		WHERE cs.studentid = $3
		ORDER BY c.createdat DESC
		LIMIT $1 OFFSET $2`

	return repository.listPage(context, countQuery, listQuery, &studentID, params)
}

/*
Update persists changes to a classroom's mutable fields.

Parameters:
  - context: context.Context
  - room: *Classroom

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, room *Classroom) error {
	const query = `
		UPDATE lms.classroom
		SET name = $2, description = $3, updatedat = $4
		WHERE id = $1`

	room.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query, room.ID, room.Name, room.Description, room.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Classroom")
	}

	return nil
}

/*
Delete removes the classroom row; association rows cascade in the schema.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM lms.classroom WHERE id = $1`
	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "Classroom")
	}
	return nil
}

/*
AddStudent enrolls a student; a duplicate enrollment maps to Conflict.
*/
func (repository *PostgresRepository) AddStudent(context context.Context, classroomID, studentID int64) error {
	const query = `INSERT INTO lms.classroomstudent (classroomid, studentid) VALUES ($1, $2)`
	if _, err := repository.pool.Exec(context, query, classroomID, studentID); err != nil {
		return dberr.Wrap(err, "Enrollment")
	}
	return nil
}

/*
RemoveStudent removes a roster entry; removing an absent student is a no-op.
*/
func (repository *PostgresRepository) RemoveStudent(context context.Context, classroomID, studentID int64) error {
	const query = `DELETE FROM lms.classroomstudent WHERE classroomid = $1 AND studentid = $2`
	if _, err := repository.pool.Exec(context, query, classroomID, studentID); err != nil {
		return dberr.Wrap(err, "Enrollment")
	}
	return nil
}

/*
AddCourse attaches a course; a duplicate attachment maps to Conflict.
*/
func (repository *PostgresRepository) AddCourse(context context.Context, classroomID, courseID int64) error {
	const query = `INSERT INTO lms.classroomcourse (classroomid, courseid) VALUES ($1, $2)`
	if _, err := repository.pool.Exec(context, query, classroomID, courseID); err != nil {
		return dberr.Wrap(err, "Course attachment")
	}
	return nil
}

/*
RemoveCourse detaches a course; detaching an absent course is a no-op.
*/
func (repository *PostgresRepository) RemoveCourse(context context.Context, classroomID, courseID int64) error {
	const query = `DELETE FROM lms.classroomcourse WHERE classroomid = $1 AND courseid = $2`
	if _, err := repository.pool.Exec(context, query, classroomID, courseID); err != nil {
		return dberr.Wrap(err, "Course attachment")
	}
	return nil
}

// listPage runs a count + page query pair and hydrates associations.
func (repository *PostgresRepository) listPage(context context.Context, countQuery, listQuery string, teacherID *int64, params pagination.Params) ([]Classroom, int, error) {
	var total int
	var err error
	if teacherID != nil {
		err = repository.pool.QueryRow(context, countQuery, *teacherID).Scan(&total)
	} else {
		err = repository.pool.QueryRow(context, countQuery).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_classroom_repo_count_failed: %w", err)
	}

	var rows pgx.Rows
	if teacherID != nil {
		rows, err = repository.pool.Query(context, listQuery, params.Limit, params.Offset(), *teacherID)
	} else {
		rows, err = repository.pool.Query(context, listQuery, params.Limit, params.Offset())
	}
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_classroom_repo_list_failed: %w", err)
	}
	defer rows.Close()

	rooms := make([]Classroom, 0, params.Limit)
	for rows.Next() {
		room := Classroom{}
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.TeacherID, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_classroom_repo_scan_failed: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_classroom_repo_rows_failed: %w", err)
	}

	for i := range rooms {
		if err := repository.hydrateAssociations(context, &rooms[i]); err != nil {
			return nil, 0, err
		}
	}

	return rooms, total, nil
}

// hydrateAssociations loads the student roster and course catalog IDs.
func (repository *PostgresRepository) hydrateAssociations(context context.Context, room *Classroom) error {
	const studentQuery = `SELECT studentid FROM lms.classroomstudent WHERE classroomid = $1 ORDER BY studentid`
	const courseQuery = `SELECT courseid FROM lms.classroomcourse WHERE classroomid = $1 ORDER BY courseid`

	students, err := repository.collectIDs(context, studentQuery, room.ID)
	if err != nil {
		return fmt.Errorf("postgres_classroom_repo_students_failed: %w", err)
	}
	room.StudentIDs = students

	courses, err := repository.collectIDs(context, courseQuery, room.ID)
	if err != nil {
		return fmt.Errorf("postgres_classroom_repo_courses_failed: %w", err)
	}
	room.CourseIDs = courses

	return nil
}

// collectIDs scans a single-column int64 result set.
func (repository *PostgresRepository) collectIDs(context context.Context, query string, argument int64) ([]int64, error) {
	rows, err := repository.pool.Query(context, query, argument)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
