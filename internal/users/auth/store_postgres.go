// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadia-lms/acadia/internal/platform/dberr"
	"github.com/acadia-lms/acadia/internal/platform/sec"
	"github.com/acadia-lms/acadia/pkg/pagination"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or unique violations) are mapped
// to domain-friendly [apperr.AppError] types via [dberr.Wrap] to avoid leaking
// storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record and its role set transactionally.

Description: Inserts into users.account and users.accountrole in one
transaction so a half-registered account can never exist.

Parameters:
  - context: context.Context
  - user: *User (ID is filled in from the generated key)

Returns:
  - error: Conflict on duplicate username/email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const insertAccount = `
		INSERT INTO users.account (username, email, passwordhash, firstname, lastname, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	const insertRole = `
		INSERT INTO users.accountrole (accountid, role) VALUES ($1, $2)`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	err = transaction.QueryRow(context, insertAccount,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	for _, role := range user.Roles {
		if _, err := transaction.Exec(context, insertRole, user.ID, string(role)); err != nil {
			return dberr.Wrap(err, "User role")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity with roles loaded
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, firstname, lastname, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	return repository.findOne(context, query, id)
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup for authentication and identity resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity with roles loaded
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, firstname, lastname, createdat, updatedat
		FROM users.account
		WHERE username = $1`

	return repository.findOne(context, query, username)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity with roles loaded
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, firstname, lastname, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.findOne(context, query, email)
}

/*
Search returns a page of accounts whose username contains the fragment.

Parameters:
  - context: context.Context
  - usernameFragment: string
  - params: pagination.Params

Returns:
  - []User: Matching page, ordered by username
  - int: Total match count
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Search(context context.Context, usernameFragment string, params pagination.Params) ([]User, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM users.account WHERE username ILIKE '%' || $1 || '%'`

	const listQuery = `
		SELECT id, username, email, passwordhash, firstname, lastname, createdat, updatedat
		FROM users.account
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, usernameFragment).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_search_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery, usernameFragment, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_search_failed: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0, params.Limit)
	for rows.Next() {
		user := User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_search_scan_failed: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_search_rows_failed: %w", err)
	}

	// Load role sets in one batch to avoid N round-trips per page.
	if err := repository.loadRoles(context, users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// findOne runs a single-row account query and hydrates the role set.
func (repository *PostgresUserRepository) findOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	users := []User{*user}
	if err := repository.loadRoles(context, users); err != nil {
		return nil, err
	}

	return &users[0], nil
}

// loadRoles hydrates the Roles slice for every user in the batch.
func (repository *PostgresUserRepository) loadRoles(context context.Context, users []User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(users))
	index := make(map[int64]*User, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
		index[users[i].ID] = &users[i]
	}

	const query = `SELECT accountid, role FROM users.accountrole WHERE accountid = ANY($1)`

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_load_roles_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var accountID int64
		var roleName string
		if err := rows.Scan(&accountID, &roleName); err != nil {
			return fmt.Errorf("postgres_user_repo_load_roles_scan_failed: %w", err)
		}
		if user, ok := index[accountID]; ok {
			user.Roles = append(user.Roles, sec.RoleName(roleName))
		}
	}

	return rows.Err()
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepository)(nil)
