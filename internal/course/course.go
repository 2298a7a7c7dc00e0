// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package course manages the course catalog.

A course is a unit of teaching material owned by the teacher who created
it. Each course carries a URL-safe join code derived from its name, used
by clients to reference the course without exposing numeric IDs.
*/
package course

import (
	"time"
)

// # Core Entities

// Course represents one unit of teaching material.
type Course struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Code        string    `json:"code"`
	CreatedBy   int64     `json:"created_by"`
	TaskIDs     []int64   `json:"task_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID implements the ownership contract used by the authorization guard.
func (c *Course) OwnerID() int64 { return c.CreatedBy }

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCode        = "code"
	FieldMessage     = "message"
)
