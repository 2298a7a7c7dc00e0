// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package task manages assignments published under courses.

A task is owned by the teacher who published it, belongs to exactly one
course, and carries a deadline that decides whether student submissions
count as on time.

# Status Lifecycle

	OPEN ──> CLOSED ──> DONE

OPEN tasks accept submissions. CLOSED tasks reject new submissions but may
still be graded. DONE tasks are archived.
*/
package task

import (
	"time"
)

// # Status Enumeration

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
	StatusDone   Status = "DONE"
)

// ParseStatus maps a wire string onto the closed status set.
func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusOpen, StatusClosed, StatusDone:
		return Status(value), true
	default:
		return "", false
	}
}

// # Core Entities

// Task represents one assignment under a course.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TeacherID   int64     `json:"teacher_id"`
	CourseID    int64     `json:"course_id"`
	Status      Status    `json:"status"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID implements the ownership contract used by the authorization guard.
func (t *Task) OwnerID() int64 { return t.TeacherID }

// AcceptsSubmissions reports whether the task is open for new submissions.
func (t *Task) AcceptsSubmissions() bool { return t.Status == StatusOpen }

// DeadlinePassed reports whether the given instant is past the deadline.
// A submission landing exactly on the deadline still counts as on time.
func (t *Task) DeadlinePassed(at time.Time) bool { return at.After(t.Deadline) }

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCourseID    = "course_id"
	FieldStatus      = "status"
	FieldDeadline    = "deadline"
	FieldMessage     = "message"
)
