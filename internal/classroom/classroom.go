// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package classroom manages classroom rosters and their course catalogs.

A classroom is owned by the teacher who created it and aggregates two
member lists: enrolled students and attached courses.

# Core Responsibility

  - Organization: Defines the [Classroom] entity and its metadata.
  - Roster: Manages student enrollment per classroom.
  - Catalog: Manages which courses a classroom follows.

Mutations follow the platform-wide ownership rule: only the owning teacher
or an admin may change a classroom.
*/
package classroom

import (
	"time"
)

// # Core Entities

// Classroom represents a group of students taught by one teacher.
type Classroom struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeacherID   int64     `json:"teacher_id"`
	StudentIDs  []int64   `json:"student_ids"`
	CourseIDs   []int64   `json:"course_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID implements the ownership contract used by the authorization guard.
func (c *Classroom) OwnerID() int64 { return c.TeacherID }

// HasStudent reports whether the student is already enrolled.
func (c *Classroom) HasStudent(studentID int64) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// HasCourse reports whether the course is already attached.
func (c *Classroom) HasCourse(courseID int64) bool {
	for _, id := range c.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStudentID   = "student_id"
	FieldCourseID    = "course_id"
	FieldMessage     = "message"
)
