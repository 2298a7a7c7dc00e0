// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package submission manages student work handed in against tasks.

A submission is owned by the student who handed it in. Each student may
hand in at most one submission per task; the hand-in instant is compared
against the task deadline to stamp the submission as on time or late.

Review decisions (approve/reject) belong to the teacher who owns the
task, not to the submitting student.
*/
package submission

import (
	"time"
)

// # Status Enumeration

// Status represents the review state of a submission.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus maps a wire string onto the closed status set.
func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(value), true
	default:
		return "", false
	}
}

// # Timeliness

// Timeliness records whether the work arrived before the task deadline.
type Timeliness string

const (
	InTime Timeliness = "IN_TIME"
	Late   Timeliness = "LATE"
)

// # Core Entities

// Submission represents one piece of student work against a task.
type Submission struct {
	ID            int64      `json:"id"`
	StudentID     int64      `json:"student_id"`
	TaskID        int64      `json:"task_id"`
	Content       string     `json:"content"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	Status        Status     `json:"status"`
	Timeliness    Timeliness `json:"timeliness"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OwnerID implements the ownership contract used by the authorization guard.
func (s *Submission) OwnerID() int64 { return s.StudentID }

// # Field Identifiers

const (
	FieldTaskID        = "task_id"
	FieldContent       = "content"
	FieldAttachmentURL = "attachment_url"
	FieldStatus        = "status"
	FieldMessage       = "message"
)
