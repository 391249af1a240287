package models

import (
	"time"
)

type Submission struct {
	ID           string    `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	ProfileID    string    `json:"profile_id" db:"profile_id"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
}

type SubmissionFile struct {
	ID           string    `json:"id" db:"id"`
	SubmissionID string    `json:"submission_id" db:"submission_id"`
	FilePath     string    `json:"file_path" db:"file_path"`
	FileName     string    `json:"file_name" db:"file_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type SubmissionWithFiles struct {
	Submission
	Files []SubmissionFile `json:"files"`
}
