package models

import (
	"time"
)

type Assignment struct {
	ID                     string    `json:"id" db:"id"`
	ClassID                string    `json:"class_id" db:"class_id"`
	Title                  string    `json:"title" db:"title"`
	Description            string    `json:"description" db:"description"`
	DueDate                time.Time `json:"due_date" db:"due_date"`
	RequiresFileSubmission bool      `json:"requires_file_submission" db:"requires_file_submission"`
	CreatedBy              string    `json:"created_by" db:"created_by"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}

type AssignmentWithStats struct {
	Assignment
	TotalSubmissions int `json:"total_submissions" db:"total_submissions"`
}
