package models

import "time"

// Data Transfer Objects

type CreateClassRequest struct {
	Name      string `json:"name"`
	ClassCode string `json:"class_code"`
	Section   string `json:"section"`
}

type CreateAnnouncementRequest struct {
	Content string `json:"content"`
}

type CreateAssignmentRequest struct {
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	DueDate                time.Time `json:"due_date"`
	RequiresFileSubmission bool      `json:"requires_file_submission"`
}

// FileUpload — один файл из multipart-формы, уже прочитанный в память.
type FileUpload struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"-"`
}

type FileFailure struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

type AttachResult struct {
	SubmissionID string           `json:"submission_id"`
	Attached     []SubmissionFile `json:"attached"`
	Failed       []FileFailure    `json:"failed,omitempty"`
}

type BuildArchiveRequest struct {
	Keys       []string `json:"keys"`
	OutputName string   `json:"output_name"`
}

type ArchiveResponse struct {
	Content     []byte `json:"-"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}
