package models

type AnnouncementCreatedEvent struct {
	AnnouncementID string `json:"announcement_id"`
	ClassID        string `json:"class_id"`
	ProfileID      string `json:"profile_id"`
	Timestamp      int64  `json:"timestamp"`
}

type AssignmentCreatedEvent struct {
	AssignmentID string `json:"assignment_id"`
	ClassID      string `json:"class_id"`
	Title        string `json:"title"`
	DueDate      int64  `json:"due_date"`
	Timestamp    int64  `json:"timestamp"`
}

type SubmissionReceivedEvent struct {
	SubmissionID  string `json:"submission_id"`
	AssignmentID  string `json:"assignment_id"`
	ProfileID     string `json:"profile_id"`
	AttachedFiles int    `json:"attached_files"`
	Timestamp     int64  `json:"timestamp"`
}

type AssignmentDeletedEvent struct {
	AssignmentID string `json:"assignment_id"`
	ClassID      string `json:"class_id"`
	DeletedBlobs int    `json:"deleted_blobs"`
	Timestamp    int64  `json:"timestamp"`
}
