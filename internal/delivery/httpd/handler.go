package httpd

import (
	"context"

	"github.com/classboard/classwork-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Pinger проверяет доступность базы для readiness-пробы.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	classService        service.ClassService
	announcementService service.AnnouncementService
	assignmentService   service.AssignmentService
	submissionService   service.SubmissionService
	archiveService      service.ArchiveService
	teardownService     service.TeardownService
	pinger              Pinger
	logger              zerolog.Logger
	maxUploadSize       int64
}

func NewHandler(
	classService service.ClassService,
	announcementService service.AnnouncementService,
	assignmentService service.AssignmentService,
	submissionService service.SubmissionService,
	archiveService service.ArchiveService,
	teardownService service.TeardownService,
	pinger Pinger,
	logger zerolog.Logger,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		classService:        classService,
		announcementService: announcementService,
		assignmentService:   assignmentService,
		submissionService:   submissionService,
		archiveService:      archiveService,
		teardownService:     teardownService,
		pinger:              pinger,
		logger:              logger,
		maxUploadSize:       maxUploadSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/classes", func(r chi.Router) {
			r.Post("/", h.CreateClass)
			r.Get("/", h.ListClasses)
			r.Get("/{class_id}", h.GetClass)
			r.Get("/{class_id}/announcements", h.ListAnnouncements)
			r.Post("/{class_id}/announcements", h.CreateAnnouncement)
			r.Get("/{class_id}/assignments", h.ListAssignments)
			r.Post("/{class_id}/assignments", h.CreateAssignment)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Delete("/{announcement_id}", h.DeleteAnnouncement)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/{assignment_id}", h.GetAssignment)
			r.Delete("/{assignment_id}", h.DeleteAssignment)
			r.Get("/{assignment_id}/submissions", h.ListSubmissions)
			r.Post("/{assignment_id}/submissions/files", h.AttachFiles)
			r.Post("/{assignment_id}/submissions/complete", h.MarkComplete)
			r.Get("/{assignment_id}/submissions/mine", h.GetMySubmission)
			r.Get("/{assignment_id}/archive", h.BuildAssignmentArchive)
		})

		r.Route("/submission-files", func(r chi.Router) {
			r.Delete("/{file_id}", h.RemoveFile)
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/{submission_id}/archive", h.BuildSubmissionArchive)
		})

		r.Post("/archives", h.BuildArchive)
	})
}
