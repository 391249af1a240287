package httpd

import (
	"io"
	"net/http"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	uploads := make([]models.FileUpload, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to open uploaded file")
			return
		}

		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		uploads = append(uploads, models.FileUpload{
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Content:  content,
		})
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	result, err := h.submissionService.AttachFiles(r.Context(), assignmentID, ident.ProfileID, uploads)
	if err != nil {
		h.logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to attach files")
		writeServiceError(w, err)
		return
	}

	// Частичный успех: принятые файлы сохранены, отказавшие перечислены.
	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}

	writeJSON(w, status, result)
}

func (h *Handler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	submission, err := h.submissionService.MarkComplete(r.Context(), assignmentID, ident.ProfileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

func (h *Handler) GetMySubmission(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	submission, err := h.submissionService.GetForStudent(r.Context(), assignmentID, ident.ProfileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can view all submissions")
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	submissions, err := h.submissionService.ListByAssignment(r.Context(), assignmentID)
	if err != nil {
		h.logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to list submissions")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissions)
}

func (h *Handler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}

	fileID := chi.URLParam(r, "file_id")
	if err := h.submissionService.RemoveFile(r.Context(), fileID, ident.ProfileID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "file removed")
}
