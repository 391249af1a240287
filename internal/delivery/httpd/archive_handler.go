package httpd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) BuildArchive(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can build archives")
		return
	}

	var req models.BuildArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	archive, err := h.archiveService.BuildArchive(r.Context(), req.Keys, req.OutputName)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build archive")
		writeServiceError(w, err)
		return
	}

	h.writeArchive(w, archive)
}

func (h *Handler) BuildSubmissionArchive(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can build archives")
		return
	}

	submissionID := chi.URLParam(r, "submission_id")
	archive, err := h.archiveService.BuildSubmissionArchive(r.Context(), submissionID)
	if err != nil {
		h.logger.Error().Err(err).Str("submission_id", submissionID).Msg("Failed to build submission archive")
		writeServiceError(w, err)
		return
	}

	h.writeArchive(w, archive)
}

func (h *Handler) BuildAssignmentArchive(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can build archives")
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	archive, err := h.archiveService.BuildAssignmentArchive(r.Context(), assignmentID)
	if err != nil {
		h.logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to build assignment archive")
		writeServiceError(w, err)
		return
	}

	h.writeArchive(w, archive)
}

func (h *Handler) writeArchive(w http.ResponseWriter, archive *models.ArchiveResponse) {
	w.Header().Set("Content-Type", archive.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(archive.Content)
}
