package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can create assignments")
		return
	}

	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.DueDate.IsZero() {
		writeError(w, http.StatusBadRequest, "due_date is required")
		return
	}

	classID := chi.URLParam(r, "class_id")
	assignment, err := h.assignmentService.Create(r.Context(), classID, ident.ProfileID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to create assignment")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "class_id")

	assignments, err := h.assignmentService.GetByClassID(r.Context(), classID)
	if err != nil {
		h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to list assignments")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assignments)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignment_id")

	assignment, err := h.assignmentService.GetByID(r.Context(), assignmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can delete assignments")
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	if err := h.teardownService.DeleteAssignment(r.Context(), assignmentID); err != nil {
		h.logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to delete assignment")
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "assignment deleted")
}
