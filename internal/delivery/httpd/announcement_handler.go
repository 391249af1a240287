package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can post announcements")
		return
	}

	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	classID := chi.URLParam(r, "class_id")
	announcement, err := h.announcementService.Create(r.Context(), classID, ident.ProfileID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to create announcement")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, announcement)
}

func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "class_id")

	announcements, err := h.announcementService.GetByClassID(r.Context(), classID)
	if err != nil {
		h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to list announcements")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, announcements)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}

	announcementID := chi.URLParam(r, "announcement_id")
	if err := h.announcementService.Delete(r.Context(), announcementID, ident.ProfileID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "announcement deleted")
}
