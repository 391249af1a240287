package httpd

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/classboard/classwork-service/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile header is required")
		return
	}
	if !ident.isCR() {
		writeError(w, http.StatusForbidden, "only class representatives can create classes")
		return
	}

	var req models.CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.ClassCode == "" {
		writeError(w, http.StatusBadRequest, "name and class_code are required")
		return
	}

	class, err := h.classService.Create(r.Context(), &req, ident.ProfileID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create class")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, class)
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("code"); code != "" {
		class, err := h.classService.GetByCode(r.Context(), code)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, class)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	classes, total, err := h.classService.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list classes")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"classes": classes,
		"total":   total,
	})
}

func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "class_id")

	class, err := h.classService.GetByID(r.Context(), classID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, class)
}
