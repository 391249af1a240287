package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/classboard/classwork-service/internal/service"
)

// Машиночитаемые виды отказов сборки архива.
const (
	FailureKindEmptyRequest = "empty_request"
	FailureKindPartialFetch = "partial_fetch_failure"
	FailureKindInternal     = "internal_error"
)

type errorResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind,omitempty"`
	Step       string   `json:"step,omitempty"`
	FailedKeys []string `json:"failed_keys,omitempty"`
}

type successResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, successResponse{Message: message})
}

// writeServiceError переводит ошибки сервисного слоя в HTTP-статусы.
func writeServiceError(w http.ResponseWriter, err error) {
	var partial *service.PartialFetchError
	var teardown *service.TeardownError

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrClassCodeTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyArchiveRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: err.Error(),
			Kind:  FailureKindEmptyRequest,
		})
	case errors.Is(err, service.ErrFileRequired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrBlobDelete):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &partial):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:      partial.Error(),
			Kind:       FailureKindPartialFetch,
			FailedKeys: partial.Keys,
		})
	case errors.As(err, &teardown):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: teardown.Error(),
			Step:  teardown.Step,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Kind:  FailureKindInternal,
		})
	}
}
