package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/pipeline"
	"github.com/abdulachik/redditcompat/internal/provider"
)

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successResponse{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Status: "error",
		Error: errorPayload{
			Code:      code,
			Message:   message,
			RequestID: middleware.GetReqID(r.Context()),
		},
	})
}

// mapError converts an analysis error to an HTTP status and error code.
// Order matters: ErrUserNotFound also matches ErrFetch.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, provider.ErrConfiguration):
		return http.StatusBadRequest, "configuration_error"
	case errors.Is(err, corpus.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, pipeline.ErrEmptyCorpus):
		return http.StatusUnprocessableEntity, "empty_corpus"
	case errors.Is(err, corpus.ErrFetch):
		return http.StatusBadGateway, "fetch_failed"
	case errors.Is(err, provider.ErrAuthentication):
		return http.StatusServiceUnavailable, "provider_not_configured"
	case errors.Is(err, provider.ErrDependency):
		return http.StatusServiceUnavailable, "provider_unavailable"
	case errors.Is(err, provider.ErrGeneration):
		return http.StatusBadGateway, "generation_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
