package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/pokernight/internal/service"
	"github.com/mmynk/pokernight/internal/storage"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service or storage error to a response.
func writeServiceError(w http.ResponseWriter, err error) {
	status := mapError(err)
	switch status {
	case http.StatusNotFound:
		writeError(w, status, "not_found", err.Error())
	case http.StatusBadRequest:
		writeError(w, status, "invalid_request", err.Error())
	default:
		slog.Error("Unhandled error", "error", err)
		writeError(w, status, "internal_error", "internal server error")
	}
}

// mapError maps domain errors to HTTP status codes.
func mapError(err error) int {
	switch {
	case errors.Is(err, storage.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrBuyInNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMissingGameName):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNameTooLong):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a bounded request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}

// int64Param reads a numeric URL parameter, answering 400 when malformed.
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}
