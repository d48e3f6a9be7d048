package api

import (
	"encoding/json"
	"errors"
	"net/http"

	kberr "github.com/amterp/kanboard/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var notFound *kberr.NotFoundError
	var validation *kberr.ValidationError
	var locked *kberr.LockedError
	var storage *kberr.StorageError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &locked):
		status = http.StatusConflict
	case errors.As(err, &storage):
		status = http.StatusServiceUnavailable
	}

	JSON(w, status, map[string]string{"error": message})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// Forbidden writes a 403 error with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	JSON(w, http.StatusForbidden, map[string]string{"error": message})
}
