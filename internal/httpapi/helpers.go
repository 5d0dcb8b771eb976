package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trivia-api/internal/trivia"
)

const maxBodyBytes = 1 << 20

var errorMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

// fail logs err and answers with the fixed envelope for status. Store faults
// are logged at error level; expected domain outcomes at debug.
func (a *API) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", status, "error", err}
	if errors.Is(err, trivia.ErrStoreFault) {
		a.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		a.logger.DebugContext(r.Context(), "request rejected", attrs...)
	}
	writeError(w, status)
}

func writeError(w http.ResponseWriter, status int) {
	message, ok := errorMessages[status]
	if !ok {
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads exactly one JSON value from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", trivia.ErrInvalidInput)
		}
		return fmt.Errorf("decode request body: %w: %w", trivia.ErrInvalidInput, err)
	}
	return nil
}

func parsePathInt(r *http.Request, key string) (int, error) {
	value := chi.URLParam(r, key)
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q: %w", key, value, trivia.ErrNotFound)
	}
	return parsed, nil
}
