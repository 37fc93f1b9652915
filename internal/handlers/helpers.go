package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/financial"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes {"status":"success","data":...} with status 200.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status":  "error",
		"message": message,
	})
}

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	var ve *financial.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case financial.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps err to a status and writes the user-facing message.
// Server errors are logged.
func writeServiceError(w http.ResponseWriter, logger *common.Logger, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error().Err(err).Str("op", op).Msg("request failed")
	}
	WriteError(w, status, financial.UserMessage(err))
}
