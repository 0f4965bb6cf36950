package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error messages returned to clients
const (
	msgInvalidInput = "Invalid input"
	msgInvalidID    = "Invalid ID supplied"
	msgNotFound     = "Fruit not found"
	msgInternal     = "Oops... Something went wrong :)"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: message}, logger)
}
