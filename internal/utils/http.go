package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/munch-sync/models"
)

// WriteJSON serializes data to JSON and writes it with statusCode and a
// "Content-Type: application/json" header.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteError writes an API error body of the given type.
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	_, _ = WriteJSON(w, models.APIError{
		Error: models.APIErrorDetail{Type: errorType, Message: message},
	}, statusCode)
}
