package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes err as the response body with its status code.
// Anything that is not an AppError is reported as a system failure.
func WriteJSON(w http.ResponseWriter, err error) {
	appErr, ok := As(err)
	if !ok {
		appErr = NewSystemFailureError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if encErr := json.NewEncoder(w).Encode(appErr); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
	}
}
