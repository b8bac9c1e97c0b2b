package utils

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err as {error, details}. Details are only exposed when
// showDetails is set (development mode).
func WriteError(w http.ResponseWriter, err error, showDetails bool) *AppError {
	appErr := AsAppError(err)
	body := errorBody{Error: appErr.Message}
	if showDetails {
		body.Details = appErr.Details()
	}
	_ = WriteJSON(w, appErr.StatusCode, body)
	return appErr
}
