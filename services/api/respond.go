package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"farmbot-backend/services/farm"
)

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// envelope is the wire shape of every REST response. Exactly one of Data
// and Error is set.
type envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *errorBody `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(w http.ResponseWriter, err error) {
	status := farm.StatusOf(err)
	writeJSON(w, status, envelope{
		Success: false,
		Error: &errorBody{
			Code:       string(farm.CodeOf(err)),
			Message:    err.Error(),
			StatusCode: status,
		},
		Timestamp: time.Now().UTC(),
	})
}

func respondValidation(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Error: &errorBody{
			Code:       string(farm.CodeValidation),
			Message:    message,
			StatusCode: http.StatusBadRequest,
		},
		Timestamp: time.Now().UTC(),
	})
}
