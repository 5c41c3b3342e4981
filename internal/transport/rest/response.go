package rest

import (
	"encoding/json"
	"net/http"

	"mailauth/internal/domain"
)

type APIResponse struct {
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// StatusResponse is the reset-flow and sendmail payload shape.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func JSONSuccess(w http.ResponseWriter, code int, res APIResponse) {
	JSON(w, code, res)
}

func JSONError(w http.ResponseWriter, code int, message string) {
	JSON(w, code, APIResponse{Message: message})
}

func JSONValidationError(w http.ResponseWriter, errors map[string]string) {
	JSON(w, http.StatusBadRequest, APIResponse{
		Message: "Validation failed",
		Errors:  errors,
	})
}

// JSONOutcome maps a reset-flow outcome to the historic response shape.
// Every outcome answers 200; the status field carries the result.
func JSONOutcome(w http.ResponseWriter, outcome domain.ResetOutcome) {
	JSON(w, http.StatusOK, StatusResponse{
		Status:  string(outcome.Status),
		Message: outcome.Message,
	})
}
