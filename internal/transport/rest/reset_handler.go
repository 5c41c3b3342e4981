package rest

import (
	"encoding/json"
	"net/http"

	"mailauth/internal/domain"
)

type ResetHandler struct {
	svc domain.PasswordResetService
}

func NewResetHandler(svc domain.PasswordResetService) *ResetHandler {
	return &ResetHandler{svc: svc}
}

func (h *ResetHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	JSONOutcome(w, h.svc.RequestReset(r.Context(), req))
}

func (h *ResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	JSONOutcome(w, h.svc.ResetPassword(r.Context(), req))
}
