package rest

import (
	"encoding/json"
	"net/http"

	"mailauth/internal/domain"
	"mailauth/internal/logger"
)

type MailHandler struct {
	dispatcher domain.MailDispatcher
	log        logger.Logger
}

func NewMailHandler(dispatcher domain.MailDispatcher, log logger.Logger) *MailHandler {
	return &MailHandler{
		dispatcher: dispatcher,
		log:        log,
	}
}

func (h *MailHandler) Send(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.SendMailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	msg := domain.MailMessage{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Message,
	}

	if err := h.dispatcher.Send(r.Context(), msg); err != nil {
		h.log.Error("mail: send failed", "to", req.To, "error", err)
		JSON(w, http.StatusOK, StatusResponse{
			Status:  string(domain.StatusFailed),
			Message: "An error occurred while sending the message",
		})
		return
	}

	JSON(w, http.StatusOK, StatusResponse{
		Status:  string(domain.StatusSuccess),
		Message: "Message sent successfully",
	})
}
