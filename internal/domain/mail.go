package domain

import "context"

type MailMessage struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// MailDispatcher hands a message to the external relay. One attempt per
// call, no retries.
type MailDispatcher interface {
	Send(ctx context.Context, msg MailMessage) error
}

type SendMailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}
