package domain

import (
	"context"
	"errors"
	"time"
)

var ErrResetNotFound = errors.New("password reset record not found")

// ResetTTL is the validity window of a reset token.
const ResetTTL = time.Hour

// PasswordReset is the ephemeral record backing one reset request.
// ResetString holds the one-way hash of the emailed token, never the
// plaintext.
type PasswordReset struct {
	ID          string
	UserID      string
	ResetString string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (r *PasswordReset) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

type ResetStatus string

const (
	StatusSuccess ResetStatus = "SUCCESS"
	StatusPending ResetStatus = "PENDING"
	StatusFailed  ResetStatus = "FAILED"
)

// ResetReason distinguishes every terminal condition of the reset flow.
type ResetReason string

const (
	ReasonNone          ResetReason = ""
	ReasonUserNotFound  ResetReason = "user_not_found"
	ReasonLookupFailed  ResetReason = "lookup_failed"
	ReasonPurgeFailed   ResetReason = "purge_failed"
	ReasonHashFailed    ResetReason = "hash_failed"
	ReasonStoreFailed   ResetReason = "store_failed"
	ReasonMailFailed    ResetReason = "mail_failed"
	ReasonNotFound      ResetReason = "not_found"
	ReasonExpired       ResetReason = "expired"
	ReasonCompareFailed ResetReason = "compare_failed"
	ReasonInvalidToken  ResetReason = "invalid_token"
	ReasonUpdateFailed  ResetReason = "update_failed"
	ReasonFinalizeFail  ResetReason = "finalize_failed"
)

type ResetOutcome struct {
	Status  ResetStatus
	Reason  ResetReason
	Message string
}

type RequestResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	RedirectURL string `json:"redirectUrl" validate:"required,url"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"userId" validate:"required"`
	ResetString string `json:"resetString" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *PasswordReset) error
	GetByUser(ctx context.Context, userID string) (*PasswordReset, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PasswordResetService interface {
	RequestReset(ctx context.Context, req RequestResetRequest) ResetOutcome
	ResetPassword(ctx context.Context, req ResetPasswordRequest) ResetOutcome
}
