// Package reset implements the password reset workflow: issuing emailed
// reset tokens and consuming them to replace a user's password.
package reset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mailauth/internal/domain"
	"mailauth/internal/logger"
)

type Service struct {
	users  domain.UserRepository
	resets domain.PasswordResetRepository
	hasher domain.PasswordHasher
	mailer domain.MailDispatcher
	log    logger.Logger
}

func NewService(
	users domain.UserRepository,
	resets domain.PasswordResetRepository,
	hasher domain.PasswordHasher,
	mailer domain.MailDispatcher,
	log logger.Logger,
) *Service {
	return &Service{
		users:  users,
		resets: resets,
		hasher: hasher,
		mailer: mailer,
		log:    log,
	}
}

func failed(reason domain.ResetReason, message string) domain.ResetOutcome {
	return domain.ResetOutcome{Status: domain.StatusFailed, Reason: reason, Message: message}
}

// RequestReset issues a fresh reset token for the account behind email.
// Any previously issued record for the user is purged first, so at most
// one record is live per user. The plaintext token leaves the process
// only inside the emailed link; the store keeps its hash.
func (s *Service) RequestReset(ctx context.Context, req domain.RequestResetRequest) domain.ResetOutcome {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Historic behavior: a soft failure payload, not an HTTP error.
			return failed(domain.ReasonUserNotFound, "No account with the email provided exists")
		}
		s.log.Error("reset: user lookup failed", "email", req.Email, "error", err)
		return failed(domain.ReasonLookupFailed, "An error occurred while checking for existing user")
	}

	// The uuid carries the entropy; the user id is appended only to make
	// the string unique across users.
	token := uuid.NewString() + user.ID

	if err := s.resets.DeleteByUser(ctx, user.ID); err != nil {
		s.log.Error("reset: clearing existing records failed", "user_id", user.ID, "error", err)
		return failed(domain.ReasonPurgeFailed, "Clearing existing password reset records failed")
	}

	hashedToken, err := s.hasher.Hash(token)
	if err != nil {
		s.log.Error("reset: hashing token failed", "user_id", user.ID, "error", err)
		return failed(domain.ReasonHashFailed, "An error occurred while hashing the password reset data")
	}

	now := time.Now()
	record := &domain.PasswordReset{
		UserID:      user.ID,
		ResetString: hashedToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(domain.ResetTTL),
	}

	if err := s.resets.Create(ctx, record); err != nil {
		s.log.Error("reset: saving record failed", "user_id", user.ID, "error", err)
		return failed(domain.ReasonStoreFailed, "Couldn't save password reset data")
	}

	msg := domain.MailMessage{
		To:      user.Email,
		Subject: "Password Reset",
		Body:    resetEmailBody(req.RedirectURL, user.ID, token),
		HTML:    true,
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("reset: sending email failed", "user_id", user.ID, "error", err)
		return failed(domain.ReasonMailFailed, "Password reset email failed")
	}

	return domain.ResetOutcome{
		Status:  domain.StatusPending,
		Message: "Password reset email sent",
	}
}

// ResetPassword consumes a reset token. The record is deleted only after
// the password update is confirmed; a mismatching token leaves the record
// in place so the user can retry until expiry.
func (s *Service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) domain.ResetOutcome {
	record, err := s.resets.GetByUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrResetNotFound) {
			return failed(domain.ReasonNotFound, "Password reset request not found")
		}
		s.log.Error("reset: record lookup failed", "user_id", req.UserID, "error", err)
		return failed(domain.ReasonLookupFailed, "Checking for existing password reset record failed")
	}

	if record.IsExpired() {
		if err := s.resets.DeleteByUser(ctx, req.UserID); err != nil {
			s.log.Error("reset: clearing expired record failed", "user_id", req.UserID, "error", err)
			return failed(domain.ReasonPurgeFailed, "Clearing password reset record failed")
		}
		return failed(domain.ReasonExpired, "Password reset link has expired")
	}

	valid, err := s.hasher.Verify(req.ResetString, record.ResetString)
	if err != nil {
		s.log.Error("reset: comparing token failed", "user_id", req.UserID, "error", err)
		return failed(domain.ReasonCompareFailed, "Comparing password reset string failed")
	}
	if !valid {
		// Record stays live so a mistyped token can be retried until expiry.
		return failed(domain.ReasonInvalidToken, "Invalid password reset details passed")
	}

	hashedPwd, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.log.Error("reset: hashing new password failed", "user_id", req.UserID, "error", err)
		return failed(domain.ReasonHashFailed, "An error occurred while hashing the new password")
	}

	if err := s.users.UpdatePassword(ctx, req.UserID, hashedPwd); err != nil {
		// The record must survive an update failure, otherwise the user is
		// locked out with no valid reset path.
		s.log.Error("reset: updating password failed", "user_id", req.UserID, "error", err)
		return failed(domain.ReasonUpdateFailed, "Updating user password failed")
	}

	if err := s.resets.DeleteByUser(ctx, req.UserID); err != nil {
		// The password change is already committed; only the cleanup failed.
		s.log.Error("reset: finalizing failed", "user_id", req.UserID, "error", err)
		return domain.ResetOutcome{
			Status:  domain.StatusSuccess,
			Reason:  domain.ReasonFinalizeFail,
			Message: "Password has been reset, but clearing the reset record failed",
		}
	}

	return domain.ResetOutcome{
		Status:  domain.StatusSuccess,
		Message: "Password has been reset successfully",
	}
}

func resetEmailBody(redirectURL, userID, token string) string {
	link := fmt.Sprintf("%s/%s/%s", redirectURL, userID, token)
	return fmt.Sprintf(
		"<p>We heard that you lost the password.</p>"+
			"<p>Don't worry, use the link below to reset it.</p>"+
			"<p>This link <b>expires in 60 minutes</b>.</p>"+
			"<p>Press <a href=%q>here</a> to proceed.</p>",
		link,
	)
}
