package workers

import (
	"context"

	"mailauth/internal/domain"
	"mailauth/internal/logger"
)

// ResetCleanupWorker purges password reset records whose expiry passed
// without the token ever being used.
type ResetCleanupWorker struct {
	resets domain.PasswordResetRepository
	log    logger.Logger
}

func (w *ResetCleanupWorker) Name() string {
	return "reset_cleanup"
}

func (w *ResetCleanupWorker) Run(ctx context.Context) error {
	deleted, err := w.resets.DeleteExpired(ctx)
	if err != nil {
		return err
	}

	if deleted > 0 {
		w.log.Info("worker: purged expired reset records", "count", deleted)
	}

	return nil
}
