// Package workers
package workers

import (
	"context"
	"time"

	"mailauth/internal/domain"
	"mailauth/internal/logger"
)

type Manager struct {
	log logger.Logger

	scheduler *Scheduler
	resets    domain.PasswordResetRepository
}

type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

func NewManager(log logger.Logger, scheduler *Scheduler, resets domain.PasswordResetRepository) *Manager {
	return &Manager{
		log:       log,
		scheduler: scheduler,
		resets:    resets,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.log.Info("worker: manager started")

	m.scheduler.RunByDuration(ctx, 15*time.Minute, &ResetCleanupWorker{
		resets: m.resets,
		log:    m.log,
	})
}
