package jobs

import (
	"cloudrental-backend/internal/config"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	userRepo   repository.UserRepository
	rentalRepo repository.RentalRepository
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(userRepo repository.UserRepository, rentalRepo repository.RentalRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		userRepo:   userRepo,
		rentalRepo: rentalRepo,
		config:     cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllReports runs every report job once (for manual execution)
func (jr *JobRunner) RunAllReports() {
	jr.ReportNegativeBalances()
	jr.ReportOverdueRentals()
}
