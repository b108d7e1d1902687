package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"cloudrental-backend/internal/config"
	"cloudrental-backend/internal/jobs"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
	"cloudrental-backend/internal/repository/memory"
	"cloudrental-backend/internal/repository/postgres"
	"cloudrental-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'report-negative-balances', 'all')")
	flag.Parse()

	// Load .env, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting cloud rental cronjob runner...", "store", cfg.Store.Type, "log_level", cfg.Log.Level)

	// The report jobs only make sense against a persistent store; the
	// in-memory store would always be empty in a fresh process.
	var userRepo repository.UserRepository
	var rentalRepo repository.RentalRepository
	if cfg.Store.Type == "postgres" {
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")
		st := postgres.NewStore(db)
		userRepo, rentalRepo = st.UserRepository, st.RentalRepository
	} else {
		logger.Warn("Running against the in-memory store, reports will be empty")
		st := memory.NewStore()
		userRepo, rentalRepo = st.UserRepository, st.RentalRepository
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(userRepo, rentalRepo, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "report-negative-balances":
		jobRunner.ReportNegativeBalances()
	case "report-overdue-rentals":
		jobRunner.ReportOverdueRentals()
	case "all":
		jobRunner.RunAllReports()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - report-negative-balances\n")
		fmt.Printf("  - report-overdue-rentals\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
