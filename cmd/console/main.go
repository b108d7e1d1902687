package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"cloudrental-backend/internal/clock"
	"cloudrental-backend/internal/config"
	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/identity"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
	"cloudrental-backend/internal/repository/memory"
	"cloudrental-backend/internal/repository/postgres"
	"cloudrental-backend/internal/security"
	"cloudrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting cloud rental console...", "store", cfg.Store.Type, "log_level", cfg.Log.Level)

	// Initialize store
	userRepo, resourceRepo, rentalRepo, billRepo := buildStore(cfg)

	// Initialize services
	ids := identity.NewGenerator()
	clk := clock.System()
	tokens := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.SessionExpiryMinutes)*time.Minute)

	authSvc := service.NewAuthService(userRepo, tokens, ids)
	directorySvc := service.NewDirectoryService(userRepo, ids)
	catalogSvc := service.NewCatalogService(resourceRepo, rentalRepo, ids, clk)
	rentalSvc := service.NewRentalService(rentalRepo, resourceRepo, userRepo, ids, clk)
	billingSvc := service.NewBillingService(billRepo, rentalRepo, resourceRepo, userRepo, ids, clk)

	if err := runWalkthrough(authSvc, directorySvc, catalogSvc, rentalSvc, billingSvc); err != nil {
		log.Fatalf("Walkthrough failed: %v", err)
	}
}

func buildStore(cfg *config.Config) (repository.UserRepository, repository.ResourceRepository, repository.RentalRepository, repository.BillRepository) {
	if cfg.Store.Type == "postgres" {
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")
		st := postgres.NewStore(db)
		return st.UserRepository, st.ResourceRepository, st.RentalRepository, st.BillRepository
	}

	logger.Info("Using in-memory store")
	st := memory.NewStore()
	return st.UserRepository, st.ResourceRepository, st.RentalRepository, st.BillRepository
}

// runWalkthrough scripts the full rental lifecycle: registration,
// catalog setup, request, approval, completion and settlement.
func runWalkthrough(
	authSvc service.AuthService,
	directorySvc service.DirectoryService,
	catalogSvc service.CatalogService,
	rentalSvc service.RentalService,
	billingSvc service.BillingService,
) error {
	ctx := context.Background()

	// Accounts
	if _, err := authSvc.Register(ctx, "admin01", "admin-secret-pw", domain.UserRoleAdmin, "Sys Admin"); err != nil {
		return err
	}
	if _, err := authSvc.Register(ctx, "alice", "alice-secret-pw", domain.UserRoleStudent, "Alice Ampere"); err != nil {
		return err
	}
	if _, err := authSvc.Register(ctx, "bob", "bob-secret-pw", domain.UserRoleTeacher, "Bob Babbage"); err != nil {
		return err
	}

	adminToken, _, err := authSvc.Login(ctx, "admin01", "admin-secret-pw")
	if err != nil {
		return err
	}
	admin, err := authSvc.Authenticate(ctx, adminToken)
	if err != nil {
		return err
	}

	// Starting balances: Alice $50.00, Bob $15.00
	if _, err := directorySvc.ModifyUser(ctx, admin, "alice", "Alice Ampere", domain.UserRoleStudent, domain.UserStatusActive, 5000); err != nil {
		return err
	}
	if _, err := directorySvc.ModifyUser(ctx, admin, "bob", "Bob Babbage", domain.UserRoleTeacher, domain.UserStatusActive, 1500); err != nil {
		return err
	}

	// Catalog
	cpu, err := catalogSvc.AddResource(ctx, admin, domain.ResourceTypeCompute, "General Compute 1",
		map[string]string{"cores": "8", "memory": "32GB"}, 1000) // $10.00/hr
	if err != nil {
		return err
	}
	gpu, err := catalogSvc.AddResource(ctx, admin, domain.ResourceTypeAccelerator, "Training GPU 1",
		map[string]string{"vram": "24GB"}, 2500) // $25.00/hr
	if err != nil {
		return err
	}

	// Alice rents the compute node for 2 hours: $20.00 on completion.
	aliceToken, _, err := authSvc.Login(ctx, "alice", "alice-secret-pw")
	if err != nil {
		return err
	}
	alicePrincipal, err := authSvc.Authenticate(ctx, aliceToken)
	if err != nil {
		return err
	}
	aliceRental, err := rentalSvc.SubmitRequest(ctx, alicePrincipal, cpu.ID, 2)
	if err != nil {
		return err
	}
	if _, err := rentalSvc.Approve(ctx, admin, aliceRental.ID); err != nil {
		return err
	}
	aliceBill, err := billingSvc.CompleteRental(ctx, aliceRental.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Alice settled rental %s: $%.2f (paid=%v)\n", aliceBill.RentalID, float64(aliceBill.AmountCents)/100, aliceBill.Paid)

	// Bob rents the GPU for 1 hour: $25.00 against a $15.00 balance,
	// driving it negative.
	bobToken, _, err := authSvc.Login(ctx, "bob", "bob-secret-pw")
	if err != nil {
		return err
	}
	bobPrincipal, err := authSvc.Authenticate(ctx, bobToken)
	if err != nil {
		return err
	}
	bobRental, err := rentalSvc.SubmitRequest(ctx, bobPrincipal, gpu.ID, 1)
	if err != nil {
		return err
	}
	if _, err := rentalSvc.Approve(ctx, admin, bobRental.ID); err != nil {
		return err
	}
	bobBill, err := billingSvc.CompleteRental(ctx, bobRental.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Bob settled rental %s: $%.2f (paid=%v)\n", bobBill.RentalID, float64(bobBill.AmountCents)/100, bobBill.Paid)

	// Bob's negative balance now blocks new requests.
	if _, err := rentalSvc.SubmitRequest(ctx, bobPrincipal, gpu.ID, 1); err != nil {
		fmt.Printf("Bob's follow-up request refused: %v\n", err)
	}

	// Admin overview
	users, err := directorySvc.ListUsers(ctx, admin)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("%-10s role=%-8s status=%-10s balance=$%.2f\n", u.Username, u.Role, u.Status, float64(u.BalanceCents)/100)
	}
	bills, err := billingSvc.ListAll(ctx, admin)
	if err != nil {
		return err
	}
	fmt.Printf("%d bills issued\n", len(bills))
	return nil
}
