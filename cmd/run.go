package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ebubechi-ihediwa/StellarCade/api"
	"github.com/ebubechi-ihediwa/StellarCade/auth"
	"github.com/ebubechi-ihediwa/StellarCade/config"
	"github.com/ebubechi-ihediwa/StellarCade/database"
	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/repository"
	"github.com/ebubechi-ihediwa/StellarCade/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting settlement service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize collaborators
	authorizer := auth.NewContextAuthorizer()
	transferor := auth.NewLoggingTransferor()
	seedVault := auth.NewMemorySeedVault()

	// Initialize services
	log.Println("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory, authorizer, transferor, cfg.DefaultFeeBps)
	gameService := service.NewGameService(uowFactory, authorizer, seedVault, cfg)

	// Store the admin identity and fee schedule on first boot
	if cfg.AdminIdentity != "" {
		if err := ledgerService.Initialize(ctx, cfg.AdminIdentity); err != nil {
			if !errors.Is(err, service.ErrAlreadyInitialized) {
				return fmt.Errorf("failed to initialize ledger: %w", err)
			}
		}
	}

	// Start the HTTP API
	server := api.NewServer(ledgerService, gameService)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("HTTP API listening on %s in %s mode...", cfg.ListenAddr, cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		db.Close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
