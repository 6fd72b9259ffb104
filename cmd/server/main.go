package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resident-request-service/internal/infrastructure/auth"
	"resident-request-service/internal/infrastructure/config"
	"resident-request-service/internal/infrastructure/oauth"
	"resident-request-service/internal/infrastructure/persistence"
	mongoRepo "resident-request-service/internal/interface/repository"
	"resident-request-service/internal/interface/rest"
	"resident-request-service/internal/usecase"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Resident Request Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up metrics
	m := metrics.NewMetrics(cfg.ServiceName)

	// Set up repositories
	residentRepo := mongoRepo.NewMongoResidentRepository(db)
	notificationRepo := mongoRepo.NewMongoNotificationRepository(db, log)
	placesRepo := mongoRepo.NewGooglePlacesRepository(
		cfg.PlacesBaseURL,
		cfg.PlacesAPIKey,
		cfg.PlacesRateRPS,
		cfg.PlacesRateBurst,
		log,
		m,
	)

	// Set up field-service vendor client
	fieldServiceOAuth := oauth.NewFieldServiceOAuth(
		cfg.FieldServiceTokenURL,
		cfg.FieldServiceClientID,
		cfg.FieldServiceSecret,
		cfg.FieldServiceStaticToken,
		log,
	)
	fieldServiceClient := fieldServiceOAuth.HTTPClient(ctx, cfg.FieldServiceTimeout)
	fieldServiceRepo := mongoRepo.NewHTTPFieldServiceRepository(cfg.FieldServiceBaseURL, fieldServiceClient, log)

	// Set up usecases
	catalog := usecase.NewCatalogService(fieldServiceRepo, cfg.CatalogTTL, log)
	drafts := usecase.NewDraftService(residentRepo, placesRepo, cfg.SuggestDebounce, cfg.DraftIdleTTL, log)
	vehicles := usecase.NewVehicleService(residentRepo, cfg.AutosaveDebounce, cfg.VehicleLimit, log, m)
	orchestrator := usecase.NewSubmissionOrchestrator(fieldServiceRepo, catalog, log, m)
	hub := usecase.NewNotificationHub(notificationRepo, cfg.FeedLimit, log, m)

	// Warm the service catalog so the first draft doesn't pay the fetch
	go catalog.Warm(ctx)

	// Evict drafts abandoned past the idle TTL
	go drafts.StartSweeper(ctx)

	// Set up HTTP server
	verifier := auth.NewVerifier(cfg.JWTSecret)
	router := rest.NewRouter(
		verifier,
		rest.NewDraftHandler(drafts, vehicles, orchestrator, catalog, log),
		rest.NewVehicleHandler(vehicles, log),
		rest.NewNotificationHandler(hub, log),
		log,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// Flush pending vehicle edits and close notification streams
	vehicles.FlushAll()
	hub.StopAll()

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Resident Request Service stopped")
}
