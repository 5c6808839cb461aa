package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiendanova/pos-api/internal/application/ledger"
	"github.com/tiendanova/pos-api/internal/application/service"
	"github.com/tiendanova/pos-api/internal/config"
	"github.com/tiendanova/pos-api/internal/infrastructure/database"
	"github.com/tiendanova/pos-api/internal/infrastructure/repository"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/internal/presentation/http/handler"
	"github.com/tiendanova/pos-api/internal/presentation/http/routes"
	"github.com/tiendanova/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize structured logger
	var logger *zap.Logger
	var err error
	if cfg.App.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Initialize the ledger and one terminal per operator
	ledgerService := ledger.NewService(db, logger, cfg.Sales.TaxRate)
	terminals := pos.NewRegistry(ledgerService)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, logger)
	catalogService := service.NewCatalogService(storeRepo, productRepo, customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Session: handler.NewSessionHandler(terminals),
		Cart:    handler.NewCartHandler(terminals, ledgerService),
		Invoice: handler.NewInvoiceHandler(terminals, ledgerService),
		Report:  handler.NewReportHandler(terminals),
		Catalog: handler.NewCatalogHandler(catalogService, ledgerService, terminals),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Logger:     logger,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
