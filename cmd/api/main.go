package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"coinconductor/internal/config"
	"coinconductor/internal/database"
	"coinconductor/internal/handlers"
	"coinconductor/internal/logger"
	"coinconductor/internal/middleware"
	"coinconductor/internal/scheduler"
	"coinconductor/internal/services"
	"coinconductor/internal/validator"
)

// @title           CoinConductor API
// @version         1.0
// @description     CoinConductor is an envelope-budgeting backend with AI-assisted transaction categorization and bank synchronization.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager and run migrations
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	httpClient := &http.Client{Timeout: 60 * time.Second}

	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	bankAccountService := services.NewBankAccountService(db)
	categorizeService, err := services.NewCategorizeService(db, cfg, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create categorize service: %w", err)
	}
	transactionService := services.NewTransactionService(db, categorizeService)
	syncService := services.NewSyncService(db, cfg, httpClient)

	authenticator := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTExpirationDur)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, authenticator)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	bankAccountHandler := handlers.NewBankAccountHandler(bankAccountService)
	aiHandler := handlers.NewAIHandler(categorizeService)
	syncHandler := handlers.NewSyncHandler(syncService, cfg.WebhookSecret)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Token)

	// The webhook authenticates itself with an HMAC body signature.
	api.POST("/sync/webhook", syncHandler.Webhook)

	// Protected routes
	protected := api.Group("/")
	protected.Use(authenticator.Middleware())

	// User profile
	users := protected.Group("/users")
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)

	// Envelope categories
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	// Transactions
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Budget periods and allocations
	budget := protected.Group("/budget")
	budget.POST("/periods", budgetHandler.CreatePeriod)
	budget.GET("/periods", budgetHandler.ListPeriods)
	budget.GET("/periods/current", budgetHandler.GetCurrentPeriod)
	budget.POST("/periods/monthly", budgetHandler.CreateMonthlyPeriod)
	budget.GET("/periods/:id", budgetHandler.GetPeriod)
	budget.PUT("/periods/:id", budgetHandler.UpdatePeriod)
	budget.DELETE("/periods/:id", budgetHandler.DeletePeriod)
	budget.POST("/allocations", budgetHandler.CreateAllocation)
	budget.PUT("/allocations/:id", budgetHandler.UpdateAllocation)
	budget.DELETE("/allocations/:id", budgetHandler.DeleteAllocation)

	// Bank accounts and sync
	bankAccounts := protected.Group("/bank-accounts")
	bankAccounts.POST("", bankAccountHandler.Create)
	bankAccounts.GET("", bankAccountHandler.List)
	bankAccounts.GET("/:id", bankAccountHandler.Get)
	bankAccounts.PUT("/:id", bankAccountHandler.Update)
	bankAccounts.DELETE("/:id", bankAccountHandler.Delete)
	protected.POST("/sync/bank-accounts/:id", syncHandler.TriggerSync)

	// AI categorization
	ai := protected.Group("/ai")
	ai.POST("/categorize", aiHandler.Categorize)
	ai.POST("/bulk-categorize", aiHandler.BulkCategorize)

	// Background sweep over uncategorized transactions
	sweep := scheduler.New("categorize-sweep", cfg.SweepInterval, categorizeService.SweepUncategorized, log)
	sweep.Start()
	defer sweep.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting CoinConductor backend server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
