package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/sealshop/backend/internal/application/billing"
	inventoryapp "github.com/sealshop/backend/internal/application/inventory"
	partnerapp "github.com/sealshop/backend/internal/application/partner"
	treasuryapp "github.com/sealshop/backend/internal/application/treasury"
	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/infrastructure/auth"
	"github.com/sealshop/backend/internal/infrastructure/config"
	"github.com/sealshop/backend/internal/infrastructure/event"
	"github.com/sealshop/backend/internal/infrastructure/logger"
	"github.com/sealshop/backend/internal/infrastructure/persistence"
	"github.com/sealshop/backend/internal/interfaces/http/handler"
	"github.com/sealshop/backend/internal/interfaces/http/middleware"
	"github.com/sealshop/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting seal shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection, logging through zap
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Initialize repositories
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	bucketRepo := persistence.NewGormBucketRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	historyRepo := persistence.NewGormEditHistoryRepository(db.DB)
	deletedRepo := persistence.NewGormDeletedInvoiceRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)
	treasuryRepo := persistence.NewGormTreasuryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	finishedProductRepo := persistence.NewGormFinishedProductRepository(db.DB)
	localProductRepo := persistence.NewGormLocalProductRepository(db.DB)

	// Domain helpers. The batch repository doubles as the source of issued
	// unit codes, so the generator reads collisions straight from it.
	unitCodes := inventory.NewUnitCodeGenerator(batchRepo)
	allocator := inventory.NewAllocator(batchRepo, log)

	// Initialize application services
	intakeService := inventoryapp.NewIntakeService(batchRepo, bucketRepo, unitCodes, log)
	matchingService := inventoryapp.NewMatchingService(batchRepo, finishedProductRepo, log)
	workOrderService := billingapp.NewWorkOrderService(workOrderRepo, log)
	invoiceService := billingapp.NewInvoiceService(
		invoiceRepo,
		historyRepo,
		deletedRepo,
		treasuryRepo,
		localProductRepo,
		supplierRepo,
		allocator,
		workOrderService,
		log,
	)
	partnerService := partnerapp.NewPartnerService(customerRepo, supplierRepo, treasuryRepo, log)
	treasuryService := treasuryapp.NewTreasuryService(treasuryRepo, invoiceRepo, log)

	// Initialize event bus and inject it into services that publish events
	eventBus := event.NewInMemoryEventBus(log)
	intakeService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)

	// The shop keeps a flat activity trail of everything that moves stock
	// or money. Subscribing a log handler per event type gives that trail
	// without a second storage path.
	auditTrail := shared.EventHandlerFunc(func(_ context.Context, evt shared.DomainEvent) error {
		log.Info("domain event",
			zap.String("type", evt.GetEventType()),
			zap.String("aggregate_id", evt.GetAggregateID().String()),
			zap.Time("occurred_at", evt.GetOccurredAt()),
		)
		return nil
	})
	for _, eventType := range []string{
		inventory.EventBatchReceived,
		inventory.EventBatchConsumed,
		inventory.EventBatchRestored,
		inventory.EventBucketAdjusted,
		billing.EventInvoiceCreated,
		billing.EventInvoicePaid,
		billing.EventInvoiceCancelled,
	} {
		eventBus.Subscribe(eventType, auditTrail)
	}

	// Authentication: token issuing plus the configured operator accounts
	jwtService := auth.NewJWTService(cfg.JWT)
	authenticator, err := auth.NewStaticAuthenticator(cfg.Auth)
	if err != nil {
		log.Fatal("Failed to load operator accounts", zap.Error(err))
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authenticator, jwtService)
	materialHandler := handler.NewMaterialHandler(intakeService)
	compatibilityHandler := handler.NewCompatibilityHandler(matchingService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	treasuryHandler := handler.NewTreasuryHandler(treasuryService)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))

	// Health check endpoint, outside API versioning
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	router.NewRouter(engine).
		Use(middleware.Auth(jwtService)).
		RegisterPublic(authHandler).
		Register(materialHandler).
		Register(compatibilityHandler).
		Register(invoiceHandler).
		Register(workOrderHandler).
		Register(partnerHandler).
		Register(treasuryHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
