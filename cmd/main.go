package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"retailstock/internal/caching"
	"retailstock/internal/handlers"
	"retailstock/internal/jobs"
	"retailstock/internal/jobs/background"
	"retailstock/internal/middleware"
	"retailstock/internal/repositories"
	"retailstock/internal/services"
	"retailstock/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration for ledger archives
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	ledgerBucket := os.Getenv("LEDGER_ARCHIVE_BUCKET")
	if ledgerBucket == "" {
		ledgerBucket = "stock-ledger-archive"
	}

	archiveSvc, err := services.NewArchiveService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize archive service: %v", err)
	}

	// Repositories
	productRepo := repositories.NewProductRepo(pool)
	inventoryRepo := repositories.NewInventoryRepo(pool)
	movementRepo := repositories.NewMovementRepo(pool)
	adjustmentRepo := repositories.NewAdjustmentRepo(pool)
	customerReturnRepo := repositories.NewCustomerReturnRepo(pool)
	supplierReturnRepo := repositories.NewSupplierReturnRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)
	stockInRepo := repositories.NewStockInRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	auditSvc := services.NewAuditService(auditLogsRepo)
	ledger := services.NewStockLedger(pool, productRepo, inventoryRepo, movementRepo, cacheSvc)
	movementSvc := services.NewMovementService(movementRepo, ledger)
	adjustmentSvc := services.NewAdjustmentService(pool, adjustmentRepo, productRepo, inventoryRepo, ledger, auditSvc)
	saleSvc := services.NewSaleService(pool, saleRepo, productRepo, ledger, auditSvc)
	receivingSvc := services.NewReceivingService(pool, stockInRepo, ledger, auditSvc)
	returnsSvc := services.NewReturnsService(pool, customerReturnRepo, supplierReturnRepo, saleRepo, stockInRepo, ledger, auditSvc)

	// Background jobs
	lowStockAlerts := jobs.NewLowStockAlertService(inventoryRepo)
	ledgerExport := jobs.NewLedgerExportService(movementRepo, archiveSvc, ledgerBucket)
	scheduler := background.NewJobScheduler(lowStockAlerts, ledgerExport)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Handlers
	stockHandlers := handlers.NewStockHandlers(ledger, movementSvc)
	saleHandlers := handlers.NewSaleHandlers(saleSvc)
	receivingHandlers := handlers.NewReceivingHandlers(receivingSvc)
	adjustmentHandlers := handlers.NewAdjustmentHandlers(adjustmentSvc)
	returnsHandlers := handlers.NewReturnsHandlers(returnsSvc)
	auditHandlers := handlers.NewAuditLogsHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, scheduler)

	// Echo instance
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoint (no auth required)
	e.GET("/health", healthHandlers.Health)

	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(middleware.JWTCustomClaims)
		},
		SuccessHandler: middleware.AttachIdentity,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}

	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(jwtConfig))

	// Stock routes
	v1.GET("/products/:id/stock", stockHandlers.GetStock)
	v1.GET("/products/:id/stock/total", stockHandlers.GetTotalStock)
	v1.GET("/products/:id/movements", stockHandlers.ListMovements)
	v1.GET("/products/:id/ledger-check", stockHandlers.VerifyLedger)
	v1.POST("/products/:id/transfer-display", stockHandlers.TransferToDisplay)
	v1.POST("/stock/adjust", stockHandlers.AdjustStock, middleware.RequireElevated())

	// Sale routes
	v1.POST("/sales", saleHandlers.CreateSale)
	v1.GET("/sales/:id", saleHandlers.GetSale)

	// Receiving routes
	v1.POST("/purchase-orders/:id/receive", receivingHandlers.ReceivePurchaseOrder)
	v1.GET("/stockins/:id", receivingHandlers.GetStockIn)

	// Manual adjustment routes
	v1.POST("/adjustments", adjustmentHandlers.RequestAdjustment)
	v1.GET("/adjustments/pending", adjustmentHandlers.ListPending, middleware.RequireElevated())
	v1.GET("/adjustments/:id", adjustmentHandlers.GetAdjustment)
	v1.POST("/adjustments/:id/resolve", adjustmentHandlers.ResolveAdjustment, middleware.RequireElevated())

	// Returns routes
	v1.POST("/returns/customer", returnsHandlers.CreateCustomerReturn)
	v1.GET("/returns/customer/:id", returnsHandlers.GetCustomerReturn)
	v1.POST("/returns/customer/:id/decide", returnsHandlers.DecideCustomerReturn, middleware.RequireElevated())
	v1.POST("/returns/supplier", returnsHandlers.CreateSupplierReturn)
	v1.GET("/returns/supplier/:id", returnsHandlers.GetSupplierReturn)
	v1.POST("/returns/supplier/:id/decide", returnsHandlers.DecideSupplierReturn, middleware.RequireElevated())

	// Audit trail
	v1.GET("/audit/:entity/:id", auditHandlers.ListByEntity, middleware.RequireElevated())

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Retailstock server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
