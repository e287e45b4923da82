package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/redis/go-redis/v9"

	"tableside/internal/analytics"
	"tableside/internal/caching"
	"tableside/internal/cart"
	"tableside/internal/events"
	"tableside/internal/handlers"
	"tableside/internal/jobs/background"
	"tableside/internal/middleware"
	"tableside/internal/models"
	"tableside/internal/repositories"
	"tableside/internal/services"
	"tableside/pkg/database"
)

const version = "1.0.0"

const tokenTTL = 12 * time.Hour

func main() {
	ctx := context.Background()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret; staff tokens will not survive a restart")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0 // Default DB
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			redisDB = db
		}
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "tableside-menu"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucket(ctx); err != nil {
		log.Fatalf("Failed to ensure MinIO bucket: %v", err)
	}

	// Public base URL embedded in table QR codes
	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:8080"
	}

	// Create repositories
	menuRepo := repositories.NewMenuItemRepo(pool)
	tableRepo := repositories.NewTableRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	staffRepo := repositories.NewStaffRepo(pool)

	// Create cache, cart store and event bus
	cacheSvc := caching.NewRedisCacheService(redisClient)
	cartStore := cart.NewStore(redisClient, cart.DefaultTTL)
	bus := events.NewRedisBus(redisClient)

	// Create services
	menuSvc := services.NewMenuService(menuRepo, minioSvc, cacheSvc)
	tableSvc := services.NewTableService(tableRepo, publicBaseURL)
	orderSvc := services.NewOrderService(orderRepo, orderItemRepo, tableRepo, cartStore, bus)
	authSvc := services.NewAuthService(staffRepo, jwtSecret, tokenTTL)
	analyticsSvc := analytics.NewService(orderRepo, orderItemRepo, cacheSvc)

	// Seed the administrator account
	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = random.String(16)
		log.Printf("WARNING: ADMIN_PASSWORD not set, generated password for %s: %s", adminUsername, adminPassword)
	}
	if err := authSvc.EnsureStaffAccount(ctx, adminUsername, adminPassword, models.StaffRoleAdmin); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	tableHandlers := handlers.NewTableHandlers(tableSvc)
	cartHandlers := handlers.NewCartHandlers(cartStore, menuSvc, tableSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, bus)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// JWT middleware configuration
	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.StaffClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}

	// Background jobs
	jobScheduler := background.NewJobScheduler(analyticsSvc, cartStore, tableRepo)
	if err := jobScheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer jobScheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	v1 := e.Group("/v1")

	// Authentication
	v1.POST("/auth/login", authHandlers.Login)

	// Customer routes (no auth; the table number is the routing key)
	v1.GET("/tables/:tableNumber/menu", menuHandlers.AvailableMenu)
	v1.GET("/tables/:tableNumber/cart", cartHandlers.GetCart)
	v1.POST("/tables/:tableNumber/cart", cartHandlers.AddItem)
	v1.PATCH("/tables/:tableNumber/cart/items/:itemID", cartHandlers.UpdateItem)
	v1.DELETE("/tables/:tableNumber/cart/items/:itemID", cartHandlers.RemoveItem)
	v1.POST("/tables/:tableNumber/orders", orderHandlers.SubmitOrder)

	// Staff routes (require JWT)
	staff := v1.Group("")
	staff.Use(echojwt.WithConfig(jwtConfig))
	staff.Use(middleware.StaffContext())

	staff.GET("/me", authHandlers.Me)

	// Kitchen routes
	kitchen := staff.Group("/kitchen", middleware.RequireRole(models.StaffRoleKitchen, models.StaffRoleAdmin))
	kitchen.GET("/orders", orderHandlers.KitchenQueue)
	kitchen.GET("/orders/stream", orderHandlers.StreamOrders)

	staff.PATCH("/orders/:id/status", orderHandlers.UpdateStatus, middleware.RequireRole(models.StaffRoleKitchen, models.StaffRoleAdmin))

	// Admin routes
	admin := staff.Group("", middleware.RequireRole(models.StaffRoleAdmin))

	admin.GET("/orders", orderHandlers.ListOrders)
	admin.GET("/orders/:id", orderHandlers.GetOrder)
	admin.POST("/orders/:id/cancel", orderHandlers.CancelOrder)

	admin.GET("/menu", menuHandlers.ListMenuItems)
	admin.POST("/menu", menuHandlers.CreateMenuItem)
	admin.GET("/menu/:id", menuHandlers.GetMenuItem)
	admin.PUT("/menu/:id", menuHandlers.UpdateMenuItem)
	admin.DELETE("/menu/:id", menuHandlers.DeleteMenuItem)
	admin.POST("/menu/:id/image", menuHandlers.UploadItemImage)

	admin.GET("/tables", tableHandlers.ListTables)
	admin.POST("/tables", tableHandlers.CreateTable)
	admin.GET("/tables/:id", tableHandlers.GetTable)
	admin.PUT("/tables/:id", tableHandlers.UpdateTable)
	admin.DELETE("/tables/:id", tableHandlers.DeleteTable)
	admin.POST("/tables/:id/qr", tableHandlers.RegenerateQRCode)
	admin.POST("/tables/:id/release", tableHandlers.ReleaseTable)

	admin.GET("/analytics/summary", analyticsHandlers.Summary)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Tableside server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
