// @title           ColorMyBook Backend API
// @version         1.0.0
// @description     Backend API for turning photo batches into printable coloring books. Handles image ingestion, sketch transforms, book customization and pricing, orders, and Stripe payments.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"colormybook-backend/internal/config"
	"colormybook-backend/internal/database"
	"colormybook-backend/internal/handlers"
	"colormybook-backend/internal/middleware"
	"colormybook-backend/internal/orders"
	"colormybook-backend/internal/services"
	"colormybook-backend/internal/sketch"
	"colormybook-backend/internal/stripe"
	"colormybook-backend/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Pick the sketch transform strategy
	var transformer sketch.Transformer
	switch cfg.SketchStrategy {
	case "openai":
		transformer = sketch.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	case "gemini":
		gemini, err := sketch.NewGeminiTransformer(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini transformer: %v", err)
		}
		defer gemini.Close()
		transformer = gemini
	default:
		transformer = sketch.NewLocalFilter()
	}
	log.Printf("Using %s sketch transform strategy", transformer.Name())

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Database client and migrations
	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your Supabase PostgreSQL connection string")
	}

	var dbClient *database.Client
	if dbURL != "" {
		var err error
		dbClient, err = database.NewClient(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Order operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}

	// Stripe client
	stripeClient := stripe.NewClient(cfg.StripeAPIBaseURL, cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Services
	orderService := orders.NewService(dbClient, stripeClient)
	bookService := services.NewBookService(transformer, orderService, storageClient, realtimeClient, cfg.PreviewFormat)

	// Handlers (dbClient might be nil, handlers fold that into 500s)
	imageHandler := handlers.NewImageHandler(bookService)
	bookHandler := handlers.NewBookHandler(bookService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	stripeHandler := handlers.NewStripeHandler(stripeClient, orderService, bookService)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Single-image transform
	api.POST("/images", imageHandler.Transform)

	// Book building
	api.POST("/books", bookHandler.CreateBook)
	api.GET("/books/:book_id", bookHandler.GetBook)
	api.PUT("/books/:book_id/customization", bookHandler.Customize)
	api.DELETE("/books/:book_id", bookHandler.DeleteBook)

	// Orders
	api.POST("/orders", orderHandler.CreateOrder)
	api.GET("/orders", orderHandler.ListOrders)

	// Payments
	api.POST("/stripe", stripeHandler.CreatePaymentIntent)
	api.PUT("/stripe", stripeHandler.ConfirmPayment)

	// Webhook (no auth, uses HMAC signatures)
	router.POST("/api/v1/stripe/webhook", stripeHandler.Webhook)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
