package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramadanhub/backend/internal/config"
	"github.com/ramadanhub/backend/internal/handler"
	appMiddleware "github.com/ramadanhub/backend/internal/middleware"
	"github.com/ramadanhub/backend/internal/repository"
	"github.com/ramadanhub/backend/internal/service"
	"github.com/ramadanhub/backend/internal/ws"
	"github.com/ramadanhub/backend/pkg/crypto"
	"github.com/ramadanhub/backend/pkg/llm"
	"github.com/ramadanhub/backend/pkg/payment"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present (for local development)
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	ctx := context.Background()

	// Initialize database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Database error: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Fatalf("❌ Migration error: %v", err)
	}
	log.Println("✅ Database connected & migrated")

	// Initialize encryptor (seals checkout references through the provider)
	enc, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("❌ Encryption error: %v", err)
	}

	// LLM provider client
	llmClient, err := llm.NewClient(llm.Config{
		APIKey:     cfg.LLMAPIKey,
		BaseURL:    cfg.LLMBaseURL,
		ChatModel:  cfg.LLMChatModel,
		ImageModel: cfg.LLMImageModel,
		SiteURL:    cfg.SiteURL,
		SiteName:   cfg.SiteName,
	})
	if err != nil {
		log.Fatalf("❌ LLM client error: %v", err)
	}
	log.Printf("✅ LLM provider ready (%s)", cfg.LLMChatModel)

	// Payment gateway: hosted provider when configured, mock otherwise
	var gateway payment.Gateway
	if cfg.CheckoutBaseURL != "" {
		gateway = payment.NewHostedGateway(cfg.CheckoutBaseURL, cfg.CheckoutAPIKey, cfg.CheckoutWebhookSecret, cfg.SiteURL)
		log.Println("✅ Hosted checkout configured")
	} else {
		gateway = payment.NewMockGateway()
		log.Println("⚠️  No checkout provider configured, using mock gateway")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	genRepo := repository.NewGenerationRepository(db)
	cacheRepo := repository.NewCacheRepository(db)

	if err := templateRepo.SeedDefaults(ctx); err != nil {
		log.Fatalf("❌ Template seed error: %v", err)
	}

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, userRepo, creditRepo, cfg.FreeMonthlyCredits)

	// Seed admin user on first startup
	if err := authSvc.SeedAdmin(ctx); err != nil {
		log.Fatalf("❌ Admin seed error: %v", err)
	}

	entSvc := service.NewEntitlementService(subRepo, creditRepo, gateway)
	subSvc := service.NewSubscriptionService(subRepo, gateway, enc)
	genSvc := service.NewGenerationService(llmClient, templateRepo, genRepo)
	catalogSvc := service.NewCatalogService(cacheRepo, llmClient)

	// Background housekeeping (subscription expiry, credit resets)
	sweeper := service.NewSweeperService(subRepo, creditRepo, cfg.FreeMonthlyCredits)
	sweeper.Start(ctx)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authSvc)
	healthHandler := handler.NewHealthHandler(db)
	userHandler := handler.NewUserHandler(authSvc)
	plansHandler := handler.NewPlansHandler()
	paymentHandler := handler.NewPaymentHandler(subSvc, gateway)
	adminHandler := handler.NewAdminHandler(db, authSvc, genRepo)
	entitlementHandler := handler.NewEntitlementHandler(entSvc)
	generateHandler := handler.NewGenerateHandler(entSvc, genSvc)
	usageHandler := handler.NewUsageHandler(creditRepo, subRepo, genRepo)
	templatesHandler := handler.NewTemplatesHandler(templateRepo)
	modelsHandler := handler.NewModelsHandler(catalogSvc)
	chatHandler := ws.NewChatHandler(authSvc, entSvc, llmClient)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery)
	r.Use(appMiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Signature"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Health check and public routes (no auth)
	r.Get("/health", healthHandler.Check)
	r.Get("/api/plans", plansHandler.List)
	r.Post("/api/payment/webhook", paymentHandler.Webhook) // Public, signature-verified

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/auth/login", authHandler.Login)
	})

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(authSvc))

		// Auth
		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/me", authHandler.Me)

		// Entitlement pre-flight and account usage
		r.Get("/api/entitlement", entitlementHandler.Check)
		r.Get("/api/usage", usageHandler.Get)

		// Content catalog
		r.Get("/api/templates", templatesHandler.List)
		r.Get("/api/models", modelsHandler.GetModels)

		// Gated AI features
		r.Post("/api/ai/test-gate", generateHandler.TestGate)
		r.Post("/api/generate/family-photo", generateHandler.FamilyPhoto)
		r.Post("/api/generate/meal-plan", generateHandler.MealPlan)
		r.Post("/api/generate/gift-ideas", generateHandler.GiftIdeas)

		// Payment routes
		r.Post("/api/payment/checkout", paymentHandler.CreateCheckout)
		r.Get("/api/payment/subscription", paymentHandler.GetSubscription)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminOnly)
			r.Get("/api/admin/stats", adminHandler.GetStats)
			r.Get("/api/admin/users", adminHandler.ListUsers)
			r.Get("/api/users", userHandler.List)
			r.Post("/api/users", userHandler.Create)
			r.Delete("/api/users/{id}", userHandler.Delete)
			r.Post("/api/payment/simulate", paymentHandler.Simulate) // Admin-only: dev payment simulation
			r.Post("/api/models/sync", modelsHandler.SyncModels)
		})
	})

	// WebSocket assistant chat (auth via query param)
	r.HandleFunc("/api/chat/stream", chatHandler.Handle)

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// WriteTimeout must be 0 for WebSocket connections (they are long-lived)
		IdleTimeout: 120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("🛑 Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("🚀 RamadanHub Backend (Go) listening at http://%s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("❌ Server error: %v", err)
	}
}
