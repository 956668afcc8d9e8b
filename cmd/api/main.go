package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MboaMarket/mboa_api/internal/cache"
	"github.com/MboaMarket/mboa_api/internal/config"
	"github.com/MboaMarket/mboa_api/internal/database"
	"github.com/MboaMarket/mboa_api/internal/handler"
	"github.com/MboaMarket/mboa_api/internal/middleware"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/worker"
	"github.com/MboaMarket/mboa_api/pkg/mesomb"
)

// main is the application entrypoint for the Mboa Market API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting mboa api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	pricingCache := cache.NewPricingCache(redisClient)
	checkoutCache := cache.NewCheckoutCache(redisClient, cfg.Checkout.SessionTTL)

	// 4. Initialize MeSomb client
	mesombClient := mesomb.NewClient(mesomb.Config{
		BaseURL:   cfg.MeSomb.BaseURL,
		AppKey:    cfg.MeSomb.AppKey,
		AccessKey: cfg.MeSomb.AccessKey,
		SecretKey: cfg.MeSomb.SecretKey,
	})

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	listingRepo := repository.NewListingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	pricingRepo := repository.NewBoostPricingRepository(db)
	boostRepo := repository.NewBoostRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 6. Initialize payment providers
	mesombProvider := service.NewMeSombProvider(mesombClient)
	paypalProvider := service.NewPayPalProvider()
	providerRouter := service.NewProviderRouter(mesombProvider, paypalProvider)
	log.Info().Msg("payment providers registered")

	// 7. Initialize services
	authSvc := service.NewAuthService(userRepo)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	moderationSvc := service.NewModerationService(cfg)
	storageSvc := service.NewStorageService(&cfg.S3)
	listingSvc := service.NewListingService(listingRepo, categoryRepo, locationRepo, moderationSvc, storageSvc)
	reviewSvc := service.NewReviewService(reviewRepo, listingRepo, userRepo)
	messageSvc := service.NewMessageService(messageRepo, listingRepo)
	pricingSvc := service.NewPricingService(pricingRepo, pricingCache, cfg.Checkout.MaxDays)
	boostSvc := service.NewBoostService(boostRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, providerRouter, boostSvc, cfg.Worker.StatusCheckBase)
	checkoutSvc := service.NewCheckoutService(checkoutCache, pricingSvc, paymentSvc, listingRepo, cfg.Checkout.DefaultDays, cfg.Checkout.MaxDays)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(mesombClient),
		Auth:     handler.NewAuthHandler(authSvc),
		Category: handler.NewCategoryHandler(categoryRepo),
		Location: handler.NewLocationHandler(locationRepo),
		Listing:  handler.NewListingHandler(listingSvc),
		Review:   handler.NewReviewHandler(reviewSvc),
		Message:  handler.NewMessageHandler(messageSvc),
		Boost:    handler.NewBoostHandler(pricingSvc, boostSvc, paymentSvc),
		Checkout: handler.NewCheckoutHandler(checkoutSvc),
		Webhook:  handler.NewWebhookHandler(paymentSvc, checkoutSvc, mesombProvider, cfg.MeSomb.WebhookSecret),
		Admin:    handler.NewAdminHandler(adminAuthSvc, listingSvc, pricingSvc, paymentRepo, boostRepo),
	}

	// 9. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 11. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 12. Start workers
	go worker.NewStatusCheckWorker(
		paymentRepo, paymentSvc, providerRouter,
		cfg.Worker.StatusCheckInterval,
		cfg.Worker.StatusCheckBase,
		cfg.Worker.StatusCheckMaxAge,
		cfg.Worker.StatusCheckAttempts,
	).Start(ctx)
	go worker.NewBoostExpiryWorker(boostSvc, cfg.Worker.BoostExpiryInterval).Start(ctx)

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 15. Cancel context to stop workers
	cancel()

	// 16. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Location *handler.LocationHandler
	Listing  *handler.ListingHandler
	Review   *handler.ReviewHandler
	Message  *handler.MessageHandler
	Boost    *handler.BoostHandler
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Admin    *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMw *middleware.JWTMiddleware) {
	// Provider webhook endpoints
	router.POST("/webhook/mesomb", handlers.Webhook.HandleMeSombCallback)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public routes
	v1 := router.Group("/v1")
	{
		v1.POST("/auth/register", handlers.Auth.Register)
		v1.POST("/auth/login", handlers.Auth.Login)

		v1.GET("/categories", handlers.Category.GetCategories)
		v1.GET("/categories/:id", handlers.Category.GetCategory)
		v1.GET("/locations", handlers.Location.GetLocations)
		v1.GET("/locations/:id/children", handlers.Location.GetLocationChildren)

		v1.GET("/boost/tiers", handlers.Boost.GetTiers)
		v1.GET("/boost/quote", handlers.Boost.GetQuote)

		v1.GET("/users/:id/reviews", handlers.Review.GetSellerReviews)
	}

	// Browse routes: public, but attach user identity when a token is present
	// so view counting can skip owners.
	browse := router.Group("/v1")
	browse.Use(jwtMw.OptionalUser())
	{
		browse.GET("/listings", handlers.Listing.SearchListings)
		browse.GET("/listings/:id", handlers.Listing.GetListing)
	}

	// Authenticated user routes
	user := router.Group("/v1")
	user.Use(jwtMw.RequireUser())
	{
		user.GET("/me", handlers.Auth.GetMe)
		user.PUT("/me", handlers.Auth.UpdateMe)
		user.GET("/me/listings", handlers.Listing.MyListings)
		user.GET("/me/boosts", handlers.Boost.MyBoosts)

		user.POST("/listings", handlers.Listing.CreateListing)
		user.PUT("/listings/:id", handlers.Listing.UpdateListing)
		user.DELETE("/listings/:id", handlers.Listing.DeleteListing)
		user.POST("/listings/:id/sold", handlers.Listing.MarkSold)
		user.POST("/listings/:id/images", handlers.Listing.UploadImage)

		user.POST("/reviews", handlers.Review.CreateReview)

		user.POST("/conversations", handlers.Message.StartConversation)
		user.GET("/conversations", handlers.Message.ListConversations)
		user.POST("/conversations/:id/messages", handlers.Message.SendMessage)
		user.GET("/conversations/:id/messages", handlers.Message.ListMessages)

		user.POST("/checkout", handlers.Checkout.Start)
		user.GET("/checkout/:sessionId", handlers.Checkout.Get)
		user.POST("/checkout/:sessionId/tier", handlers.Checkout.SelectTier)
		user.POST("/checkout/:sessionId/duration", handlers.Checkout.SelectDuration)
		user.POST("/checkout/:sessionId/method", handlers.Checkout.SelectMethod)
		user.POST("/checkout/:sessionId/pay", handlers.Checkout.Pay)
		user.GET("/checkout/:sessionId/status", handlers.Checkout.Status)
		user.POST("/checkout/:sessionId/back", handlers.Checkout.Back)
		user.DELETE("/checkout/:sessionId", handlers.Checkout.Cancel)

		user.GET("/payments/:paymentId", handlers.Boost.GetPayment)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Admin.Login)
	admin.Use(jwtMw.RequireAdmin())
	{
		admin.GET("/stats", handlers.Admin.GetStats)
		admin.GET("/stats/revenue", handlers.Admin.GetDailyRevenue)
		admin.GET("/payments/:paymentId", handlers.Admin.GetPayment)
		admin.GET("/moderation", handlers.Admin.GetModerationQueue)
		admin.POST("/moderation/:id", handlers.Admin.Moderate)
		admin.PUT("/boost-pricing", handlers.Admin.SetBoostRate)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
