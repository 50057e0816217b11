package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/venkatakausik18/snap-n-shop-central/docs"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/handlers"
	"github.com/venkatakausik18/snap-n-shop-central/internal/api/middleware"
	"github.com/venkatakausik18/snap-n-shop-central/internal/cache"
	"github.com/venkatakausik18/snap-n-shop-central/internal/config"
	"github.com/venkatakausik18/snap-n-shop-central/internal/health"
	"github.com/venkatakausik18/snap-n-shop-central/internal/metrics"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
	service "github.com/venkatakausik18/snap-n-shop-central/internal/services"
	"github.com/venkatakausik18/snap-n-shop-central/internal/session"
	"github.com/venkatakausik18/snap-n-shop-central/internal/tracing"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/sendgrid"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Snap-n-Shop Central API
//	@version					1.0
//	@description				Storefront API: catalog, guest and user carts, checkout, orders and reviews.
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.OTel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if cfg.Migrations.RunOnStartup {
		if err := repository.RunMigrations(repos.DB); err != nil {
			slog.Error("❌ Error running migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Info("✅ Migrations applied")
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer redisClient.Close()

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepo(repos.DB)
	productRepo := repository.NewProductRepo(repos.DB)
	cartRepo := repository.NewCartRepo(repos.DB)
	orderRepo := repository.NewOrderRepository(repos.DB)
	reviewRepo := repository.NewReviewRepo(repos.DB)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// External clients
	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	gateways := service.Gateways{
		models.PaymentMethodCard:           service.NewStripeGateway(stripeClient, cfg.Stripe.Timeout),
		models.PaymentMethodCashOnDelivery: service.CashOnDeliveryGateway{},
	}

	// Services
	notificationService := service.NewNotificationService(userRepo, emailService)
	userService := service.NewUserService(userRepo, rateLimitRepo, jwtKey, time.Duration(cfg.Security.JWTExpiryHours)*time.Hour)
	productService := service.NewProductService(productRepo, productCache)
	cartService := service.NewCartService(cartRepo)
	orderService := service.NewOrderService(orderRepo, gateways, notificationService, service.PricingFromConfig(cfg.Pricing))
	paymentService := service.NewPaymentService(orderRepo, stripeClient, notificationService)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, productService)

	// Handlers
	sessions := session.Factory{
		Key:  cfg.Session.CookieName,
		Opts: session.CookieOptions{MaxAge: cfg.Session.MaxAge, Secure: cfg.Session.Secure},
	}

	userHandler := handlers.NewUserHandler(userService, cartService, sessions)
	productHandler := handlers.NewProductHandler(productService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	cartHandler := handlers.NewCartHandler(cartService, productService, sessions)
	orderHandler := handlers.NewOrderHandler(orderService, cartService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	authMiddleware := middleware.NewAuthMiddleware(jwtKey)
	limiter := middleware.NewRateLimiter(cfg.RateConfig.RequestsPerSecond, cfg.RateConfig.Burst)

	go limiter.Run(ctx)

	auth := authMiddleware.Authenticate
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	optionalAuth := authMiddleware.OptionalAuthenticate

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", auth(userHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/categories", productHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/categories/{slug}/subcategories", productHandler.ListSubcategories())

	routerMux.HandleFunc("GET /api/v1/products/{id}/reviews", reviewHandler.ListReviews())
	routerMux.HandleFunc("POST /api/v1/reviews", auth(reviewHandler.CreateReview()))
	routerMux.HandleFunc("PUT /api/v1/reviews/{id}", auth(reviewHandler.UpdateReview()))
	routerMux.HandleFunc("DELETE /api/v1/reviews/{id}", auth(reviewHandler.DeleteReview()))
	routerMux.HandleFunc("POST /api/v1/reviews/{id}/helpful", limiter.Limit(reviewHandler.MarkHelpful()))

	routerMux.HandleFunc("GET /api/v1/carts", optionalAuth(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", optionalAuth(limiter.Limit(cartHandler.AddItem())))
	routerMux.HandleFunc("PUT /api/v1/carts/items/{id}", optionalAuth(limiter.Limit(cartHandler.UpdateQuantity())))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{id}", optionalAuth(limiter.Limit(cartHandler.RemoveItem())))
	routerMux.HandleFunc("DELETE /api/v1/carts", optionalAuth(limiter.Limit(cartHandler.ClearCart())))
	routerMux.HandleFunc("POST /api/v1/carts/merge", auth(cartHandler.MergeCart()))

	routerMux.HandleFunc("POST /api/v1/orders", auth(limiter.Limit(orderHandler.Checkout())))
	routerMux.HandleFunc("GET /api/v1/orders", auth(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", auth(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", auth(orderHandler.CancelOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", auth(adminOnly(orderHandler.UpdateOrderStatus())))

	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleStripeWebhook())

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining, metrics innermost so it sees the matched pattern
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.OTel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Failed to flush traces", slog.String("error", err.Error()))
	}
}
