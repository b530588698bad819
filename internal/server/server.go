package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"scent-store/internal/cart"
	"scent-store/internal/config"
	"scent-store/internal/database"
	"scent-store/internal/metrics"
	custommiddleware "scent-store/internal/middleware"
	"scent-store/internal/repository"
	"scent-store/internal/service"
	"scent-store/internal/session"
	"scent-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sweepInterval  = 5 * time.Minute
	sessionMaxIdle = 30 * time.Minute
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	db      database.Service
	redis   *redis.Client
	catalog service.CatalogService
	stop    context.CancelFunc
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	// Session storage: Redis when reachable, process memory otherwise
	redisClient := connectRedis(cfg.Redis, logger)
	var kv session.KV = session.NewMemoryKV()
	var limiterClient redis.Cmdable
	if redisClient != nil {
		kv = session.NewRedisKV(redisClient, cfg.Session.TTL)
		limiterClient = redisClient
	}

	manager := session.NewManager(kv, session.ManagerOptions{
		KeyPrefix:       cfg.Session.KeyPrefix,
		DefaultAdminKey: cfg.Admin.DefaultKey,
	}, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storeMetrics := metrics.NewStoreMetrics(registry, manager.Len)

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]any{
			"status":   "ok",
			"database": db.Health(),
			"sessions": sessionBackend(r.Context(), redisClient),
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, health)
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())

	// Initialize services
	engine := cart.NewEngine(logger, storeMetrics)
	catalogService := service.NewCatalogService(productRepo, storeMetrics, logger)
	orderService := service.NewOrderService(orderRepo, engine, storeMetrics, logger)
	adminService := service.NewAdminService(logger)
	bundleService := service.NewBundleService(service.StarterBundles(), logger)
	dashboardService := service.NewDashboardService(catalogService, orderService)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(engine, catalogService, orderService, logger)
	adminHandler := transport.NewAdminHandler(adminService, dashboardService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	bundleHandler := transport.NewBundleHandler(bundleService, logger)
	eventsHandler := transport.NewEventsHandler(logger, 0)

	// Create session, admin and checkout middleware
	sessionMiddleware := custommiddleware.SessionMiddleware(manager, custommiddleware.SessionConfig{
		Secret: sessionSecret(cfg, logger),
		TTL:    cfg.Session.TTL,
		Secure: !cfg.IsDevelopment(),
	}, logger)
	requireAdmin := custommiddleware.RequireAdmin(adminService, logger)
	limitCheckout := custommiddleware.RateLimitMiddleware(limiterClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.Checkout.RateLimit,
		Window:            cfg.Checkout.RateWindow,
		KeyPrefix:         cfg.Session.KeyPrefix + ":checkout",
	}, logger)

	// Register routes
	router.Group(func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Use(custommiddleware.LoggingMiddleware(logger))

		catalogHandler.RegisterRoutes(r, requireAdmin)
		cartHandler.RegisterRoutes(r, limitCheckout)
		adminHandler.RegisterRoutes(r, requireAdmin)
		orderHandler.RegisterRoutes(r, requireAdmin)
		bundleHandler.RegisterRoutes(r, requireAdmin)
		eventsHandler.RegisterRoutes(r)
	})

	ctx, stop := context.WithCancel(context.Background())
	go manager.RunSweeper(ctx, sweepInterval, sessionMaxIdle)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		db:      db,
		redis:   redisClient,
		catalog: catalogService,
		stop:    stop,
	}

	server.RegisterOnShutdown(eventsHandler.Close)

	return server
}

// SeedCatalog writes the starter catalog into an empty product table
func (s *Server) SeedCatalog(ctx context.Context) error {
	return s.catalog.SeedIfEmpty(ctx)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.stop()

	// Close Redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

// connectRedis returns a client once Redis answers a ping, or nil
func connectRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, sessions kept in memory and checkout is not rate limited",
			zap.String("addr", client.Options().Addr),
			zap.Error(err),
		)
		client.Close()
		return nil
	}

	logger.Info("Connected to Redis", zap.String("addr", client.Options().Addr))
	return client
}

func sessionBackend(ctx context.Context, client *redis.Client) map[string]string {
	if client == nil {
		return map[string]string{"backend": "memory", "status": "up"}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return map[string]string{"backend": "redis", "status": "down", "error": err.Error()}
	}
	return map[string]string{"backend": "redis", "status": "up"}
}

// sessionSecret returns the configured signing secret. Without one, a random
// secret is used and every restart signs visitors out of their sessions.
func sessionSecret(cfg *config.Config, logger *zap.Logger) string {
	if cfg.Session.Secret != "" {
		return cfg.Session.Secret
	}
	logger.Warn("SESSION_SECRET is not set, using a random secret for this process")
	return uuid.NewString()
}
