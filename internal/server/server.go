package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"karat-desk/internal/clock"
	"karat-desk/internal/config"
	"karat-desk/internal/database"
	"karat-desk/internal/domain"
	custommiddleware "karat-desk/internal/middleware"
	"karat-desk/internal/rate"
	"karat-desk/internal/repository"
	"karat-desk/internal/service"
	"karat-desk/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        database.Service
	redis     *redis.Client
	rates     *rate.Source
	refresher *rate.Refresher
}

// NewServer wires repositories, the live rate pipeline, services and handlers.
// redisClient may be nil; rate limiting and the rate cache are then disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) (*Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clk := clock.New()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	rateRepo := repository.NewRateRepository(db.DB())

	// Initialize the live rate pipeline
	source, refresher, err := newRatePipeline(cfg, rateRepo, redisClient, registry, clk, logger)
	if err != nil {
		return nil, err
	}

	// Initialize services
	pricingService := service.NewPricingService(productRepo, source, clk)
	valuationService := service.NewValuationService(productRepo, categoryRepo, source)
	rateService := service.NewRateService(rateRepo, source, refresher, clk)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, clk)

	s := &Server{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		rates:     source,
		refresher: refresher,
	}

	// Create router
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger, "/health", "/metrics"))
	router.Use(custommiddleware.NewHTTPMetrics(registry).Middleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "karat-desk:ratelimit",
			}, logger))
		}

		transport.NewPricingHandler(pricingService, logger).RegisterRoutes(r)
		transport.NewValuationHandler(valuationService, logger).RegisterRoutes(r)
		transport.NewRateHandler(rateService, logger).RegisterRoutes(r)
		transport.NewCatalogHandler(catalogService, logger).RegisterRoutes(r)
	})

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

// newRatePipeline builds the live rate source and the refresher that feeds it
func newRatePipeline(cfg *config.Config, rateRepo repository.RateRepository, redisClient *redis.Client, reg prometheus.Registerer, clk clock.Clock, logger *zap.Logger) (*rate.Source, *rate.Refresher, error) {
	fallback := decimal.Zero
	if cfg.Pricing.FallbackRate != "" {
		parsed, err := decimal.NewFromString(cfg.Pricing.FallbackRate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid PRICING_FALLBACK_RATE %q: %w", cfg.Pricing.FallbackRate, err)
		}
		fallback = parsed
	}
	source := rate.NewSource(fallback, clk)

	var feed rate.Feed
	switch cfg.RateFeed.Kind {
	case config.RateFeedHTTP:
		if cfg.RateFeed.URL == "" {
			return nil, nil, fmt.Errorf("RATE_FEED_URL is required for the %s rate feed", config.RateFeedHTTP)
		}
		feed = rate.NewHTTPFeed(cfg.RateFeed.URL, &http.Client{Timeout: cfg.RateFeed.FetchTimeout}, clk)
	case config.RateFeedDatabase, "":
		feed = rate.NewStoreFeed(rateRepo)
	default:
		return nil, nil, fmt.Errorf("unknown RATE_FEED_KIND %q", cfg.RateFeed.Kind)
	}

	var store rate.SnapshotStore
	if redisClient != nil {
		store = rate.NewRedisSnapshotStore(redisClient, cfg.Pricing.CacheKey, cfg.Pricing.CacheTTL)
	}

	refresher := rate.NewRefresher(feed, source, store, rate.NewMetrics(reg), rate.RefresherConfig{
		Interval: cfg.RateFeed.RefreshInterval,
		Timeout:  cfg.RateFeed.FetchTimeout,
	}, logger)

	return source, refresher, nil
}

// RunRateRefresher keeps the live rate current until ctx is cancelled
func (s *Server) RunRateRefresher(ctx context.Context) {
	s.refresher.Run(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	dbHealth := s.db.Health()

	status := http.StatusOK
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	rateStatus := "live"
	if snap, err := s.rates.Snapshot(); err != nil {
		rateStatus = "unavailable"
	} else if snap.Source == domain.RateSourceFallback {
		rateStatus = "fallback"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "up"
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			redisStatus = "down"
		}
	}

	custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
		"status":   http.StatusText(status),
		"database": dbHealth,
		"redis":    redisStatus,
		"rate":     rateStatus,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
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
