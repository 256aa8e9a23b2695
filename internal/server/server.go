package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aman-churiwal/property-marketplace/internal/cache"
	"github.com/aman-churiwal/property-marketplace/internal/config"
	"github.com/aman-churiwal/property-marketplace/internal/handler"
	"github.com/aman-churiwal/property-marketplace/internal/healthcheck"
	"github.com/aman-churiwal/property-marketplace/internal/identity"
	"github.com/aman-churiwal/property-marketplace/internal/middleware"
	"github.com/aman-churiwal/property-marketplace/internal/ratelimit"
	"github.com/aman-churiwal/property-marketplace/internal/repository"
	"github.com/aman-churiwal/property-marketplace/internal/service"
	"github.com/aman-churiwal/property-marketplace/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// background is implemented by components that run a sweeper goroutine.
type background interface {
	Start()
	Stop()
}

type Server struct {
	router     *gin.Engine
	config     *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	limiter    *ratelimit.Limiter
	store      ratelimit.Store
	cache      *cache.TTLCache[any]
	verifier   *identity.Verifier
	health     *healthcheck.Checker
	httpServer *http.Server

	properties *handler.PropertyHandler
	favorites  *handler.FavoriteHandler
	bookings   *handler.BookingHandler
	users      *handler.UserHandler
}

// New wires the application. redis may be nil when no redis server is configured.
func New(cfg *config.Config, postgres *storage.Postgres, redisClient *storage.RedisClient, logger *zap.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := ratelimit.NewMetrics(registry)

	var scripter redis.Scripter
	if redisClient != nil {
		scripter = redisClient.Client()
	}
	store, err := ratelimit.NewStore(cfg.RateLimit.StoreConfig(), scripter, metrics, logger)
	if err != nil {
		return nil, err
	}

	policies, err := ratelimit.NewPolicyTable(cfg.RateLimit.Policies()...)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit policies: %w", err)
	}

	propertyCache := cache.NewTTLCache[any](cfg.Cache.TTL)

	health := healthcheck.NewChecker(healthcheck.Config{
		Interval:    cfg.Health.Interval,
		Timeout:     cfg.Health.Timeout,
		MaxFailures: cfg.Health.MaxFailures,
	}, logger)
	health.Register("database", postgres.Ping)
	if redisClient != nil {
		health.Register("redis", redisClient.Ping)
	}

	userRepo := repository.NewUserRepository(postgres)
	propertyRepo := repository.NewPropertyRepository(postgres, userRepo)
	favoriteRepo := repository.NewFavoriteRepository(postgres)
	bookingRepo := repository.NewBookingRepository(postgres)

	s := &Server{
		router:   gin.New(),
		config:   cfg,
		logger:   logger,
		registry: registry,
		limiter:  ratelimit.NewLimiter(policies, store, metrics),
		store:    store,
		cache:    propertyCache,
		verifier: identity.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience),
		health:   health,

		properties: handler.NewPropertyHandler(service.NewPropertyService(propertyRepo, userRepo, propertyCache, logger), logger),
		favorites:  handler.NewFavoriteHandler(service.NewFavoriteService(favoriteRepo, propertyRepo, propertyCache), logger),
		bookings:   handler.NewBookingHandler(service.NewBookingService(bookingRepo, propertyRepo, propertyCache, logger), logger),
		users:      handler.NewUserHandler(service.NewUserService(userRepo, logger), logger),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.EdgeFilter(s.limiter, s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	auth := middleware.RequireAuth(s.verifier)
	api := s.router.Group("/api")

	properties := api.Group("/properties")
	{
		properties.GET("", s.properties.List)
		properties.GET("/:id", s.properties.Get)
		properties.POST("", auth, s.properties.Create)
		properties.PUT("/:id", auth, s.properties.Update)
		properties.DELETE("/:id", auth, s.properties.Delete)
	}

	favorites := api.Group("/favorites", auth)
	{
		favorites.GET("", s.favorites.List)
		favorites.POST("", s.favorites.Add)
		favorites.DELETE("", s.favorites.Remove)
	}

	bookings := api.Group("/bookings", auth)
	{
		bookings.GET("", s.bookings.List)
		bookings.POST("", s.bookings.Create)
		bookings.POST("/:id/cancel", s.bookings.Cancel)
	}

	user := api.Group("/user")
	{
		user.POST("/create-profile", auth, s.users.CreateProfile)
		user.POST("/complete-onboarding", auth, s.users.CompleteOnboarding)
		user.GET("/host-status", s.users.HostStatus)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	overall := s.health.CheckAll(c.Request.Context())

	checks := gin.H{}
	for _, st := range s.health.Statuses() {
		checks[st.Name] = st.Healthy
	}

	statusCode := http.StatusOK
	if overall != healthcheck.Healthy {
		statusCode = http.StatusServiceUnavailable
	}

	body := gin.H{
		"status":    overall.String(),
		"service":   "property-marketplace",
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}
	if g, ok := s.store.(ratelimit.Guarded); ok {
		body["rateLimitBreaker"] = g.BreakerSnapshot()
	}

	c.JSON(statusCode, body)
}

// Start launches the background sweepers. Run calls it; tests driving the router
// directly may call it themselves.
func (s *Server) Start() {
	if b, ok := s.store.(background); ok {
		b.Start()
	}
	s.cache.Start(s.config.Cache.SweepInterval)
	s.health.Start()
}

func (s *Server) Run(addr string) error {
	s.Start()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Info("starting marketplace API",
		zap.String("addr", addr),
		zap.String("environment", s.config.Server.Environment),
		zap.String("rate_limit_backend", s.config.RateLimit.Backend),
	)

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the sweepers and then drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if b, ok := s.store.(background); ok {
		b.Stop()
	}
	s.cache.Stop()
	s.health.Stop()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Verifier exposes the token verifier, mainly so tests can mint sessions.
func (s *Server) Verifier() *identity.Verifier {
	return s.verifier
}
