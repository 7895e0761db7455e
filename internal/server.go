package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/blogfront/internal/apiclient"
	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/config"
	"github.com/2beens/blogfront/internal/frontend"
	"github.com/2beens/blogfront/internal/middleware"
	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/store"
	"github.com/2beens/blogfront/internal/telemetry/metrics"
	"github.com/2beens/blogfront/internal/telemetry/tracing"
	"github.com/2beens/blogfront/internal/users"
)

const sessionsCleanupInterval = time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config *config.Config

	redisClient    *redis.Client
	rateLimiter    middleware.RequestRateLimiter
	sessionManager *session.Manager
	registry       *session.Registry
	frontend       *frontend.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	HoneycombTracingEnabled bool
	// Version labels the build info gauge, usually the last commit hash.
	Version string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.NewRegistry(params.Version)
	metricsManager := metrics.NewManager("blogfront", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	s := &Server{
		config:         cfg,
		registry:       session.NewRegistry(),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	var sessionRepo session.Repo
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		s.redisClient = rdb
		s.rateLimiter = redis_rate.NewLimiter(rdb)
		sessionRepo = session.NewRedisRepo(sessionTTL, rdb)
	default:
		log.Debugf("using in-memory session store (%d MB)", cfg.SessionCacheSizeMB)
		sessionRepo = session.NewMemoryRepo(sessionTTL, cfg.SessionCacheSizeMB)
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "blogfront", s.redisClient)
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Duration(cfg.ApiTimeoutSeconds) * time.Second,
	}
	apiClient, err := apiclient.NewClient(cfg.ApiBaseURL, tracedHttpClient, metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new api client: %w", err)
	}

	s.sessionManager = session.NewManager(
		sessionRepo,
		sessionTTL,
		strings.HasPrefix(cfg.PublicBaseURL, "https://"),
		metricsManager.CounterSessionsCreated.Inc,
	)

	dispatcher := store.NewDispatcher(metricsManager)
	s.frontend, err = frontend.NewHandler(
		users.NewActions(users.NewApi(apiClient), dispatcher),
		blogs.NewActions(blogs.NewApi(apiClient), dispatcher),
		articles.NewActions(articles.NewApi(apiClient), dispatcher),
		comments.NewActions(comments.NewApi(apiClient), dispatcher),
		s.sessionManager,
		s.registry,
		cfg.PublicBaseURL,
	)
	if err != nil {
		return nil, fmt.Errorf("new frontend handler: %w", err)
	}

	go s.cleanupSessions(ctx, sessionsCleanupInterval)

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("blogfront-router"))

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsOrigins()))
	r.Use(middleware.Session(s.sessionManager))
	r.Use(middleware.DrainAndCloseRequest())

	s.frontend.SetupRoutes(
		r,
		middleware.RateLimit(
			s.rateLimiter,
			"comments",
			s.config.CommentsAllowedPerMin,
			s.config.TrustProxyHeaders,
			s.metricsManager,
		),
	)

	return r
}

// cleanupSessions drops expired sessions and their states until ctx is done.
func (s *Server) cleanupSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("sessions cleanup stopped")
			return
		case <-ticker.C:
			s.cleanupSessionsOnce(ctx)
		}
	}
}

func (s *Server) cleanupSessionsOnce(ctx context.Context) {
	repo := s.sessionManager.Repo()
	removed := repo.ScanAndClean(ctx)

	// states can outlive their sessions (deleted or evicted from the store)
	for _, token := range s.registry.Tokens() {
		if _, err := repo.Get(ctx, token); errors.Is(err, session.ErrNotFound) {
			removed = append(removed, token)
		}
	}

	s.registry.Forget(removed...)
	if len(removed) > 0 {
		log.Debugf("sessions cleanup: %d removed, %d states left", len(removed), s.registry.Len())
	}
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
