package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/vibefit/internal/coach"
	"github.com/2beens/vibefit/internal/config"
	"github.com/2beens/vibefit/internal/db"
	"github.com/2beens/vibefit/internal/gymlog"
	"github.com/2beens/vibefit/internal/logbook"
	"github.com/2beens/vibefit/internal/middleware"
	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/telemetry/metrics"
	"github.com/2beens/vibefit/internal/telemetry/tracing"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"
)

const coachRouterName = "coach"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	sqliteStore *session.SQLiteStore

	service  *gymlog.Service
	sessions *session.Manager
	pages    *gymlog.Pages

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets

	otelShutdown := func() {}
	if secrets.HoneycombEnabled {
		// use honeycomb distro to setup OpenTelemetry SDK
		shutdown, err := tracing.HoneycombSetup()
		if err != nil {
			return nil, err
		}
		otelShutdown = shutdown
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	s := &Server{
		config:       cfg,
		versionInfo:  params.VersionInfo,
		otelShutdown: otelShutdown,
	}

	var collectors []prometheus.Collector
	if cfg.PostgresEnabled {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		s.dbPool = dbPool
		collectors = append(collectors, db.PoolCollector(dbPool, cfg.PostgresDBName))
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("vibefit", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.SessionStore == config.SessionStoreRedis || cfg.CoachRateLimitPerMin > 0 {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: secrets.RedisPassword,
			DB:       0, // use default DB
		})
		rdb.AddHook(redisotel.NewTracingHook())

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		s.redisClient = rdb
	}

	store, err := s.openSessionStore(ctx)
	if err != nil {
		return nil, err
	}

	geminiModel, err := coach.NewGeminiModel(ctx, coach.GeminiParams{
		APIKey:  secrets.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("new gemini model: %w", err)
	}

	book := logbook.Open(ctx, logbook.OpenParams{
		SpreadsheetID:   cfg.SpreadsheetID,
		CredentialsJSON: secrets.ServiceAccountJSON,
		CoachRange:      cfg.CoachSheetRange,
		QuickRange:      cfg.QuickSheetRange,
		Location:        cfg.Location(),
		DB:              s.dbPool,
		MetricsManager:  s.metricsManager,
	})

	s.service = gymlog.NewService(gymlog.ServiceParams{
		Controller:     workout.NewController(workout.MenuFromConfig(cfg.Menu)),
		Logbook:        book,
		Coach:          coach.NewCoach(geminiModel, s.metricsManager),
		MetricsManager: s.metricsManager,
		RestOptions:    cfg.RestDurations(),
		DefaultRest:    cfg.DefaultRestDuration(),
	})
	s.sessions = session.NewManager(store, func() *coach.Conversation {
		return coach.NewConversation(cfg.GeminiModel, coach.SystemPrompt)
	})

	s.pages, err = gymlog.LoadPages()
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	return s, nil
}

func (s *Server) openSessionStore(ctx context.Context) (session.Store, error) {
	ttl := s.config.SessionTTL()
	switch s.config.SessionStore {
	case config.SessionStoreRedis:
		log.Debugf("using redis session store, ttl %s", ttl)
		return session.NewRedisStore(s.redisClient, ttl), nil
	case config.SessionStoreSQLite:
		if err := pkg.EnsureDir(filepath.Dir(s.config.SQLitePath)); err != nil {
			return nil, fmt.Errorf("sqlite session store dir: %w", err)
		}
		store, err := session.OpenSQLiteStore(ctx, s.config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite session store: %w", err)
		}
		log.Debugf("using sqlite session store: %s", s.config.SQLitePath)
		s.sqliteStore = store
		return store, nil
	default:
		log.Debugf("using in-memory session store, ttl %s", ttl)
		return session.NewMemoryStore(0, ttl), nil
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("vibefit-router"))

	var coachMiddleware []mux.MiddlewareFunc
	if s.redisClient != nil && s.config.CoachRateLimitPerMin > 0 {
		reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
		coachMiddleware = append(coachMiddleware, middleware.RateLimit(
			reqRateLimiter,
			s.metricsManager,
			coachRouterName,
			s.config.CoachRateLimitPerMin,
		))
	}

	gymlogHandler := gymlog.NewHandler(
		s.service,
		s.sessions,
		s.pages,
		s.config.SessionTTL(),
		coachMiddleware...,
	)
	gymlogHandler.SetupRoutes(r)

	r.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

type healthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version,omitempty"`
	LogbookAvailable bool   `json:"logbookAvailable"`
	LogbookWarning   string `json:"logbookWarning,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	resp, err := json.Marshal(healthResponse{
		Status:           "ok",
		Version:          s.versionInfo,
		LogbookAvailable: s.service.LogbookAvailable(),
		LogbookWarning:   s.service.LogbookWarning(),
	})
	if err != nil {
		log.Errorf("failed to marshal health response: %s", err)
		http.Error(w, "failed to marshal health response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// coach replies can take a while
		WriteTimeout: 2 * time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	if s.sqliteStore != nil {
		if err := s.sqliteStore.Close(); err != nil {
			log.Errorf("failed to close sqlite session store: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
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
